package server

import (
	"fmt"

	"github.com/Cleareds/plantspack-sub002/pkg/config"
	handlers "github.com/Cleareds/plantspack-sub002/pkg/handlers/http"
	"github.com/Cleareds/plantspack-sub002/pkg/middleware"
	"github.com/sirupsen/logrus"
)

type (
	GatewayServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	GatewayServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewGatewayServer(di GatewayServerDI) *GatewayServer {
	return &GatewayServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *GatewayServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf(":%d", s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("Starting trust gateway server")
	return s.Router.Listen(addr)
}

func (s *GatewayServer) setupRoutes() {
	s.Router.Use(s.middlewareTransport.PanicRecoverMiddleware.Middleware())
	s.Router.Use(s.middlewareTransport.TraceMiddleware.Middleware())
	s.Router.Use(s.middlewareTransport.AuthMiddleware.Middleware())

	v1 := s.Router.Group("/api/v1")
	{
		gate := v1.Group("/gate")
		{
			gate.Post("/submissions", s.handlerTransport.GateSubmissionHandler.Handle)
		}
		v1.Post("/classify", s.handlerTransport.ClassifyContentHandler.Handle)
		v1.Post("/moderate", s.handlerTransport.ModerateContentHandler.Handle)
	}
}
