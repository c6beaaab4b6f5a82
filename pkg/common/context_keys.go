package common

type contextKey string

const (
	IdentityContextKey contextKey = "identity"
	ClientIPContextKey contextKey = "client_ip"
	TraceIdKey         contextKey = "trace_id"
)
