package moderation

import (
	"context"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// Service is the fail-open front of the scorer: a missing or failing
// external service yields an all-clear score marked degraded, never an
// error and never a block.
type Service struct {
	scorer Scorer
	logger *logrus.Logger
}

// NewService accepts a nil scorer for deployments without moderation
// credentials; every score is then the degraded neutral value.
func NewService(scorer Scorer, logger *logrus.Logger) *Service {
	return &Service{scorer: scorer, logger: logger}
}

func (s *Service) Score(ctx context.Context, input Input) domain.ModerationScore {
	if s.scorer == nil {
		prometheus.ModerationDegraded.Inc()
		return domain.NeutralModerationScore(true)
	}

	score, err := s.scorer.Score(ctx, input)
	if err != nil {
		prometheus.ModerationDegraded.Inc()
		s.logger.WithError(err).Warn("moderation scorer failed, returning neutral score")
		return domain.NeutralModerationScore(true)
	}
	return score
}
