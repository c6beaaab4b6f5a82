package quota

import (
	"context"
	"time"

	"github.com/Cleareds/plantspack-sub002/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// FailOpenStore admits the request when the backing store is unreachable.
// A quota backend outage must never lock out all writes platform-wide; the
// error counter carries the signal to alerting instead.
type FailOpenStore struct {
	inner  Store
	logger *logrus.Logger
}

func NewFailOpenStore(inner Store, logger *logrus.Logger) *FailOpenStore {
	return &FailOpenStore{inner: inner, logger: logger}
}

func (s *FailOpenStore) CheckAndIncrement(
	ctx context.Context,
	identifier, action string,
	limit int,
	window time.Duration,
) (Decision, error) {
	decision, err := s.inner.CheckAndIncrement(ctx, identifier, action, limit, window)
	if err == nil {
		return decision, nil
	}

	prometheus.QuotaStoreErrors.Inc()
	s.logger.WithError(err).WithFields(logrus.Fields{
		"action":     action,
		"identifier": identifier,
	}).Error("quota store unreachable, failing open")

	return Decision{
		Allowed:   true,
		Limit:     limit,
		Remaining: int64(limit),
		ResetIn:   window,
	}, nil
}
