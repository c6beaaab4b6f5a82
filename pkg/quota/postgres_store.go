package quota

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// upsertCounterQuery performs the whole read-increment-compare in a single
// conditional upsert. The window expiry only ever moves forward: an expired
// row restarts the window, an active row keeps its expiry untouched.
const upsertCounterQuery = `
INSERT INTO quota_counters (identifier, action, count, window_expires_at)
VALUES (?, ?, 1, now() + make_interval(secs => ?))
ON CONFLICT (identifier, action) DO UPDATE SET
  count = CASE
    WHEN quota_counters.window_expires_at <= now() THEN 1
    ELSE quota_counters.count + 1
  END,
  window_expires_at = CASE
    WHEN quota_counters.window_expires_at <= now() THEN now() + make_interval(secs => ?)
    ELSE quota_counters.window_expires_at
  END
RETURNING count, window_expires_at`

// PostgresStore backs quota counters with the hosted relational datastore.
// The gateway only ever issues the single upsert above, so the schema can
// live with the rest of the application's tables.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CheckAndIncrement(
	ctx context.Context,
	identifier, action string,
	limit int,
	window time.Duration,
) (Decision, error) {
	var (
		count     int64
		expiresAt time.Time
	)
	seconds := window.Seconds()
	row := s.db.WithContext(ctx).
		Raw(upsertCounterQuery, identifier, action, seconds, seconds).
		Row()
	if err := row.Scan(&count, &expiresAt); err != nil {
		return Decision{}, fmt.Errorf("quota upsert for %s/%s: %w", action, identifier, err)
	}

	resetIn := time.Until(expiresAt)
	if resetIn < 0 {
		resetIn = 0
	}
	return decide(limit, count, resetIn), nil
}
