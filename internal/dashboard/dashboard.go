package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/unicompass/internal/api"
	"github.com/existflow/unicompass/internal/logger"
	"github.com/existflow/unicompass/internal/model"
)

// AddResult says what an Add call did.
type AddResult int

const (
	// Added means the university was sent to the server and the record
	// refreshed.
	Added AddResult = iota
	// AlreadyPresent means the bucket already held the university; no
	// request was issued. This is informational, not an error.
	AlreadyPresent
)

// Materializer holds the current dashboard record and applies the
// idempotent add rule: a university appears at most once per bucket.
type Materializer struct {
	client *api.Client

	mu      sync.Mutex
	current *model.Dashboard
}

// NewMaterializer creates a materializer over the API client.
func NewMaterializer(client *api.Client) *Materializer {
	return &Materializer{client: client}
}

// Fetch replaces the whole dashboard record. There is no bucket-level
// merge.
func (m *Materializer) Fetch(ctx context.Context) (*model.Dashboard, error) {
	d, err := m.client.FetchDashboard(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.current = d
	m.mu.Unlock()
	return d, nil
}

// Current returns the last fetched record, or nil before the first fetch.
func (m *Materializer) Current() *model.Dashboard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Add puts a university into a bucket. When the bucket already holds it,
// Add reports AlreadyPresent without issuing a request; otherwise it sends
// the add and refreshes the record.
func (m *Materializer) Add(ctx context.Context, universityID int, bucket model.Bucket) (AddResult, error) {
	m.mu.Lock()
	known := m.current
	m.mu.Unlock()

	if known == nil {
		var err error
		known, err = m.Fetch(ctx)
		if err != nil {
			return Added, err
		}
	}

	if known.Contains(bucket, universityID) {
		logger.Debug("University already in bucket",
			logger.F("university", universityID), logger.F("bucket", bucket))
		return AlreadyPresent, nil
	}

	if err := m.client.AddToDashboard(ctx, universityID, bucket); err != nil {
		return Added, err
	}
	if _, err := m.Fetch(ctx); err != nil {
		return Added, err
	}
	logger.Info("University added to bucket",
		logger.F("university", universityID), logger.F("bucket", bucket))
	return Added, nil
}

// AwaitSubscription re-fetches the dashboard a bounded number of times,
// stopping early once the subscription reports active or a fetch fails.
// The authoritative state change arrives asynchronously from the payment
// provider, so this is best-effort reconciliation, not guaranteed delivery.
func (m *Materializer) AwaitSubscription(ctx context.Context, attempts int, interval time.Duration) (bool, error) {
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(interval):
			}
		}

		d, err := m.Fetch(ctx)
		if err != nil {
			return false, err
		}
		if d.SubscriptionStatus == model.SubscriptionActive {
			return true, nil
		}
	}
	return false, nil
}
