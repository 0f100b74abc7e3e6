package dashboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/unicompass/internal/api"
	"github.com/existflow/unicompass/internal/apitest"
	"github.com/existflow/unicompass/internal/model"
	"github.com/existflow/unicompass/internal/session"
)

func newTestMaterializer(t *testing.T, srv *apitest.Server) *Materializer {
	t.Helper()
	store := session.NewStoreAt(srv.URL(), filepath.Join(t.TempDir(), "session.json"))
	if err := store.Login(context.Background(), "amira", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return NewMaterializer(api.NewClient(srv.URL(), store))
}

func TestFetchReplacesRecord(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Dashboard = model.Dashboard{
		Favorites: []model.University{{ID: 1, Name: "MIT"}},
	}

	m := newTestMaterializer(t, srv)
	if m.Current() != nil {
		t.Error("record present before first fetch")
	}

	d, err := m.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(d.Favorites) != 1 || d.Favorites[0].Name != "MIT" {
		t.Errorf("favorites: %+v", d.Favorites)
	}

	// A later fetch replaces the record wholesale
	srv.Dashboard = model.Dashboard{
		Applied: []model.University{{ID: 2, Name: "ETH Zurich"}},
	}
	d, err = m.Fetch(context.Background())
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if len(d.Favorites) != 0 {
		t.Error("stale bucket merged into fresh record")
	}
	if len(d.Applied) != 1 {
		t.Errorf("applied: %+v", d.Applied)
	}
	if m.Current() != d {
		t.Error("Current does not hold the latest record")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Universities = []model.University{{ID: 1, Name: "MIT"}}

	m := newTestMaterializer(t, srv)
	ctx := context.Background()

	res, err := m.Add(ctx, 1, model.BucketFavorites)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if res != Added {
		t.Errorf("first add: %v", res)
	}

	res, err = m.Add(ctx, 1, model.BucketFavorites)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if res != AlreadyPresent {
		t.Errorf("second add: %v", res)
	}

	if srv.DashboardPosts != 1 {
		t.Errorf("server saw %d add requests", srv.DashboardPosts)
	}
	if got := len(m.Current().Favorites); got != 1 {
		t.Errorf("bucket holds %d entries", got)
	}
}

func TestAddToSecondBucketStillSends(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Universities = []model.University{{ID: 1, Name: "MIT"}}

	m := newTestMaterializer(t, srv)
	ctx := context.Background()

	if _, err := m.Add(ctx, 1, model.BucketFavorites); err != nil {
		t.Fatalf("add: %v", err)
	}
	res, err := m.Add(ctx, 1, model.BucketApplied)
	if err != nil {
		t.Fatalf("cross-bucket add: %v", err)
	}
	if res != Added {
		t.Errorf("cross-bucket add: %v", res)
	}
	if srv.DashboardPosts != 2 {
		t.Errorf("server saw %d add requests", srv.DashboardPosts)
	}
}

func TestAddFetchesRecordFirst(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Universities = []model.University{{ID: 1, Name: "MIT"}}
	srv.Dashboard = model.Dashboard{
		Favorites: []model.University{{ID: 1, Name: "MIT"}},
	}

	m := newTestMaterializer(t, srv)

	// No prior fetch: Add must consult the server before deciding
	res, err := m.Add(context.Background(), 1, model.BucketFavorites)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if res != AlreadyPresent {
		t.Errorf("add against server-held entry: %v", res)
	}
	if srv.DashboardPosts != 0 {
		t.Errorf("server saw %d add requests", srv.DashboardPosts)
	}
}

func TestAwaitSubscriptionActivates(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.ActivateAfter = 3

	m := newTestMaterializer(t, srv)

	active, err := m.AwaitSubscription(context.Background(), 5, time.Millisecond)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if !active {
		t.Error("activation not observed")
	}
	if srv.DashboardGets != 3 {
		t.Errorf("polled %d times, want early exit at 3", srv.DashboardGets)
	}
}

func TestAwaitSubscriptionExhaustsAttempts(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	m := newTestMaterializer(t, srv)

	active, err := m.AwaitSubscription(context.Background(), 3, time.Millisecond)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if active {
		t.Error("reported active without activation")
	}
	if srv.DashboardGets != 3 {
		t.Errorf("polled %d times", srv.DashboardGets)
	}
}

func TestAwaitSubscriptionHonorsContext(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	m := newTestMaterializer(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.AwaitSubscription(ctx, 5, time.Minute)
	if err == nil {
		t.Fatal("expected context error")
	}
}
