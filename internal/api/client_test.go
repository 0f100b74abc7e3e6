package api

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/existflow/unicompass/internal/apitest"
	"github.com/existflow/unicompass/internal/model"
	"github.com/existflow/unicompass/internal/session"
)

func newTestClient(t *testing.T, srv *apitest.Server) *Client {
	t.Helper()
	store := session.NewStoreAt(srv.URL(), filepath.Join(t.TempDir(), "session.json"))
	if err := store.Login(context.Background(), "amira", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return NewClient(srv.URL(), store)
}

func sampleUniversities() []model.University {
	return []model.University{
		{ID: 1, Name: "MIT", Country: "USA", City: "Cambridge", CourseOffered: "Computer Science", DegreeLevel: "both", TuitionFee: "55000", ApplicationFee: "75"},
		{ID: 2, Name: "ETH Zurich", Country: "Switzerland", City: "Zurich", CourseOffered: "Engineering", DegreeLevel: "master", TuitionFee: "1500", ApplicationFee: "50"},
		{ID: 3, Name: "TU Berlin", Country: "Germany", City: "Berlin", CourseOffered: "Computer Science", DegreeLevel: "bachelor", TuitionFee: "", ApplicationFee: "0"},
	}
}

func TestListEnvelope(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Universities = sampleUniversities()
	srv.PageSize = 2

	client := newTestClient(t, srv)

	page, err := client.ListUniversities(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Results) != 2 {
		t.Errorf("page size: %d", len(page.Results))
	}
	if page.Count != 3 {
		t.Errorf("count: %d", page.Count)
	}
	if page.Next == "" {
		t.Error("no continuation token")
	}
}

func TestListBareArray(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Universities = sampleUniversities()
	srv.Paginated = false

	client := newTestClient(t, srv)

	page, err := client.ListUniversities(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Results) != 3 || page.Count != 3 {
		t.Errorf("bare array parse: %d results, count %d", len(page.Results), page.Count)
	}
	if page.Next != "" {
		t.Errorf("bare array has continuation %q", page.Next)
	}
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Universities = sampleUniversities()

	client := newTestClient(t, srv)
	srv.RejectBearer = true

	_, err := client.ListUniversities(context.Background(), ListParams{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// The session is torn down regardless of which operation hit the 401
	if client.Session().IsLoggedIn() {
		t.Error("still logged in after 401")
	}
	if client.Session().Identity() != nil {
		t.Error("identity survives 401")
	}
}

func TestAPIErrorDetail(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Universities = sampleUniversities()
	srv.FailList = true

	client := newTestClient(t, srv)

	_, err := client.ListUniversities(context.Background(), ListParams{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 500 || apiErr.Detail != "catalog unavailable" {
		t.Errorf("got %d %q", apiErr.Status, apiErr.Detail)
	}
}

func TestRegisterValidationError(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)

	err := client.Register(context.Background(), "a@b.c", "", "pw", "pw")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "This field may not be blank." {
		t.Errorf("validation detail: %q", apiErr.Detail)
	}
}

func TestGetUniversity(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Universities = sampleUniversities()

	client := newTestClient(t, srv)

	u, err := client.GetUniversity(context.Background(), 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Name != "ETH Zurich" {
		t.Errorf("name: %q", u.Name)
	}

	_, err = client.GetUniversity(context.Background(), 999)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Errorf("missing record: %v", err)
	}
}

func TestParsePageShapes(t *testing.T) {
	// Envelope with a DRF-style next URL reduces to the page param
	envelope := `{"results":[{"id":1,"name":"MIT"}],"next":"https://api.example/api/universities/?page=2","count":9}`
	page, err := parsePage(json.RawMessage(envelope))
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if page.Next != "2" || page.Count != 9 {
		t.Errorf("envelope parse: next=%q count=%d", page.Next, page.Count)
	}

	// Null next means no further pages
	page, err = parsePage(json.RawMessage(`{"results":[],"next":null,"count":0}`))
	if err != nil {
		t.Fatalf("null next: %v", err)
	}
	if page.Next != "" {
		t.Errorf("null next parsed as %q", page.Next)
	}

	// Bare array with leading whitespace
	page, err = parsePage(json.RawMessage("  [{\"id\":1,\"name\":\"MIT\"}]"))
	if err != nil {
		t.Fatalf("bare array: %v", err)
	}
	if len(page.Results) != 1 || page.Count != 1 {
		t.Errorf("bare array parse: %+v", page)
	}
}

func TestReadDetailValidationOrder(t *testing.T) {
	body := `{"username":["This field may not be blank."],"email":["Enter a valid email address."]}`
	want := "Enter a valid email address., This field may not be blank."
	// Key order in the body must not matter
	for i := 0; i < 20; i++ {
		if got := readDetail(strings.NewReader(body)); got != want {
			t.Fatalf("flattened detail: %q", got)
		}
	}
}

func TestAdminUserLifecycle(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()

	created, err := client.CreateUser(ctx, UserInput{Username: "dawit", Email: "dawit@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.Username != "dawit" {
		t.Errorf("created record: %+v", created)
	}
	if created.IsStaff {
		t.Error("staff flag set without being asked for")
	}

	// Partial update: only the fields sent change
	staff := true
	updated, err := client.UpdateUser(ctx, created.ID, UserInput{Email: "d@example.com", IsStaff: &staff})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != "d@example.com" || !updated.IsStaff {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Username != "dawit" {
		t.Errorf("untouched field changed: %q", updated.Username)
	}

	users, err := client.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0].ID != created.ID {
		t.Errorf("listing: %+v", users)
	}

	if err := client.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	users, err = client.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("account survives delete: %+v", users)
	}
}

func TestCreateUserValidation(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)

	_, err := client.CreateUser(context.Background(), UserInput{Email: "x@example.com"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "This field may not be blank." {
		t.Errorf("validation detail: %q", apiErr.Detail)
	}
}

func TestAdminRoundTrip(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Universities = sampleUniversities()

	client := newTestClient(t, srv)
	ctx := context.Background()

	created, err := client.CreateUniversity(ctx, UniversityInput{Name: "KAIST", Country: "South Korea", City: "Daejeon"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Error("no id assigned")
	}

	updated, err := client.UpdateUniversity(ctx, created.ID, UniversityInput{Name: "KAIST", Country: "South Korea", City: "Seoul"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.City != "Seoul" {
		t.Errorf("update not applied: %q", updated.City)
	}

	if err := client.DeleteUniversity(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.GetUniversity(ctx, created.ID); err == nil {
		t.Error("record survives delete")
	}
}
