package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/unicompass/internal/apitest"
)

func tempBlobPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestLoginSuccess(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	path := tempBlobPath(t)
	store := NewStoreAt(srv.URL(), path)

	if err := store.Login(context.Background(), "amira", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	id := store.Identity()
	if id == nil {
		t.Fatal("no identity after login")
	}
	if id.Username != "amira" {
		t.Errorf("username: %q", id.Username)
	}
	if id.IsAdmin() {
		t.Error("student should not be admin")
	}
	if store.AccessToken() == "" {
		t.Error("no access token held")
	}

	// Blob persisted with owner-only permissions
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("blob not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("blob mode: %v", info.Mode().Perm())
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	store := NewStoreAt(srv.URL(), tempBlobPath(t))

	err := store.Login(context.Background(), "amira", "wrong")
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "No active account found with the given credentials" {
		t.Errorf("detail not surfaced: %q", err.Error())
	}
	if store.Identity() != nil {
		t.Error("identity set after failed login")
	}
}

func TestLoginFailureKeepsPriorSession(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	store := NewStoreAt(srv.URL(), tempBlobPath(t))
	if err := store.Login(context.Background(), "amira", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := store.Login(context.Background(), "amira", "wrong"); err == nil {
		t.Fatal("expected an error")
	}
	if store.Identity() == nil {
		t.Error("failed login destroyed the prior session")
	}
}

func TestLoginNetworkError(t *testing.T) {
	// Nothing listens here
	store := NewStoreAt("http://127.0.0.1:1", tempBlobPath(t))

	err := store.Login(context.Background(), "amira", "s3cret")
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "a network error occurred, please try again" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	path := tempBlobPath(t)
	first := NewStoreAt(srv.URL(), path)
	if err := first.Login(context.Background(), "amira", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// A fresh store over the same blob comes up logged in
	second := NewStoreAt(srv.URL(), path)
	if !second.IsLoggedIn() {
		t.Fatal("session not restored")
	}
	if second.Identity().Username != "amira" {
		t.Errorf("restored username: %q", second.Identity().Username)
	}
}

func TestRestoreClearsGarbageBlob(t *testing.T) {
	path := tempBlobPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStoreAt("http://example.invalid", path)
	if store.IsLoggedIn() {
		t.Fatal("garbage blob produced a session")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("garbage blob not cleared")
	}
}

func TestRestoreClearsUndecodableToken(t *testing.T) {
	path := tempBlobPath(t)
	blob := `{"access":"not-a-jwt","refresh":"also-not"}`
	if err := os.WriteFile(path, []byte(blob), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStoreAt("http://example.invalid", path)
	if store.IsLoggedIn() {
		t.Fatal("undecodable token produced a session")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("blob with undecodable token not cleared")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	path := tempBlobPath(t)
	store := NewStoreAt(srv.URL(), path)
	if err := store.Login(context.Background(), "amira", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.Logout()
	store.Logout() // safe to repeat

	if store.IsLoggedIn() {
		t.Error("still logged in after logout")
	}
	if store.AccessToken() != "" {
		t.Error("token survives logout")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("blob survives logout")
	}
}

func TestDecodeIdentity(t *testing.T) {
	token := apitest.MintToken("root", []string{"admin"}, false, time.Hour)
	id, err := DecodeIdentity(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id.Username != "root" || !id.IsAdmin() {
		t.Errorf("decoded identity: %+v", id)
	}

	if _, err := DecodeIdentity("garbage"); err == nil {
		t.Error("garbage token decoded")
	}
}
