package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/existflow/unicompass/internal/apitest"
	"github.com/existflow/unicompass/internal/session"
)

// execute runs the root command with args under a fresh HOME, returning
// captured stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	out, _ := io.ReadAll(r)
	return string(out), runErr
}

func seedSession(t *testing.T, home string, groups []string, staff bool) {
	t.Helper()
	dir := filepath.Join(home, ".unicompass")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	blob, err := json.Marshal(session.Tokens{
		Access:  apitest.MintToken("amira", groups, staff, time.Hour),
		Refresh: apitest.MintToken("amira", groups, staff, 24*time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "session.json"), blob, 0600); err != nil {
		t.Fatal(err)
	}
}

func TestAuthStatusLoggedOut(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "auth", "status")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Not logged in") {
		t.Errorf("output: %q", out)
	}
}

func TestAuthStatusLoggedIn(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	seedSession(t, home, []string{"students"}, false)

	out, err := execute(t, "auth", "status")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "amira") {
		t.Errorf("username missing: %q", out)
	}
	if strings.Contains(out, "administrator") {
		t.Errorf("plain account shown as admin: %q", out)
	}
}

func TestAuthStatusAdmin(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	seedSession(t, home, []string{"admin"}, false)

	out, err := execute(t, "auth", "status")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "administrator") {
		t.Errorf("admin not reported: %q", out)
	}
}

func TestLogoutWhenLoggedOut(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "auth", "logout")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Not logged in") {
		t.Errorf("output: %q", out)
	}
}

func TestLogoutRemovesSessionBlob(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	seedSession(t, home, nil, false)

	if _, err := execute(t, "auth", "logout"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	blobPath := filepath.Join(home, ".unicompass", "session.json")
	if _, err := os.Stat(blobPath); !os.IsNotExist(err) {
		t.Error("session blob survives logout")
	}
}
