package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// setupEnv points the CLI at srv with a sqlite session in a temp dir so
// the session outlives a single command.
func setupEnv(t *testing.T, srv *httptest.Server) {
	t.Helper()
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("SESSION_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "kontor.db"))
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOCALE", "de-DE")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{}
	err := a.execute(newRoot(a, &out, args...))
	return out.String(), err
}

func newRoot(a *app, out *bytes.Buffer, args ...string) *cobra.Command {
	cmd := newRootCmd(a)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	return cmd
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		user, pw, ok := r.BasicAuth()
		if !ok || user != "me@example.com" || pw != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"AccessToken": "tok", "idUser": "7"})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "name": "home"}})
	})
	mux.HandleFunc("/api/transaction", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"t_id": 1, "t_text": "ACME, rent", "t_payee": "ACME", "t_amount": -500, "tag_ids": "1"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginPersistsSession(t *testing.T) {
	setupEnv(t, newAPI(t))

	if _, err := run(t, "login", "me@example.com", "-p", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := run(t, "whoami", "-o", "json")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	var who whoami
	if err := json.Unmarshal([]byte(out), &who); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !who.Authenticated || who.Email != "me@example.com" {
		t.Errorf("whoami = %+v", who)
	}
	if strings.Contains(out, "tok") {
		t.Errorf("whoami leaks the token: %s", out)
	}

	out, err = run(t, "masterdata", "tags")
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if !strings.Contains(out, "name: home") {
		t.Errorf("tags output = %q", out)
	}

	if _, err := run(t, "logout"); err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, "whoami")
	if !strings.Contains(out, "authenticated: false") {
		t.Errorf("after logout whoami = %q", out)
	}
}

func TestLoginRejected(t *testing.T) {
	setupEnv(t, newAPI(t))
	if _, err := run(t, "login", "me@example.com", "-p", "wrong"); err == nil {
		t.Fatal("login with a wrong password succeeded")
	}
}

func TestExportDryRun(t *testing.T) {
	setupEnv(t, newAPI(t))
	if _, err := run(t, "login", "me@example.com", "-p", "pw"); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "export", "--dry-run", "-o", "json")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var res exportResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Exported != 1 || len(res.Rows) != 2 || res.Range != "mem:1-1" {
		t.Errorf("export = %+v", res)
	}
}

func TestCommandsNeedingOptionalAdapters(t *testing.T) {
	setupEnv(t, newAPI(t))

	if _, err := run(t, "export"); !errors.Is(err, errExportNotConfigured) {
		t.Errorf("export error = %v, want %v", err, errExportNotConfigured)
	}
	if _, err := run(t, "watch"); !errors.Is(err, errEventsNotConfigured) {
		t.Errorf("watch error = %v, want %v", err, errEventsNotConfigured)
	}
}

func TestFailingCommandClosesBackend(t *testing.T) {
	setupEnv(t, newAPI(t))

	a := &app{}
	var out bytes.Buffer
	if err := a.execute(newRoot(a, &out, "export")); !errors.Is(err, errExportNotConfigured) {
		t.Fatalf("export error = %v", err)
	}
	if a.backend == nil || !a.closed {
		t.Fatal("backend not released after a failing command")
	}
	// The session store is shut, so writes through it fail.
	if err := a.backend.Session.SetNotAuthenticated(context.Background()); err == nil {
		t.Error("session storage still open after the command failed")
	}
	if err := a.close(); err != nil {
		t.Errorf("second close = %v", err)
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	setupEnv(t, newAPI(t))
	if _, err := run(t, "whoami", "-o", "xml"); err == nil {
		t.Fatal("unknown format accepted")
	}
}
