package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/bodyscan/internal/app"
	"github.com/ayusman/bodyscan/internal/planar"
	"github.com/ayusman/bodyscan/internal/volumetric"
)

func serve(s http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	return body
}

func TestServer_Health(t *testing.T) {
	t.Run("bare server", func(t *testing.T) {
		body := decodeHealth(t, serve(New(Config{}), http.MethodGet, "/api/health"))
		if body["status"] != "ok" {
			t.Errorf("status = %v", body["status"])
		}
		if _, ok := body["uptime"]; !ok {
			t.Error("missing uptime")
		}
		if body["history"] != false {
			t.Errorf("history = %v, want false without an app", body["history"])
		}
	})

	t.Run("app without store", func(t *testing.T) {
		a := app.New(app.Config{Planar: planar.DefaultConfig(), Volumetric: volumetric.DefaultConfig()})
		body := decodeHealth(t, serve(New(Config{App: a}), http.MethodGet, "/api/health"))
		if body["history"] != false {
			t.Errorf("history = %v, want false", body["history"])
		}
	})

	t.Run("rejects writes", func(t *testing.T) {
		s := New(Config{})
		for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			if rec := serve(s, m, "/api/health"); rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("%s: status = %d", m, rec.Code)
			}
		}
	})
}

func TestServer_Routes(t *testing.T) {
	static := t.TempDir()
	const page = "<html><body>capture</body></html>"
	if err := os.WriteFile(filepath.Join(static, "index.html"), []byte(page), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(static, "capture.js"), []byte("start()"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  Config
		path string
		code int
		body string
	}{
		{"unknown api path", Config{}, "/api/nonexistent", http.StatusNotFound, ""},
		{"index without static dir", Config{}, "/", http.StatusNotFound, ""},
		{"scans need an app", Config{}, "/api/scans", http.StatusNotFound, ""},
		{"planar needs an app", Config{}, "/api/scans/planar", http.StatusNotFound, ""},
		{"capture needs an app", Config{}, "/api/capture", http.StatusNotFound, ""},
		{"index page", Config{StaticDir: static}, "/", http.StatusOK, page},
		{"static asset", Config{StaticDir: static}, "/capture.js", http.StatusOK, "start()"},
		{"missing asset", Config{StaticDir: static}, "/missing.css", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(New(tt.cfg), http.MethodGet, tt.path)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestNew_DefaultsLogger(t *testing.T) {
	s := New(Config{StaticDir: "/srv/bodyscan"})
	if s.logger == nil {
		t.Fatal("expected a no-op logger")
	}
	if s.config.StaticDir != "/srv/bodyscan" {
		t.Errorf("StaticDir = %q", s.config.StaticDir)
	}
	var _ http.Handler = s
}
