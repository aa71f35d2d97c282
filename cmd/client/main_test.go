package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smallwat3r/passcheck/internal/console"
	"github.com/smallwat3r/passcheck/internal/domain"
)

// fakeService answers like the check service for one session whose
// password is "secret".
func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	failures := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected 'POST' method, got: %s", r.Method)
		}
		switch {
		case r.URL.Path == "/sessions":
			var req domain.CreateSessionReq
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode create request: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(domain.CreateSessionRes{
				ID:          "test-id",
				Variant:     req.Variant.String(),
				MaxAttempts: domain.MaxAttempts,
				ExpiresAt:   time.Now().Add(time.Minute),
			})
		case r.URL.Path == "/sessions/test-id/attempts":
			if failures >= domain.MaxAttempts {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var req domain.AttemptReq
			json.NewDecoder(r.Body).Decode(&req)
			if req.Password == "secret" {
				json.NewEncoder(w).Encode(domain.AttemptRes{OK: true, Remaining: domain.MaxAttempts - failures})
				return
			}
			failures++
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(domain.AttemptRes{
				Remaining: domain.MaxAttempts - failures,
				Locked:    failures == domain.MaxAttempts,
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRunCheck(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		want     bool
		contains string
	}{
		{"first attempt", "secret\n", true, "Access granted"},
		{"third attempt", "a\nb\nsecret\n", true, "1 attempts left"},
		{"locked", "a\nb\nc\nsecret\n", false, "locked"},
		{"end of input", "", false, "locked"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := fakeService(t)
			defer server.Close()

			var out bytes.Buffer
			ok, err := runCheck(server.URL, domain.VariantSimple, console.New(strings.NewReader(tc.input), &out))
			if err != nil {
				t.Fatalf("runCheck() error = %v", err)
			}
			if ok != tc.want {
				t.Errorf("runCheck() = %v, want %v", ok, tc.want)
			}
			if !strings.Contains(out.String(), tc.contains) {
				t.Errorf("Expected output to contain %q, got '%s'", tc.contains, out.String())
			}
		})
	}
}

func TestRunCheck_CreateFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"variant must be one of: 1, 2, 3"}`))
	}))
	defer server.Close()

	var out bytes.Buffer
	_, err := runCheck(server.URL, domain.VariantSimple, console.New(strings.NewReader(""), &out))
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestDoRequestWithRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"password":"x"}` {
			t.Errorf("call %d: unexpected body %q", calls, body)
		}
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := postJSON(server.URL, domain.AttemptReq{Password: "x"})
	if err != nil {
		t.Fatalf("postJSON() error = %v", err)
	}
	resp.Body.Close()

	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestPrintUsage(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	printUsage()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	os.Stdout = oldStdout

	for _, want := range []string{"Usage:", "check", "help", "PASSCHECK_URL"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected output to contain '%s', got '%s'", want, buf.String())
		}
	}
}

func TestServiceURL(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		os.Unsetenv("PASSCHECK_URL")
		if got := serviceURL(); got != defaultBaseURL {
			t.Errorf("expected %q, got %q", defaultBaseURL, got)
		}
	})

	t.Run("from environment", func(t *testing.T) {
		os.Setenv("PASSCHECK_URL", "https://check.example.com/")
		defer os.Unsetenv("PASSCHECK_URL")
		if got := serviceURL(); got != "https://check.example.com" {
			t.Errorf("expected trimmed URL, got %q", got)
		}
	})
}
