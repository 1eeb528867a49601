package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/records/:id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})

	oversized := strings.Repeat("r", maxRequestIDLength+1)
	cases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"propagated", "ingest-run-7", true},
		{"exactly at the limit", strings.Repeat("r", maxRequestIDLength), true},
		{"replaced when oversized", oversized, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/records/1", nil)
			if tc.incoming != "" {
				req.Header.Set(requestIDHeader, tc.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(requestIDHeader)
			if got == "" || got != w.Body.String() {
				t.Fatalf("header %q and context %q should agree", got, w.Body.String())
			}
			if (got == tc.incoming) != tc.keep {
				t.Fatalf("incoming %q, got %q, keep=%v", tc.incoming, got, tc.keep)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		handler  gin.HandlerFunc
		jsonBody bool
	}{
		{
			name:     "before write",
			handler:  func(*gin.Context) { panic("index out of range") },
			jsonBody: true,
		},
		{
			name: "after write",
			handler: func(c *gin.Context) {
				c.String(http.StatusOK, "Найдено: 3")
				panic("late")
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLogger(t)
			r := gin.New()
			r.Use(RequestID())
			r.Use(RedactingLogger(RedactOptions{}))
			r.Use(Recovery())
			r.GET("/search", tc.handler)

			req := httptest.NewRequest(http.MethodGet, "/search", nil)
			req.Header.Set(requestIDHeader, "rid-panic")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			logs := buf.String()
			if !strings.Contains(logs, "panic recovered") || !strings.Contains(logs, `"path":"/search"`) {
				t.Fatalf("panic not logged:\n%s", logs)
			}
			if !tc.jsonBody {
				if strings.Contains(w.Body.String(), "internal_error") {
					t.Fatalf("error body appended after a write: %q", w.Body.String())
				}
				return
			}
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d", w.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if body["code"] != "internal_error" || body["request_id"] != "rid-panic" {
				t.Fatalf("body = %v", body)
			}
		})
	}
}

func TestLoggerFrom_GlobalWhenNotInstalled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/health", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("inner handler")
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	logs := buf.String()
	if !strings.Contains(logs, `"message":"inner handler"`) || strings.Contains(logs, `"request_id"`) {
		t.Fatalf("want a bare global logger line, got %s", logs)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"листовка", 0, "листовка"},
		{"abc", 10, "abc"},
		{"abcdefgh", 5, "abcde…"},
		// "л" and "и" are two bytes each; 3 bytes backs off to one rune.
		{"листовка", 3, "л…"},
		{"листовка", 4, "ли…"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q; want %q", tc.in, tc.max, got, tc.want)
		}
	}
	if asString("x") != "x" || asString(int64(7)) != "" {
		t.Fatalf("asString")
	}
}
