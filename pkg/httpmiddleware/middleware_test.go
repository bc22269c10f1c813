package httpmiddleware

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- RequestID ---

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})
	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "edge-42")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "edge-42", seen)
		assert.Equal(t, "edge-42", w.Header().Get(RequestIDHeader))
	})
	t.Run("invalid replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 129))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Len(t, seen, 36)
	})
}

func TestIsValidRequestID(t *testing.T) {
	assert.True(t, isValidRequestID("abc-123"))
	assert.True(t, isValidRequestID(strings.Repeat("a", 128)))
	assert.False(t, isValidRequestID(""))
	assert.False(t, isValidRequestID(strings.Repeat("a", 129)))
	assert.False(t, isValidRequestID("bad\nid"))
	assert.False(t, isValidRequestID("naïve"))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

// --- Recovery ---

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := Recovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("template exploded")
	}))

	req := httptest.NewRequest(http.MethodGet, "/?q=tee", nil)
	req = req.WithContext(zctx.Base(req.Context(), zap.New(core)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Panic recovered", entry.Message)
	assert.Equal(t, "template exploded", entry.ContextMap()["panic"])
	assert.Equal(t, "/", entry.ContextMap()["path"])
}

func TestRecovery_AbortHandler(t *testing.T) {
	h := Recovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

// --- HTMX ---

func TestHTMX(t *testing.T) {
	var got bool
	h := HTMX()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = IsHTMX(r.Context())
	}))

	for _, tt := range []struct {
		header string
		want   bool
	}{
		{header: "true", want: true},
		{header: "", want: false},
		{header: "false", want: false},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("HX-Request", tt.header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, tt.want, got, "HX-Request=%q", tt.header)
		assert.Equal(t, "HX-Request", w.Header().Get("Vary"))
	}

	assert.False(t, IsHTMX(context.Background()))
}

// --- Logging ---

func TestLogRequests(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lg := zap.New(core)

	r := chi.NewRouter()
	r.Use(RequestID(), InjectLogger(lg), LogRequests())
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		zctx.From(r.Context()).Debug("Inside")
		_, _ = io.WriteString(w, "ok")
	})
	r.Get("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Inside", entries[0].Message)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])

	line := entries[1]
	assert.Equal(t, "Request", line.Message)
	assert.Equal(t, zapcore.InfoLevel, line.Level)
	fields := line.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/items/{id}", fields["route"])
	assert.Equal(t, "/items/7", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.EqualValues(t, 2, fields["bytes"])

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))
	last := logs.All()[logs.Len()-1]
	assert.Equal(t, zapcore.ErrorLevel, last.Level)
	assert.EqualValues(t, http.StatusBadGateway, last.ContextMap()["status"])

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	last = logs.All()[logs.Len()-1]
	assert.Equal(t, zapcore.WarnLevel, last.Level)
	assert.EqualValues(t, http.StatusNotFound, last.ContextMap()["status"])
}

// --- Compression ---

func TestCompress(t *testing.T) {
	page := strings.Repeat("<div class=\"card\">Cotton Tee</div>\n", 200)
	r := chi.NewRouter()
	r.Use(Compress(5))
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, page)
	})
	r.Get("/image", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = io.WriteString(w, "png")
	})

	t.Run("gzip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
		assert.Less(t, w.Body.Len(), len(page))

		zr, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, page, string(body))
	})
	t.Run("identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, page, w.Body.String())
	})
	t.Run("incompressible type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/image", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, "png", w.Body.String())
	})
}

// --- Instrumentation ---

type noopTelemetry struct{}

func (noopTelemetry) TracerProvider() trace.TracerProvider { return tracenoop.NewTracerProvider() }

func (noopTelemetry) MeterProvider() metric.MeterProvider { return metricnoop.NewMeterProvider() }

func TestInstrument(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument("storefront", noopTelemetry{}))
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
