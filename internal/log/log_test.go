package log

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentApp, Output: &buf}).
		With(FieldRequestID, "r-1").
		WithComponent(ComponentLedger)

	l.Info("Transaction added", FieldTransactionID, "01HX")

	out := buf.String()
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=ledger") {
		t.Fatalf("expected a single ledger component: %q", out)
	}
	if !strings.Contains(out, "request_id=r-1") || !strings.Contains(out, "transaction_id=01HX") {
		t.Fatalf("missing attributes: %q", out)
	}
	if l.Component() != ComponentLedger {
		t.Fatalf("Component() = %q", l.Component())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithTransaction("01HX", "expense", "35.5", "food").
		WithPersisted(false).
		WithError(nil).
		WithOperation(OpCreate)

	if _, ok := f[FieldError]; ok {
		t.Error("nil error should not add a field")
	}
	if f[FieldAmount] != "35.5" || f[FieldPersisted] != false || f[FieldOperation] != OpCreate {
		t.Errorf("unexpected fields %v", f)
	}
	if got := len(f.ToSlice()); got != 2*len(f) {
		t.Errorf("ToSlice length = %d, want %d", got, 2*len(f))
	}
}

func TestRequestMiddlewareChain(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentHTTP, Output: &buf})

	var seenID string
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	h := Middleware(logger)(
		RequestIDMiddleware(func() string { return "generated-id" })(
			AccessLogMiddleware(func(*http.Request) string { return "127.0.0.1" })(final)))

	t.Run("generated id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))

		if seenID != "generated-id" || rec.Header().Get("X-Request-ID") != "generated-id" {
			t.Fatalf("request id not propagated: ctx=%q header=%q", seenID, rec.Header().Get("X-Request-ID"))
		}
		out := buf.String()
		for _, want := range []string{"level=WARN", "status_code=422", "request_id=generated-id", "path=/api/transactions"} {
			if !strings.Contains(out, want) {
				t.Errorf("access log missing %q: %s", want, out)
			}
		}
	})

	t.Run("incoming id kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
		req.Header.Set("X-Request-ID", "upstream-1")
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seenID != "upstream-1" {
			t.Fatalf("expected upstream id, got %q", seenID)
		}
	})
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentLedger, Output: &buf})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := Middleware(logger)
	var handled bool
	ctx(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		LogError(r.Context(), "Failed to persist ledger", errors.New("disk full"), OpCreate, nil)
		handled = true
	})).ServeHTTP(httptest.NewRecorder(), req)

	if !handled {
		t.Fatal("handler not called")
	}
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, `error="disk full"`) || !strings.Contains(out, "operation=create") {
		t.Fatalf("unexpected error log: %s", out)
	}
}
