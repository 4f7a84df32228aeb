package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haneul-labs/fassto-gateway/internal/daterange"
	"github.com/haneul-labs/fassto-gateway/internal/proxy"
	"github.com/haneul-labs/fassto-gateway/internal/sheetsync"
	"github.com/haneul-labs/fassto-gateway/pkg/config"
	"github.com/haneul-labs/fassto-gateway/pkg/fassto"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
)

type stubUpstream struct {
	records []fassto.Record
}

func (s *stubUpstream) Connect(context.Context) (fassto.AccessToken, error) {
	return fassto.AccessToken{Value: "token"}, nil
}

func (s *stubUpstream) FetchDeliveries(context.Context, fassto.AccessToken, daterange.Range) ([]fassto.Record, error) {
	return s.records, nil
}

func (s *stubUpstream) Fetch(context.Context, fassto.AccessToken, fassto.ProxyRequest) ([]fassto.Record, error) {
	return s.records, nil
}

type stubSink struct {
	appends [][][]any
}

func (s *stubSink) Append(_ context.Context, _, _ string, rows [][]any) error {
	s.appends = append(s.appends, rows)
	return nil
}

func (s *stubSink) Overwrite(_ context.Context, _, _ string, rows [][]any) error {
	return nil
}

func testRouter(t *testing.T, upstream *stubUpstream, sink *stubSink) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	cfg := &config.Config{}
	cfg.App.Env = "development"
	cfg.CORS.AllowedOrigins = "https://script.google.com"

	syncSvc, err := sheetsync.NewService(upstream, sink, logg, nil)
	if err != nil {
		t.Fatalf("sheetsync service: %v", err)
	}
	proxySvc, err := proxy.NewService(upstream, logg)
	if err != nil {
		t.Fatalf("proxy service: %v", err)
	}
	return NewRouter(cfg, logg, nil, syncSvc, proxySvc)
}

func TestSyncEndToEnd(t *testing.T) {
	upstream := &stubUpstream{records: []fassto.Record{
		{"outDlvNo": "T1", "custNm": "A", "status": "DONE"},
		{"outDlvNo": "T2", "custNm": "B"},
	}}
	sink := &stubSink{}
	router := testRouter(t, upstream, sink)

	body := `{"spreadsheetId":"sheet-1","sheetName":"Sheet1","startDate":"2025-07-01","endDate":"2025-07-02"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["status"] != "success" {
		t.Fatalf("status field = %v, want success", payload["status"])
	}
	if payload["count"] != float64(2) {
		t.Fatalf("count = %v, want 2", payload["count"])
	}
	if len(sink.appends) != 1 {
		t.Fatalf("sink writes = %d, want 1", len(sink.appends))
	}
	if len(sink.appends[0]) != 2 {
		t.Fatalf("rows written = %d, want 2", len(sink.appends[0]))
	}
}

func TestSyncValidationError(t *testing.T) {
	router := testRouter(t, &stubUpstream{}, &stubSink{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["status"] != "error" {
		t.Fatalf("status field = %v, want error", payload["status"])
	}
}

func TestPreflightAlwaysNoContent(t *testing.T) {
	router := testRouter(t, &stubUpstream{}, &stubSink{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sync", nil)
	req.Header.Set("Origin", "https://script.google.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("preflight body = %q, want empty", rec.Body.String())
	}
}

func TestDisallowedOriginRejected(t *testing.T) {
	router := testRouter(t, &stubUpstream{}, &stubSink{})

	body := `{"spreadsheetId":"sheet-1","sheetName":"Sheet1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(body))
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["status"] != "error" {
		t.Fatalf("status field = %v, want error", payload["status"])
	}
}

func TestProxyEndToEnd(t *testing.T) {
	upstream := &stubUpstream{records: []fassto.Record{{"slipNo": "S1"}}}
	router := testRouter(t, upstream, &stubSink{})

	body := `{"apiPath":"/api/v1/delivery/out","queryParams":{"page":"1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/proxy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", payload["count"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(t, &stubUpstream{}, &stubSink{})

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
