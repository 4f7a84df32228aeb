package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haneul-labs/fassto-gateway/internal/proxy"
	"github.com/haneul-labs/fassto-gateway/pkg/fassto"
)

type stubProxyRunner struct {
	result *proxy.Result
	err    error
	last   proxy.Request
	calls  int
}

func (s *stubProxyRunner) Run(_ context.Context, req proxy.Request) (*proxy.Result, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestProxySuccess(t *testing.T) {
	runner := &stubProxyRunner{result: &proxy.Result{
		Count: 2,
		Data:  []fassto.Record{{"slipNo": "S1"}, {"slipNo": "S2"}},
	}}
	handler := FMSProxy(runner, testLogger())

	body := `{"apiPath":"/api/v1/stock/{cstCd}/{wrhsCd}","pathParams":{"wrhsCd":"W01"},"queryParams":{"page":"1"},"method":"GET"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/proxy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	payload := decodeEnvelope(t, rec)
	if payload["status"] != "success" {
		t.Fatalf("status field = %v, want success", payload["status"])
	}
	if payload["count"] != float64(2) {
		t.Fatalf("count = %v, want 2", payload["count"])
	}
	data, ok := payload["data"].([]any)
	if !ok || len(data) != 2 {
		t.Fatalf("data = %v, want 2 records", payload["data"])
	}
	if runner.last.PathParams["wrhsCd"] != "W01" {
		t.Fatalf("path params not forwarded: %v", runner.last.PathParams)
	}
	if runner.last.QueryParams["page"] != "1" {
		t.Fatalf("query params not forwarded: %v", runner.last.QueryParams)
	}
}

func TestProxyZeroRecordsIsInfo(t *testing.T) {
	runner := &stubProxyRunner{result: &proxy.Result{Count: 0, Data: []fassto.Record{}}}
	handler := FMSProxy(runner, testLogger())

	body := `{"apiPath":"/api/v1/delivery/out"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/proxy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	payload := decodeEnvelope(t, rec)
	if payload["status"] != "info" {
		t.Fatalf("status field = %v, want info", payload["status"])
	}
}

func TestProxyMissingPath(t *testing.T) {
	runner := &stubProxyRunner{}
	handler := FMSProxy(runner, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/proxy", strings.NewReader(`{"method":"GET"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if runner.calls != 0 {
		t.Fatalf("service called %d times on invalid body", runner.calls)
	}
}

func TestProxyInvalidMethod(t *testing.T) {
	runner := &stubProxyRunner{}
	handler := FMSProxy(runner, testLogger())

	body := `{"apiPath":"/api/v1/delivery/out","method":"DELETE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/proxy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
