package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
	}{
		{CodeValidation, http.StatusBadRequest, false},
		{CodeAuthentication, http.StatusInternalServerError, true},
		{CodeFetch, http.StatusInternalServerError, true},
		{CodeSink, http.StatusInternalServerError, false},
		{CodeCORS, http.StatusForbidden, false},
		{CodeInternal, http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("%s: expected status %d, got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("%s: expected retryable=%v", tt.code, tt.retryable)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to internal, got %d", meta.HTTPStatus)
	}
}

func TestUpstreamStatusOverridesDefault(t *testing.T) {
	err := New(CodeAuthentication, "token exchange failed").WithUpstreamStatus(http.StatusUnauthorized)
	if got := err.HTTPStatus(); got != http.StatusUnauthorized {
		t.Fatalf("expected mirrored upstream status 401, got %d", got)
	}

	// Informational upstream statuses never leak through.
	err = New(CodeFetch, "fetch failed").WithUpstreamStatus(http.StatusOK)
	if got := err.HTTPStatus(); got != http.StatusInternalServerError {
		t.Fatalf("expected default 500, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeFetch, cause, "fetch deliveries")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}

	typed := As(err)
	if typed == nil || typed.Code() != CodeFetch {
		t.Fatalf("expected typed fetch error, got %v", typed)
	}
}

func TestDumpCollectsChainAndStatus(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeAuthentication, cause, "connect").WithUpstreamStatus(503)

	d := Dump(err)
	if d.Code != CodeAuthentication {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if d.UpstreamStatus != 503 {
		t.Fatalf("unexpected upstream status %d", d.UpstreamStatus)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
}
