// Package fassto wraps the Fassto FMS API with centralized auth, retry,
// logging, and error mapping.
package fassto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/haneul-labs/fassto-gateway/pkg/config"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
	"github.com/haneul-labs/fassto-gateway/pkg/metrics"
)

const (
	// TargetAuth and TargetFetch label upstream calls in logs and metrics.
	TargetAuth  = "auth"
	TargetFetch = "fetch"

	connectPath = "/api/v1/auth/connect"
	tokenHeader = "accessToken"

	maxBodyBytes = 4 << 20
)

var (
	errClientCodeRequired = errors.New("fassto client code is required")
	errClientKeyRequired  = errors.New("fassto client key is required")
	errLoggerRequired     = errors.New("fassto logger is required")
)

// AccessToken is the short-lived credential returned by the connect endpoint.
// It is fetched fresh for every gateway request and never cached.
type AccessToken struct {
	Value      string
	ObtainedAt time.Time
}

// Record is one upstream item of variable shape.
type Record map[string]any

// Client issues authenticated calls against the FMS API.
type Client struct {
	httpClient *http.Client
	cfg        config.FasstoConfig
	logger     *logger.Logger
	metrics    *metrics.UpstreamMetrics
	now        func() time.Time
}

// NewClient validates the credentials and returns a ready client.
func NewClient(cfg config.FasstoConfig, logg *logger.Logger, m *metrics.UpstreamMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if strings.TrimSpace(cfg.ClientCode) == "" {
		return nil, errClientCodeRequired
	}
	if strings.TrimSpace(cfg.ClientKey) == "" {
		return nil, errClientKeyRequired
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     logg,
		metrics:    m,
		now:        time.Now,
	}, nil
}

// apiEnvelope is the common FMS response shape: a header with a structured
// message plus a data payload whose type varies per endpoint.
type apiEnvelope struct {
	Header struct {
		Msg  string `json:"msg"`
		Code string `json:"code"`
	} `json:"header"`
	Data json.RawMessage `json:"data"`
}

// upstreamError carries the HTTP status and structured message of a failed
// FMS call so the retry wrapper can surface the last attempt's detail.
type upstreamError struct {
	Status int
	Msg    string
	URL    string
}

func (e *upstreamError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("fassto upstream HTTP %d (%s)", e.Status, e.URL)
	}
	return fmt.Sprintf("fassto upstream HTTP %d: %s (%s)", e.Status, e.Msg, e.URL)
}

// lastUpstream walks the aggregated attempt errors and returns the most
// recent upstream failure, if any attempt got far enough to receive a response.
func lastUpstream(err error) *upstreamError {
	attempts := multierr.Errors(err)
	for i := len(attempts) - 1; i >= 0; i-- {
		var ue *upstreamError
		if errors.As(attempts[i], &ue) {
			return ue
		}
	}
	return nil
}

func (c *Client) decodeEnvelope(resp *http.Response, requestURL string) (*apiEnvelope, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading fassto response: %w", err)
	}

	var env apiEnvelope
	if len(body) > 0 {
		// A decode failure on an error status must not mask the status itself.
		if jsonErr := json.Unmarshal(body, &env); jsonErr != nil && resp.StatusCode < http.StatusMultipleChoices {
			return nil, fmt.Errorf("decoding fassto response: %w", jsonErr)
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &upstreamError{Status: resp.StatusCode, Msg: env.Header.Msg, URL: requestURL}
	}
	return &env, nil
}
