package fassto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haneul-labs/fassto-gateway/internal/daterange"
	pkgerrors "github.com/haneul-labs/fassto-gateway/pkg/errors"
	"github.com/haneul-labs/fassto-gateway/pkg/retry"
)

// ProxyRequest describes a dynamic FMS read: a path template with {name}
// placeholders plus extra query parameters.
type ProxyRequest struct {
	Path        string
	PathParams  map[string]string
	QueryParams map[string]string
	Method      string
}

// FetchDeliveries reads the delivery list for the resolved date range. The
// status filter and outbound division are fixed upstream constants.
func (c *Client) FetchDeliveries(ctx context.Context, token AccessToken, dates daterange.Range) ([]Record, error) {
	path := fmt.Sprintf("/api/v1/delivery/%s/%s/%s/ALL/1",
		url.PathEscape(c.cfg.ClientCode), url.PathEscape(dates.Start), url.PathEscape(dates.End))
	return c.fetch(ctx, token, http.MethodGet, c.cfg.BaseURL+path)
}

// Fetch reads a dynamic FMS path. Placeholders are substituted from
// PathParams ({cstCd} is injected from the configured customer code);
// unresolved ones pass through verbatim and are logged.
func (c *Client) Fetch(ctx context.Context, token AccessToken, req ProxyRequest) ([]Record, error) {
	params := req.PathParams
	if strings.Contains(req.Path, "{cstCd}") && c.cfg.CustomerCode != "" {
		params = make(map[string]string, len(req.PathParams)+1)
		for k, v := range req.PathParams {
			params[k] = v
		}
		params["cstCd"] = c.cfg.CustomerCode
	}

	path := expandPath(req.Path, params)
	if unresolved := placeholders(path); len(unresolved) > 0 {
		c.logger.Warn(c.logger.WithField(ctx, "placeholders", unresolved), "unresolved path placeholders passed through")
	}

	requestURL := c.cfg.BaseURL + path
	if len(req.QueryParams) > 0 {
		query := url.Values{}
		for k, v := range req.QueryParams {
			query.Set(k, v)
		}
		requestURL += "?" + query.Encode()
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	return c.fetch(ctx, token, method, requestURL)
}

func (c *Client) fetch(ctx context.Context, token AccessToken, method, requestURL string) ([]Record, error) {
	ctx = c.logger.WithTarget(ctx, TargetFetch)

	var records []Record
	err := retry.Do(ctx, c.cfg.FetchAttempts, retry.Linear(c.cfg.FetchBackoff), nil, func(ctx context.Context) error {
		started := c.now()
		recs, err := c.fetchOnce(ctx, token, method, requestURL)
		c.metrics.ObserveDuration(TargetFetch, time.Since(started))
		if err != nil {
			c.metrics.IncFailure(TargetFetch)
			c.logger.Warn(c.logger.WithField(ctx, "error", err.Error()), "fetch attempt failed")
			return err
		}
		c.metrics.IncSuccess(TargetFetch)
		records = recs
		return nil
	})
	if err != nil {
		msg := fmt.Sprintf("fassto fetch failed: %s", requestURL)
		var status int
		if ue := lastUpstream(err); ue != nil {
			status = ue.Status
			if ue.Msg != "" {
				msg = fmt.Sprintf("fassto fetch failed: %s (%s)", ue.Msg, requestURL)
			}
		}
		c.logger.Error(ctx, "fetch failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetch, err, msg).WithUpstreamStatus(status)
	}

	c.logger.Info(c.logger.WithField(ctx, "count", len(records)), "fassto data received")
	return records, nil
}

func (c *Client) fetchOnce(ctx context.Context, token AccessToken, method, requestURL string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}
	req.Header.Set(tokenHeader, token.Value)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch request: %w", err)
	}

	env, err := c.decodeEnvelope(resp, requestURL)
	if err != nil {
		return nil, err
	}

	// An empty or non-array payload is zero records, not an error.
	if len(env.Data) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, nil
	}
	return records, nil
}
