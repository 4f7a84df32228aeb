package fassto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/haneul-labs/fassto-gateway/pkg/errors"
	"github.com/haneul-labs/fassto-gateway/pkg/retry"
)

var errTokenMissing = errors.New("fassto response is missing the accessToken field")

// Connect exchanges the static credentials for a fresh access token. Up to
// AuthAttempts tries with exponential backoff; exhaustion yields an
// AUTHENTICATION_ERROR carrying the last upstream status and message.
func (c *Client) Connect(ctx context.Context) (AccessToken, error) {
	ctx = c.logger.WithTarget(ctx, TargetAuth)

	var token AccessToken
	err := retry.Do(ctx, c.cfg.AuthAttempts, retry.Exponential(c.cfg.AuthBackoff), nil, func(ctx context.Context) error {
		started := c.now()
		tok, err := c.connectOnce(ctx)
		c.metrics.ObserveDuration(TargetAuth, time.Since(started))
		if err != nil {
			c.metrics.IncFailure(TargetAuth)
			c.logger.Warn(c.logger.WithField(ctx, "error", err.Error()), "token exchange attempt failed")
			return err
		}
		c.metrics.IncSuccess(TargetAuth)
		token = tok
		return nil
	})
	if err != nil {
		msg := "fassto authentication failed"
		var status int
		if ue := lastUpstream(err); ue != nil {
			status = ue.Status
			if ue.Msg != "" {
				msg = fmt.Sprintf("%s: %s", msg, ue.Msg)
			}
		}
		c.logger.Error(ctx, "token exchange failed", err)
		return AccessToken{}, pkgerrors.Wrap(pkgerrors.CodeAuthentication, err, msg).WithUpstreamStatus(status)
	}

	c.logger.Info(ctx, "access token obtained")
	return token, nil
}

func (c *Client) connectOnce(ctx context.Context) (AccessToken, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.AuthTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("apiCd", c.cfg.ClientCode)
	query.Set("apiKey", c.cfg.ClientKey)
	requestURL := c.cfg.BaseURL + connectPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, strings.NewReader("{}"))
	if err != nil {
		return AccessToken{}, fmt.Errorf("building connect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AccessToken{}, fmt.Errorf("connect request: %w", err)
	}

	env, err := c.decodeEnvelope(resp, c.cfg.BaseURL+connectPath)
	if err != nil {
		return AccessToken{}, err
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return AccessToken{}, fmt.Errorf("decoding connect payload: %w", err)
		}
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return AccessToken{}, errTokenMissing
	}

	return AccessToken{Value: payload.AccessToken, ObtainedAt: c.now()}, nil
}
