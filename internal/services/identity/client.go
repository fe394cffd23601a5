// File: internal/services/identity/client.go
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

// Client verifies bearer tokens via POST {BaseURL}/auth/token/verify.
type Client struct {
	config *Config
	client *http.Client
	logger Logger
}

func NewClient(config *Config, logger Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, NewInternalError("invalid configuration", err)
	}

	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

type verifyResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Valid bool         `json:"valid"`
		User  VerifiedUser `json:"user"`
	} `json:"data"`
}

// VerifyToken resolves the identity behind token. Failure modes stay
// distinct: missing token, invalid/expired token, upstream unreachable,
// upstream slow, anything else.
func (c *Client) VerifyToken(ctx context.Context, token string) (*VerifiedUser, error) {
	if token == "" {
		return nil, NewMissingTokenError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/auth/token/verify", nil)
	if err != nil {
		return nil, NewInternalError("failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to body decoding
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewInvalidTokenError()
	case resp.StatusCode >= 500:
		c.logger.Error("auth service returned server error", "status", resp.StatusCode)
		return nil, NewUnavailableError(nil)
	default:
		return nil, NewInternalError("unexpected auth service response", errors.New(resp.Status))
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, NewInternalError("malformed auth service response", err)
	}
	if !body.Success || !body.Data.Valid {
		return nil, NewInvalidTokenError()
	}
	if body.Data.User.ID == 0 {
		return nil, NewInternalError("auth service returned no user identity", nil)
	}

	c.logger.Debug("token verified", "userId", body.Data.User.ID)
	return &body.Data.User, nil
}

// classifyTransportError separates "slow" from "down". Both are reported,
// never retried here.
func (c *Client) classifyTransportError(err error) *AuthError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		c.logger.Warn("auth service timed out", "timeout", c.config.Timeout.String())
		return NewTimeoutError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	c.logger.Warn("auth service unreachable", "error", err.Error())
	return NewUnavailableError(err)
}
