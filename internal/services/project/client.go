// File: internal/services/project/client.go
package project

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client fetches project membership via GET {BaseURL}/db/project/{id}.
// No caching: membership can change between a join and a later send, so
// every check is a fresh upstream request.
type Client struct {
	config *Config
	client *http.Client
	logger Logger
}

func NewClient(config *Config, logger Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, &ProjectError{Type: ErrTypeProvider, Message: "invalid configuration", Cause: err}
	}

	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

type projectResponse struct {
	Success bool            `json:"success"`
	Data    ProjectSnapshot `json:"data"`
}

// GetProject fetches the current membership snapshot for projectID.
func (c *Client) GetProject(ctx context.Context, projectID int, token string) (*ProjectSnapshot, error) {
	url := fmt.Sprintf("%s/db/project/%d", c.config.BaseURL, projectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ProjectError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewNotFoundError(projectID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewProviderError(resp.StatusCode, string(body))
	}

	var parsed projectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProjectError{Type: ErrTypeProvider, Message: "malformed task service response", Cause: err}
	}
	if !parsed.Success {
		return nil, NewProviderError(resp.StatusCode, "task service reported failure")
	}

	return &parsed.Data, nil
}

// IsMember reports whether userID is the owner of projectID or appears in
// its member list. The check fails closed: the call sites use it purely as
// an access gate, so every oracle failure must read as denial.
func (c *Client) IsMember(ctx context.Context, userID, projectID int, token string) bool {
	snapshot, err := c.GetProject(ctx, projectID, token)
	if err != nil {
		// Fail-closed branch. NOT_FOUND, NETWORK and PROVIDER all land
		// here deliberately.
		c.logger.Warn("membership check failed closed",
			"userId", userID, "projectId", projectID, "error", err.Error())
		return false
	}
	return snapshot.HasMember(userID)
}
