package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Divert12/divert-ai-crew/internal/client/models"
)

// ListIntegrations returns the supported services with the user's
// configuration status.
func (c *Client) ListIntegrations(ctx context.Context) ([]models.Integration, error) {
	var out []models.Integration
	if err := c.do(ctx, http.MethodGet, "/integrations/integrations", nil, &out, "Failed to fetch integrations"); err != nil {
		return nil, err
	}
	return out, nil
}

type configureRequest struct {
	ServiceName string            `json:"service_name"`
	Credentials map[string]string `json:"credentials"`
}

// ConfigureIntegration stores credentials for a service.
func (c *Client) ConfigureIntegration(ctx context.Context, service string, creds map[string]string) (*models.IntegrationStatus, error) {
	var st models.IntegrationStatus
	req := configureRequest{ServiceName: strings.ToLower(service), Credentials: creds}
	if err := c.do(ctx, http.MethodPost, "/integrations/configure", req, &st, "Failed to configure integration"); err != nil {
		return nil, err
	}
	return &st, nil
}

// RemoveIntegration drops the credentials of a service.
func (c *Client) RemoveIntegration(ctx context.Context, service string) (string, error) {
	var res messageResponse
	path := "/integrations/" + url.PathEscape(strings.ToLower(service))
	if err := c.do(ctx, http.MethodDelete, path, nil, &res, "Failed to remove integration"); err != nil {
		return "", err
	}
	return res.Message, nil
}

// TestIntegration asks the backend to check the stored credentials.
func (c *Client) TestIntegration(ctx context.Context, service string) (*models.IntegrationStatus, error) {
	var st models.IntegrationStatus
	path := "/integrations/" + url.PathEscape(strings.ToLower(service)) + "/test"
	if err := c.do(ctx, http.MethodPost, path, nil, &st, "Failed to test integration"); err != nil {
		return nil, err
	}
	return &st, nil
}
