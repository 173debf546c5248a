package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Divert12/divert-ai-crew/internal/client/models"
	"golang.org/x/sync/errgroup"
)

func withCategory(path, category string) string {
	if category == "" {
		return path
	}
	return path + "?" + url.Values{"category": {category}}.Encode()
}

// ListCrews returns the crews available in the store, optionally filtered
// by category.
func (c *Client) ListCrews(ctx context.Context, category string) ([]models.Crew, error) {
	var crews []models.Crew
	if err := c.do(ctx, http.MethodGet, withCategory("/store/crews", category), nil, &crews, "Failed to fetch crews"); err != nil {
		return nil, err
	}
	return crews, nil
}

// GetCrew returns a single store crew.
func (c *Client) GetCrew(ctx context.Context, id int) (*models.Crew, error) {
	var crew models.Crew
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/store/crews/%d", id), nil, &crew, "Failed to fetch crew"); err != nil {
		return nil, err
	}
	return &crew, nil
}

// ListWorkflows returns the workflow templates available in the store.
func (c *Client) ListWorkflows(ctx context.Context, category string) ([]models.Workflow, error) {
	var wfs []models.Workflow
	if err := c.do(ctx, http.MethodGet, withCategory("/store/workflows", category), nil, &wfs, "Failed to fetch workflows"); err != nil {
		return nil, err
	}
	return wfs, nil
}

// Catalog fetches crews and workflows concurrently. Either failure fails the
// whole call.
func (c *Client) Catalog(ctx context.Context, category string) (*models.Catalog, error) {
	var cat models.Catalog

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		crews, err := c.ListCrews(ctx, category)
		cat.Crews = crews
		return err
	})
	g.Go(func() error {
		wfs, err := c.ListWorkflows(ctx, category)
		cat.Workflows = wfs
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &cat, nil
}
