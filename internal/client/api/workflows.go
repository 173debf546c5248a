package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Divert12/divert-ai-crew/internal/client/models"
)

// The backend mounts its workflow router under /workflows and declares the
// routes with a /workflows prefix of their own.
const workflowsPrefix = "/workflows/workflows/"

type addWorkflowRequest struct {
	WorkflowID int    `json:"workflow_id"`
	Name       string `json:"name,omitempty"`
}

// AddWorkflowTeam installs a store workflow as a new team. An empty name
// keeps the workflow's own name.
func (c *Client) AddWorkflowTeam(ctx context.Context, workflowID int, name string) (*models.TeamInstance, error) {
	var team models.TeamInstance
	req := addWorkflowRequest{WorkflowID: workflowID, Name: name}
	if err := c.do(ctx, http.MethodPost, "/my-teams/add-workflow", req, &team, "Failed to add workflow"); err != nil {
		return nil, err
	}
	if team.WorkflowID == 0 && team.Workflow != nil {
		team.WorkflowID = team.Workflow.ID
	}
	return &team, nil
}

type cloneRequest struct {
	Credentials map[string]string `json:"credentials"`
}

// CloneWorkflow clones a workflow template into the user's account, binding
// each required service to one of the user's credential ids.
func (c *Client) CloneWorkflow(ctx context.Context, template string, creds map[string]string) (*models.CloneResult, error) {
	template = strings.TrimSpace(template)
	if template == "" || template == "." || template == ".." || strings.ContainsAny(template, "/\\") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, template)
	}
	if creds == nil {
		creds = map[string]string{}
	}

	var res models.CloneResult
	path := "/store/workflows/" + url.PathEscape(template) + "/clone"
	if err := c.do(ctx, http.MethodPost, path, cloneRequest{Credentials: creds}, &res, "Failed to clone workflow"); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetWorkflow returns a workflow with the user's credential status for it.
func (c *Client) GetWorkflow(ctx context.Context, id int) (*models.WorkflowDetails, error) {
	var wf models.WorkflowDetails
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s%d", workflowsPrefix, id), nil, &wf, "Failed to fetch workflow"); err != nil {
		return nil, err
	}
	return &wf, nil
}

type executeRequest struct {
	Inputs map[string]any `json:"inputs"`
}

// ExecuteWorkflow runs a workflow with the given inputs.
func (c *Client) ExecuteWorkflow(ctx context.Context, id int, inputs map[string]any) (*models.WorkflowExecution, error) {
	if inputs == nil {
		inputs = map[string]any{}
	}
	var res models.WorkflowExecution
	path := fmt.Sprintf("%s%d/execute", workflowsPrefix, id)
	if err := c.do(ctx, http.MethodPost, path, executeRequest{Inputs: inputs}, &res, "Failed to execute workflow"); err != nil {
		return nil, err
	}
	return &res, nil
}

// Categories returns the categories used by active crews and workflows.
func (c *Client) Categories(ctx context.Context) (*models.Categories, error) {
	var cats models.Categories
	if err := c.do(ctx, http.MethodGet, "/store/categories", nil, &cats, "Failed to fetch categories"); err != nil {
		return nil, err
	}
	return &cats, nil
}
