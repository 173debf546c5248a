package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Divert12/divert-ai-crew/internal/client/models"
	"github.com/google/uuid"
)

func teamPath(id string, suffix string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTeamID, id)
	}
	return "/my-teams/" + parsed.String() + suffix, nil
}

// ListTeams returns the teams installed in the logged-in user's account.
func (c *Client) ListTeams(ctx context.Context) ([]models.TeamInstance, error) {
	var teams []models.TeamInstance
	if err := c.do(ctx, http.MethodGet, "/my-teams/", nil, &teams, "Failed to fetch teams"); err != nil {
		return nil, err
	}
	return teams, nil
}

type addCrewRequest struct {
	CrewID     int    `json:"crew_id"`
	CustomName string `json:"custom_name,omitempty"`
}

// AddCrewTeam installs a store crew as a new team.
func (c *Client) AddCrewTeam(ctx context.Context, crewID int, name string) (*models.TeamInstance, error) {
	var team models.TeamInstance
	req := addCrewRequest{CrewID: crewID, CustomName: name}
	if err := c.do(ctx, http.MethodPost, "/my-teams/add-crew", req, &team, "Failed to add team"); err != nil {
		return nil, err
	}
	return &team, nil
}

type runRequest struct {
	Topic string `json:"topic"`
}

// RunTeam executes a team with the given topic.
func (c *Client) RunTeam(ctx context.Context, teamID, topic string) (*models.ExecutionResult, error) {
	path, err := teamPath(teamID, "/run")
	if err != nil {
		return nil, err
	}
	var res models.ExecutionResult
	if err := c.do(ctx, http.MethodPost, path, runRequest{Topic: topic}, &res, "Failed to execute team"); err != nil {
		return nil, err
	}
	return &res, nil
}

type renameRequest struct {
	CustomName string `json:"custom_name"`
}

// RenameTeam sets a team's custom name.
func (c *Client) RenameTeam(ctx context.Context, teamID, name string) (*models.TeamInstance, error) {
	path, err := teamPath(teamID, "")
	if err != nil {
		return nil, err
	}
	var team models.TeamInstance
	if err := c.do(ctx, http.MethodPut, path, renameRequest{CustomName: name}, &team, "Failed to update team"); err != nil {
		return nil, err
	}
	return &team, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// RemoveTeam deactivates a team and returns the backend's confirmation.
func (c *Client) RemoveTeam(ctx context.Context, teamID string) (string, error) {
	path, err := teamPath(teamID, "")
	if err != nil {
		return "", err
	}
	var res messageResponse
	if err := c.do(ctx, http.MethodDelete, path, nil, &res, "Failed to remove team"); err != nil {
		return "", err
	}
	return res.Message, nil
}
