package models

// TeamCrew is the crew summary embedded in a team instance.
type TeamCrew struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	FolderName string `json:"folder_name"`
}

// TeamWorkflow is the workflow summary embedded in a team instance.
type TeamWorkflow struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	FolderName  string `json:"folder_name"`
}

// TeamInstance is a crew or a workflow installed into the user's account.
// Exactly one of CrewID and WorkflowID is set.
type TeamInstance struct {
	ID           string        `json:"id"`
	UserID       ID            `json:"user_id"`
	CrewID       int           `json:"crew_id,omitempty"`
	WorkflowID   int           `json:"workflow_id,omitempty"`
	Name         string        `json:"name,omitempty"`
	IsActive     bool          `json:"is_active"`
	LastExecuted string        `json:"last_executed,omitempty"`
	CreatedAt    string        `json:"created_at,omitempty"`
	Crew         *TeamCrew     `json:"crew,omitempty"`
	Workflow     *TeamWorkflow `json:"workflow,omitempty"`
}

// DisplayName is the custom name, or the crew or workflow name when none
// was set.
func (t TeamInstance) DisplayName() string {
	switch {
	case t.Name != "":
		return t.Name
	case t.Crew != nil:
		return t.Crew.Name
	case t.Workflow != nil:
		return t.Workflow.Name
	}
	return t.ID
}

// Kind reports whether the team runs a crew or a workflow.
func (t TeamInstance) Kind() string {
	if t.Workflow != nil || t.WorkflowID != 0 {
		return "workflow"
	}
	return "crew"
}

// ExecutionResult is the outcome of running a team.
type ExecutionResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Data     any    `json:"data,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	Error    string `json:"error,omitempty"`
}
