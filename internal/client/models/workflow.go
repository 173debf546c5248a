package models

// WorkflowDetails is a store workflow together with which of its required
// credentials the user has configured.
type WorkflowDetails struct {
	Workflow
	CredentialStatus   map[string]bool `json:"credential_status,omitempty"`
	MissingCredentials []string        `json:"missing_credentials,omitempty"`
}

// WorkflowRunResult is the executor's report for one workflow run.
type WorkflowRunResult struct {
	Success     bool   `json:"success"`
	ExecutionID ID     `json:"execution_id,omitempty"`
	Data        any    `json:"data,omitempty"`
	Error       string `json:"error,omitempty"`
}

// WorkflowExecution is the outcome of executing a workflow.
type WorkflowExecution struct {
	ExecutionID ID                `json:"execution_id"`
	Status      string            `json:"status"`
	Result      WorkflowRunResult `json:"result"`
}

// CloneResult is returned when a workflow template is cloned into the
// user's account.
type CloneResult struct {
	Success    bool   `json:"success"`
	WorkflowID ID     `json:"workflowId"`
	WebhookURL string `json:"webhookUrl,omitempty"`
	Message    string `json:"message"`
	DatabaseID int    `json:"database_id"`
}

// CategorySources counts the categories contributed by each automation kind.
type CategorySources struct {
	Crews     int `json:"crews"`
	Workflows int `json:"workflows"`
}

// Categories is the store's combined category list.
type Categories struct {
	Categories []string        `json:"categories"`
	Total      int             `json:"total"`
	Sources    CategorySources `json:"sources"`
}
