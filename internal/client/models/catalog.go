package models

// Crew is an agent-crew automation offered in the store.
type Crew struct {
	ID                int            `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Category          string         `json:"category"`
	FolderName        string         `json:"folder_name"`
	Tags              []string       `json:"tags,omitempty"`
	Author            string         `json:"author,omitempty"`
	Version           string         `json:"version,omitempty"`
	EstimatedDuration string         `json:"estimated_duration,omitempty"`
	Difficulty        string         `json:"difficulty,omitempty"`
	Inputs            map[string]any `json:"inputs,omitempty"`
	IsActive          bool           `json:"is_active"`
	CreatedAt         string         `json:"created_at,omitempty"`
	UpdatedAt         string         `json:"updated_at,omitempty"`
}

// Workflow is a workflow automation offered in the store.
type Workflow struct {
	ID                  int      `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	FolderName          string   `json:"folder_name,omitempty"`
	Category            string   `json:"category"`
	Type                string   `json:"type,omitempty"`
	NodeCount           int      `json:"node_count"`
	Integrations        []string `json:"integrations,omitempty"`
	RequiredCredentials []string `json:"required_credentials,omitempty"`
	N8NWorkflowID       string   `json:"n8n_workflow_id,omitempty"`
	IsActive            bool     `json:"is_active"`
	CreatedAt           string   `json:"created_at,omitempty"`
	UpdatedAt           string   `json:"updated_at,omitempty"`
}

// Catalog is the combined store listing.
type Catalog struct {
	Crews     []Crew
	Workflows []Workflow
}
