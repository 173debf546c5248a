package models

// IntegrationField describes one credential input of a third-party service.
type IntegrationField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Integration is a third-party service the user can configure credentials for.
type Integration struct {
	ServiceName  string             `json:"service_name"`
	DisplayName  string             `json:"display_name"`
	ServiceType  string             `json:"service_type"`
	Fields       []IntegrationField `json:"fields"`
	Instructions string             `json:"instructions,omitempty"`
	Status       string             `json:"status"`
	IsConfigured bool               `json:"is_configured"`
	ConfiguredAt string             `json:"configured_at,omitempty"`
}

// IntegrationStatus is returned by configure and test calls.
type IntegrationStatus struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	ServiceName string `json:"service_name,omitempty"`
}
