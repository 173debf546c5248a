package session

import (
	"github.com/Divert12/divert-ai-crew/internal/client/api"
	"github.com/Divert12/divert-ai-crew/internal/client/models"
)

// Result is the outcome of Login or Register.
type Result struct {
	// User is the logged-in user after Login, or the created account after
	// Register. Nil on failure.
	User *models.User
	Err  error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message is the text to show the user on failure: the backend's detail
// when there is one, the error text otherwise. Empty on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	if d := api.Detail(r.Err); d != "" {
		return d
	}
	return r.Err.Error()
}
