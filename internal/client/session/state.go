package session

import "github.com/Divert12/divert-ai-crew/internal/client/models"

// State is a snapshot of the session.
type State struct {
	IsAuthenticated bool
	User            *models.User
	IsInitializing  bool
}

func (s State) clone() State {
	if s.User != nil {
		u := s.User.Clone()
		s.User = &u
	}
	return s
}
