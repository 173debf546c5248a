// Package models defines the client-side data models exchanged with the
// backend and persisted in durable storage.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ID is an identifier the backend may encode either as a JSON number or as a
// JSON string. It holds the JSON token exactly as received, so a decoded ID
// is written back unchanged. A value that is not a valid JSON scalar token,
// such as ID("a-1") built in code, is treated as plain text and quoted.
type ID string

// String returns the identifier for display, with string tokens unquoted.
func (id ID) String() string {
	if len(id) > 0 && id[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(id), &s); err == nil {
			return s
		}
	}
	return string(id)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.isToken() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) isToken() bool {
	if len(id) == 0 || !json.Valid([]byte(id)) {
		return false
	}
	switch c := id[0]; {
	case c == '"', c == '-', c >= '0' && c <= '9':
		return true
	}
	return false
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	candidate := ID(b)
	if !candidate.isToken() {
		return errors.New("id must be a number or a string")
	}
	*id = candidate
	return nil
}

// User is the account record returned by the backend. The session layer
// stores and returns it verbatim; optional fields stay absent when the
// backend omits them (the login response carries only id, username, email).
// Fields the backend sends beyond the ones below are kept in Extra with
// their raw values and written back after the known fields.
type User struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsActive  *bool  `json:"is_active,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Clone returns a copy of u that shares no memory with it.
func (u User) Clone() User {
	if u.IsActive != nil {
		v := *u.IsActive
		u.IsActive = &v
	}
	if u.Extra != nil {
		extra := make(map[string]json.RawMessage, len(u.Extra))
		for k, v := range u.Extra {
			extra[k] = slices.Clone(v)
		}
		u.Extra = extra
	}
	return u
}

// userFields has User's layout without its JSON methods.
type userFields User

var userKeys = []string{"id", "username", "email", "is_active", "created_at", "updated_at"}

func (u User) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(userFields(u))
	if err != nil || len(u.Extra) == 0 {
		return b, err
	}

	keys := make([]string, 0, len(u.Extra))
	for k := range u.Extra {
		if !slices.Contains(userKeys, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	buf := bytes.NewBuffer(b[:len(b)-1])
	for _, k := range keys {
		v := u.Extra[k]
		if !json.Valid(v) {
			return nil, fmt.Errorf("user field %q: invalid raw value", k)
		}
		kb, _ := json.Marshal(k)
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (u *User) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var f userFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range userKeys {
		delete(all, k)
	}
	f.Extra = nil
	if len(all) > 0 {
		f.Extra = all
	}
	*u = User(f)
	return nil
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// EncodeUser serializes u for durable storage.
func EncodeUser(u User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ErrEmptyUser is returned by DecodeUser for a JSON null record.
var ErrEmptyUser = errors.New("empty user record")

// DecodeUser parses a stored user record.
func DecodeUser(data string) (*User, error) {
	var u *User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrEmptyUser
	}
	return u, nil
}
