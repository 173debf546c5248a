package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/client/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("   ")
	require.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "request id must be a uuid")
		assert.Empty(t, r.Header.Get("Authorization"))

		var body models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, models.Credentials{Username: "alice", Password: "pw"}, body)

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "t1",
			"token_type":   "bearer",
			"user":         map[string]any{"id": 1, "username": "alice", "email": "a@example.org"},
		})
	})

	resp, err := c.Login(context.Background(), models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, models.User{ID: "1", Username: "alice", Email: "a@example.org"}, resp.User)
}

func TestLogin_RejectedCarriesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Incorrect username or password"})
	})

	_, err := c.Login(context.Background(), models.Credentials{Username: "alice", Password: "bad"})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Incorrect username or password", Detail(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestLogin_EmptyTokenIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": 1}})
	})

	_, err := c.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	require.Error(t, err)
}

func TestLogin_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "<html>")
	})

	_, err := c.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	require.ErrorContains(t, err, "decoding response")
}

func TestRegister_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		var body models.Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bob@example.org", body.Email)
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 7, "username": "bob", "email": "bob@example.org", "is_active": true,
			"created_at": "2025-01-01T00:00:00", "updated_at": "2025-01-01T00:00:00",
		})
	})

	u, err := c.Register(context.Background(), models.Registration{Username: "bob", Email: "bob@example.org", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.ID("7"), u.ID)
	require.NotNil(t, u.IsActive)
	assert.True(t, *u.IsActive)
}

func TestRegister_ValidationDetailList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{
				{"loc": []string{"body", "email"}, "msg": "value is not a valid email address"},
				{"loc": []string{"body", "password"}, "msg": "field required"},
			},
		})
	})

	_, err := c.Register(context.Background(), models.Registration{Username: "bob"})
	require.Error(t, err)
	assert.Equal(t, "value is not a valid email address; field required", Detail(err))
}

func TestRegister_FallbackDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "oops")
	})

	_, err := c.Register(context.Background(), models.Registration{Username: "bob"})
	require.Error(t, err)
	assert.Equal(t, "Registration failed", Detail(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, WithRetries(0, 0))
	require.NoError(t, err)

	_, err = c.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, Detail(err))
}

func TestServiceUnavailableStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetries(0, 0))
	_, err := c.ListCrews(context.Background(), "")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGetRetriesWhileUnavailable(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Pitch"}})
	}, WithRetries(3, time.Millisecond))

	crews, err := c.ListCrews(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, crews, 1)
	assert.Equal(t, int32(3), hits.Load())
}

func TestGetRetriesGiveUp(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetries(2, time.Millisecond))

	_, err := c.ListTeams(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), hits.Load())
}

func TestPostIsNeverRetried(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetries(3, time.Millisecond))

	_, err := c.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Crew not found"})
	}, WithRetries(3, time.Millisecond))

	_, err := c.GetCrew(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), hits.Load())
}

func TestTimeoutOption(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, []any{})
	}, WithTimeout(20*time.Millisecond), WithRetries(0, 0))

	_, err := c.ListCrews(context.Background(), "")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestBearerTokenReadPerRequest(t *testing.T) {
	var seen atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := c.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", seen.Load())

	c.SetTokenSource(staticToken("abc"))
	_, err = c.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", seen.Load())

	c.SetTokenSource(staticToken(""))
	_, err = c.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", seen.Load())
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"detail":"Username already registered"}`, "Username already registered"},
		{"empty string", `{"detail":""}`, "fb"},
		{"list", `{"detail":[{"msg":"a"},{"msg":""},{"msg":"b"}]}`, "a; b"},
		{"empty list", `{"detail":[]}`, "fb"},
		{"object", `{"detail":{"x":1}}`, "fb"},
		{"missing", `{}`, "fb"},
		{"not json", `nope`, "fb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body), "fb"))
		})
	}
}

func TestMe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/me", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "username": "carol", "email": "c@example.org"})
	}, WithTokenSource(staticToken("good")))

	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username)
	assert.Equal(t, models.ID("3"), u.ID)

	c.SetTokenSource(staticToken("bad"))
	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Could not validate credentials", Detail(err))
}
