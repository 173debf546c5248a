package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/logging"
	"github.com/Divert12/divert-ai-crew/internal/server/auth"
	"github.com/Divert12/divert-ai-crew/internal/server/config"
	"github.com/Divert12/divert-ai-crew/internal/server/repositories/repomanager"
	"github.com/Divert12/divert-ai-crew/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	cfg := &config.Config{SecretKey: testSecret, AccessTokenValidityDuration: time.Hour}
	us := services.NewUserService(nil, repomanager.NewMemoryRepositoryManager(), cfg)
	return NewHTTPServer("127.0.0.1:0", logging.NewNopLogger(), us)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func register(t *testing.T, h http.Handler, username, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "email": email, "password": password})
	require.NoError(t, err)
	return doRequest(t, h, http.MethodPost, "/auth/register", string(body))
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doRequest(t, h, http.MethodGet, "/healthz", "", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = doRequest(t, h, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRegister(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := register(t, h, "alice", "alice@example.com", "pw")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, true, body["is_active"])
	assert.NotEmpty(t, body["created_at"])
	assert.NotContains(t, body, "hashed_password")
	assert.NotContains(t, rec.Body.String(), `"pw"`)
}

func TestRegister_Duplicates(t *testing.T) {
	h := newTestServer(t).Handler()
	require.Equal(t, http.StatusOK, register(t, h, "alice", "alice@example.com", "pw").Code)

	rec := register(t, h, "alice", "other@example.com", "pw")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already registered", decode(t, rec)["detail"])

	rec = register(t, h, "bob", "alice@example.com", "pw")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decode(t, rec)["detail"])
}

func TestRegister_Unprocessable(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := register(t, h, "alice", "not-an-email", "pw")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Detail []validationItem `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Detail, 1)
	assert.Equal(t, []string{"body", "email"}, body.Detail[0].Loc)
	assert.Equal(t, "value is not a valid email address", body.Detail[0].Msg)

	rec = doRequest(t, h, http.MethodPost, "/auth/register", "{not json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := register(t, h, "alice", "alice@example.com", strings.Repeat("p", auth.MaxPasswordLength+1))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var body struct {
		Detail []validationItem `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Detail, 1)
	assert.Equal(t, []string{"body", "password"}, body.Detail[0].Loc)
	assert.Equal(t, "password must be at most 72 bytes", body.Detail[0].Msg)
}

func TestLogin(t *testing.T) {
	h := newTestServer(t).Handler()
	require.Equal(t, http.StatusOK, register(t, h, "alice", "alice@example.com", "secret").Code)

	rec := doRequest(t, h, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, map[string]any{"id": float64(1), "username": "alice", "email": "alice@example.com"}, body["user"])

	username, err := auth.GetUsernameFromToken(body["access_token"].(string), []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestLogin_Rejected(t *testing.T) {
	h := newTestServer(t).Handler()
	require.Equal(t, http.StatusOK, register(t, h, "alice", "alice@example.com", "secret").Code)

	for _, body := range []string{
		`{"username":"alice","password":"wrong"}`,
		`{"username":"ghost","password":"secret"}`,
	} {
		rec := doRequest(t, h, http.MethodPost, "/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "Incorrect username or password", decode(t, rec)["detail"])
	}
}

func TestMe(t *testing.T) {
	h := newTestServer(t).Handler()
	require.Equal(t, http.StatusOK, register(t, h, "alice", "alice@example.com", "secret").Code)

	token, err := auth.GenerateToken("alice", []byte(testSecret), time.Minute)
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodGet, "/auth/me", "", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode(t, rec)["username"])
}

func TestMe_Unauthorized(t *testing.T) {
	h := newTestServer(t).Handler()

	expired, err := auth.GenerateToken("alice", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("alice", []byte("other"), time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name, header, detail string
	}{
		{"missing header", "", "Not authenticated"},
		{"wrong scheme", "Basic abc", "Not authenticated"},
		{"garbage", "Bearer garbage", "Could not validate credentials"},
		{"expired", "Bearer " + expired, "Could not validate credentials"},
		{"foreign secret", "Bearer " + foreign, "Could not validate credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.header != "" {
				headers = []string{"Authorization", tt.header}
			}
			rec := doRequest(t, h, http.MethodGet, "/auth/me", "", headers...)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.detail, decode(t, rec)["detail"])
		})
	}
}

func TestRecoverMiddleware(t *testing.T) {
	s := newTestServer(t)
	h := s.recoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decode(t, rec)["detail"])
}

func TestLoggingMiddleware(t *testing.T) {
	var buf strings.Builder
	s := newTestServer(t)
	s.logger = logging.NewJSONLogger(&buf, "debug")

	h := requestIDMiddleware(s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tea", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	h.ServeHTTP(rec, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/tea", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status_code"])
	assert.Equal(t, "rid-1", entry["request_id"])
}
