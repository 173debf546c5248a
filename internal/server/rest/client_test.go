package rest

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/Divert12/divert-ai-crew/internal/client/api"
	"github.com/Divert12/divert-ai-crew/internal/client/models"
	"github.com/Divert12/divert-ai-crew/internal/client/session"
	"github.com/Divert12/divert-ai-crew/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSessionAgainstServer(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(newTestServer(t).Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, api.WithRetries(0, 0))
	require.NoError(t, err)
	store := storage.NewMemoryStore()
	mgr := session.NewManager(store, client, nil)
	client.SetTokenSource(mgr)
	mgr.Initialize(ctx)

	reg := mgr.Register(ctx, models.Registration{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.True(t, reg.OK(), reg.Message())
	assert.Equal(t, models.ID("1"), reg.User.ID)
	assert.False(t, mgr.State().IsAuthenticated)

	dup := mgr.Register(ctx, models.Registration{Username: "alice", Email: "x@example.com", Password: "secret"})
	assert.False(t, dup.OK())
	assert.Equal(t, "Username already registered", dup.Message())

	bad := mgr.Login(ctx, models.Credentials{Username: "alice", Password: "nope"})
	assert.False(t, bad.OK())
	assert.Equal(t, "Incorrect username or password", bad.Message())
	assert.False(t, mgr.State().IsAuthenticated)

	res := mgr.Login(ctx, models.Credentials{Username: "alice", Password: "secret"})
	require.True(t, res.OK(), res.Message())
	st := mgr.State()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "alice@example.com", st.User.Email)

	token, ok, err := store.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mgr.AccessToken(), token)

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	require.NoError(t, mgr.Logout(ctx))
	_, err = client.Me(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, "Not authenticated", api.Detail(err))
}
