package resolvers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/backend/backendtest"
)

func TestGetUser(t *testing.T) {
	r, stub := newTestResolver(t)
	email := "marisa@example.com"
	stub.On(backend.PathUserProfile, backendtest.Response{Data: map[string]any{
		"_id": map[string]any{"$oid": "5d6ae1ebf5f23b2a3fde1d99"},
		"profile": map[string]any{
			"username": "marisa",
			"desc":     "ordinary magician",
			"image":    "default",
			"email":    email,
		},
		"meta": testMeta(),
	}})

	u, err := r.GetUser(context.Background(), struct{ Para GetUserParameters }{
		GetUserParameters{UID: "5d6ae1ebf5f23b2a3fde1d99"},
	})
	require.NoError(t, err)

	assert.Equal(t, "5d6ae1ebf5f23b2a3fde1d99", string(u.ID()))
	assert.Equal(t, "marisa", u.Username())
	assert.Equal(t, "ordinary magician", u.Desc())
	require.NotNil(t, u.Email())
	assert.Equal(t, email, *u.Email())
	assert.Nil(t, u.Gravatar())
	assert.Nil(t, u.BindQQ())

	calls := stub.CallsTo(backend.PathUserProfile)
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"uid":"5d6ae1ebf5f23b2a3fde1d99"}`, string(calls[0].Body))
}

func TestWhoami(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathWhoami, backendtest.Response{Data: "5d6ae1ebf5f23b2a3fde1d99"})

	assert.Equal(t, "5d6ae1ebf5f23b2a3fde1d99", r.Whoami(context.Background()))
}

func TestWhoamiDegradesWhenAnonymous(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathWhoami, backendtest.Response{
		Status: "FAILED", Reason: "not logged in",
	})

	assert.Equal(t, "NOT_LOGGED_IN", r.Whoami(context.Background()))
}
