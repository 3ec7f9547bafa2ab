package resolvers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PatchyVideo/pvgql/backend/backendtest"
	"github.com/PatchyVideo/pvgql/errors"
)

func TestGetRatingEmptyRequestRejected(t *testing.T) {
	r, stub := newTestResolver(t)

	_, err := r.GetRating(context.Background(), struct{ Para GetRatingParameters }{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	// The backend is never consulted for an empty request
	assert.Empty(t, stub.Calls())
}

func TestGetRatingPlaylistWins(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On("rating/get_playlist_total.do", backendtest.Response{Data: map[string]any{
		"user_rating": 8, "total_rating": 40, "total_user": 5,
	}})

	pid := "5d6ae1ebf5f23b2a3fde1d30"
	vid := "5d6ae1ebf5f23b2a3fde1d24"
	res, err := r.GetRating(context.Background(), struct{ Para GetRatingParameters }{
		GetRatingParameters{Pid: &pid, Vid: &vid},
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	require.NotNil(t, res.UserRating())
	assert.Equal(t, int32(8), *res.UserRating())
	assert.Equal(t, int32(40), res.TotalRating())
	assert.Equal(t, int32(5), res.TotalUser())

	assert.Len(t, stub.CallsTo("rating/get_playlist_total.do"), 1)
	assert.Empty(t, stub.CallsTo("rating/get_video_total.do"))
}

func TestGetRatingVideo(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On("rating/get_video_total.do", backendtest.Response{Data: map[string]any{
		"total_rating": 9, "total_user": 1,
	}})

	vid := "5d6ae1ebf5f23b2a3fde1d24"
	res, err := r.GetRating(context.Background(), struct{ Para GetRatingParameters }{
		GetRatingParameters{Vid: &vid},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Nil(t, res.UserRating())
	assert.Equal(t, int32(9), res.TotalRating())
}

func TestGetRatingBackendFailureDegrades(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On("rating/get_video_total.do", backendtest.Response{
		Status: "FAILED", Reason: "rating service down",
	})

	vid := "5d6ae1ebf5f23b2a3fde1d24"
	res, err := r.GetRating(context.Background(), struct{ Para GetRatingParameters }{
		GetRatingParameters{Vid: &vid},
	})
	assert.NoError(t, err)
	assert.Nil(t, res)
}
