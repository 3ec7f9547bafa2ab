package resolvers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/backend/backendtest"
	"github.com/PatchyVideo/pvgql/errors"
)

func TestServerDate(t *testing.T) {
	r, _ := newTestResolver(t)
	assert.WithinDuration(t, time.Now().UTC(), r.ServerDate().Time, 5*time.Second)
}

func TestPostVideo(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathPostVideo, backendtest.Response{Data: map[string]any{
		"task_id": "task-1",
	}})

	res, err := r.PostVideo(context.Background(), struct{ Para PostVideoParameters }{
		PostVideoParameters{URL: "https://www.nicovideo.jp/watch/sm9", Tags: []string{"东方"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", res.TaskID())

	calls := stub.CallsTo(backend.PathPostVideo)
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"url":"https://www.nicovideo.jp/watch/sm9","tags":["东方"]}`, string(calls[0].Body))
}

func TestPostVideoStructuredRejection(t *testing.T) {
	aux := "https://thvideo.tv/video/5d6ae1ebf5f23b2a3fde1d24"
	r, stub := newTestResolver(t)
	stub.On(backend.PathPostVideo, backendtest.Response{
		Status: "VIDEO_ALREADY_EXIST",
		Reason: "video already posted",
		Aux:    &aux,
	})

	_, err := r.PostVideo(context.Background(), struct{ Para PostVideoParameters }{
		PostVideoParameters{URL: "https://www.nicovideo.jp/watch/sm9"},
	})
	require.Error(t, err)

	var be *errors.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "VIDEO_ALREADY_EXIST", be.Code)
	require.NotNil(t, be.Aux)
	assert.Equal(t, aux, *be.Aux)
}

func TestBatchPostVideo(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathBatchPostVideo, backendtest.Response{Data: map[string]any{
		"task_ids": "task-1,task-2",
	}})

	res, err := r.BatchPostVideo(context.Background(), struct{ Para BatchPostVideoParameters }{
		BatchPostVideoParameters{
			Videos: []string{"sm9", "sm666"},
			Tags:   []string{"东方"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1,task-2", res.TaskIDs())
}

func TestEditVideoTagsResolvesResult(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathEditVideoTags, backendtest.Response{Data: map[string]any{
		"tagids": []int32{7},
	}})
	stub.On(backend.PathTagBatch, backendtest.Response{Data: map[string]any{
		"tag_objs": []any{stubTag(7, "5d6ae1ebf5f23b2a3fde1d07", "Copyright")},
	}})

	tags, err := r.EditVideoTags(context.Background(), struct{ Para EditVideoTagsParameters }{
		EditVideoTagsParameters{
			VideoID:       "5d6ae1ebf5f23b2a3fde1d24",
			Tags:          []string{"东方"},
			EditBehaviour: "replace",
		},
	})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, int32(7), tags[0].Tagid())
}

func TestSetVideoClearence(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathSetClearence, backendtest.Response{Data: map[string]any{
		"clearence": 2,
	}})

	clearence := int32(2)
	got, err := r.SetVideoClearence(context.Background(), struct{ Para SetVideoClearenceParameters }{
		SetVideoClearenceParameters{Vid: "5d6ae1ebf5f23b2a3fde1d24", Clearence: &clearence},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), got)
}
