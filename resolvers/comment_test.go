package resolvers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/backend/backendtest"
	"github.com/PatchyVideo/pvgql/errors"
)

func stubThreadData(threadOID string, comments []any) map[string]any {
	return map[string]any{
		"thread": map[string]any{
			"_id":      map[string]any{"$oid": threadOID},
			"count":    int32(len(comments)),
			"owner":    map[string]any{"$oid": "5d6ae1ebf5f23b2a3fde1d99"},
			"obj_type": "video",
		},
		"comments": comments,
	}
}

func TestGetThread(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathCommentThread, backendtest.Response{
		Data: stubThreadData("5d6ae1ebf5f23b2a3fde1dc0", []any{
			map[string]any{
				"_id":     map[string]any{"$oid": "5d6ae1ebf5f23b2a3fde1dc1"},
				"content": "first",
				"upvotes": 2,
				"meta":    testMeta(),
			},
		}),
	})

	thread, err := r.GetThread(context.Background(), struct{ Para GetThreadParameters }{
		GetThreadParameters{ThreadID: "5d6ae1ebf5f23b2a3fde1dc0"},
	})
	require.NoError(t, err)
	assert.Equal(t, "video", thread.ThreadType())

	comments, err := thread.Comments(context.Background())
	require.NoError(t, err)
	require.NotNil(t, comments)
	require.Len(t, *comments, 1)
	c := (*comments)[0]
	require.NotNil(t, c.Content())
	assert.Equal(t, "first", *c.Content())
	assert.Equal(t, int32(2), c.Upvotes())
	assert.False(t, c.Edited())

	// Comments arrived with the thread; no second fetch
	assert.Len(t, stub.CallsTo(backend.PathCommentThread), 1)
}

func TestCommentNullNormalization(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathCommentThread, backendtest.Response{
		Data: stubThreadData("5d6ae1ebf5f23b2a3fde1dc0", []any{
			map[string]any{
				"_id":      map[string]any{"$oid": "5d6ae1ebf5f23b2a3fde1dc1"},
				"content":  "",
				"deleted":  true,
				"children": []any{},
				"meta":     testMeta(),
			},
		}),
	})

	thread, err := r.GetThread(context.Background(), struct{ Para GetThreadParameters }{
		GetThreadParameters{ThreadID: "5d6ae1ebf5f23b2a3fde1dc0"},
	})
	require.NoError(t, err)
	comments, err := thread.Comments(context.Background())
	require.NoError(t, err)
	c := (*comments)[0]

	// Empty content and empty children both read as null
	assert.Nil(t, c.Content())
	assert.Nil(t, c.Children())
	assert.True(t, c.Deleted())
}

func TestPostCommentRouting(t *testing.T) {
	tests := []struct {
		name     string
		para     PostCommentParameters
		wantPath string
	}{
		{
			name:     "filtered video comment",
			para:     PostCommentParameters{TargetID: "v1", CommentType: CommentTypeVideo, Filter: true, Content: "hi"},
			wantPath: "comments/add_to_video.do",
		},
		{
			name:     "unfiltered video comment",
			para:     PostCommentParameters{TargetID: "v1", CommentType: CommentTypeVideo, Content: "hi"},
			wantPath: "comments/add_to_video_unfiltered.do",
		},
		{
			name:     "filtered playlist comment",
			para:     PostCommentParameters{TargetID: "p1", CommentType: CommentTypePlaylist, Filter: true, Content: "hi"},
			wantPath: "comments/add_to_playlist.do",
		},
		{
			name:     "unfiltered playlist comment",
			para:     PostCommentParameters{TargetID: "p1", CommentType: CommentTypePlaylist, Content: "hi"},
			wantPath: "comments/add_to_playlist_unfiltered.do",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stub := newTestResolver(t)
			stub.On(tt.wantPath, backendtest.Response{Data: map[string]any{
				"thread_id": "5d6ae1ebf5f23b2a3fde1dc0",
				"cid":       "5d6ae1ebf5f23b2a3fde1dc1",
			}})

			res, err := r.PostComment(context.Background(), struct{ Para PostCommentParameters }{tt.para})
			require.NoError(t, err)
			assert.Equal(t, "5d6ae1ebf5f23b2a3fde1dc1", string(res.CommentID()))

			calls := stub.CallsTo(tt.wantPath)
			require.Len(t, calls, 1)
			assert.JSONEq(t, `{"vid":"`+tt.para.TargetID+`","text":"hi"}`, string(calls[0].Body))
		})
	}
}

func TestPostReply(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On("comments/reply.do", backendtest.Response{})

	ok, err := r.PostReply(context.Background(), struct{ Para PostReplyParameters }{
		PostReplyParameters{ReplyTo: "5d6ae1ebf5f23b2a3fde1dc1", Filter: true, Text: "agreed"},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	calls := stub.CallsTo("comments/reply.do")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"reply_to":"5d6ae1ebf5f23b2a3fde1dc1","text":"agreed"}`, string(calls[0].Body))
}

func TestEditCommentState(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		wantPath string
		wantBody string
	}{
		{
			name:     "delete",
			op:       backend.CommentOpDelete,
			wantPath: "comments/del.do",
			wantBody: `{"cid":"c1"}`,
		},
		{
			name:     "hide",
			op:       backend.CommentOpHide,
			wantPath: "comments/hide.do",
			wantBody: `{"cid":"c1"}`,
		},
		{
			name:     "pin sets the flag",
			op:       backend.CommentOpPin,
			wantPath: "comments/pin.do",
			wantBody: `{"cid":"c1","pinned":true}`,
		},
		{
			name:     "unpin clears the flag",
			op:       backend.CommentOpUnpin,
			wantPath: "comments/pin.do",
			wantBody: `{"cid":"c1","pinned":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stub := newTestResolver(t)
			stub.On(tt.wantPath, backendtest.Response{})

			ok, err := r.EditCommentState(context.Background(), struct{ Para EditCommentStateParameters }{
				EditCommentStateParameters{Cid: "c1", Op: tt.op},
			})
			require.NoError(t, err)
			assert.True(t, ok)

			calls := stub.CallsTo(tt.wantPath)
			require.Len(t, calls, 1)
			assert.JSONEq(t, tt.wantBody, string(calls[0].Body))
		})
	}
}

func TestEditCommentStateUnknownOp(t *testing.T) {
	r, stub := newTestResolver(t)

	ok, err := r.EditCommentState(context.Background(), struct{ Para EditCommentStateParameters }{
		EditCommentStateParameters{Cid: "c1", Op: "ARCHIVE"},
	})
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.IsInvalid(err))
	assert.Empty(t, stub.Calls())
}
