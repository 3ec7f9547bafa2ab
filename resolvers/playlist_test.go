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

func stubPlaylist(oid string) map[string]any {
	return map[string]any{
		"_id":       map[string]any{"$oid": oid},
		"clearence": 3,
		"tag_count": 1,
		"tags":      []int64{7},
		"item": map[string]any{
			"title":       "favorites",
			"desc":        "",
			"cover":       "",
			"videos":      12,
			"private":     false,
			"privateEdit": true,
			"views":       34,
		},
		"meta": testMeta(),
	}
}

func stubPlaylistMetadata(oid string) map[string]any {
	return map[string]any{
		"editable": true,
		"owner":    false,
		"playlist": stubPlaylist(oid),
		// Readable tags, tag ids, then the category map
		"tags": []any{
			[]string{"东方"},
			[]int64{7},
			map[string][]string{"Copyright": {"东方"}},
		},
	}
}

func TestGetPlaylist(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathPlaylistMeta, backendtest.Response{
		Data: stubPlaylistMetadata("5d6ae1ebf5f23b2a3fde1d30"),
	})

	p, err := r.GetPlaylist(context.Background(), struct{ Para GetPlaylistParameters }{
		GetPlaylistParameters{Pid: "5d6ae1ebf5f23b2a3fde1d30"},
	})
	require.NoError(t, err)

	assert.Equal(t, "5d6ae1ebf5f23b2a3fde1d30", string(p.ID()))
	assert.Equal(t, "favorites", p.Item().Title())
	assert.True(t, p.Item().PrivateEdit())
	require.NotNil(t, p.Editable())
	assert.True(t, *p.Editable())
	require.NotNil(t, p.Owner())
	assert.False(t, *p.Owner())

	cats, err := p.TagByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Copyright", cats[0].Key())

	// The category map arrived with the metadata fetch
	assert.Len(t, stub.CallsTo(backend.PathPlaylistMeta), 1)
}

func TestGetPlaylistMissingCategoryMap(t *testing.T) {
	data := stubPlaylistMetadata("5d6ae1ebf5f23b2a3fde1d30")
	data["tags"] = []any{[]string{"东方"}, []int64{7}} // third element missing

	r, stub := newTestResolver(t)
	stub.On(backend.PathPlaylistMeta, backendtest.Response{Data: data})

	_, err := r.GetPlaylist(context.Background(), struct{ Para GetPlaylistParameters }{
		GetPlaylistParameters{Pid: "5d6ae1ebf5f23b2a3fde1d30"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsMalformed(err))
}

func TestListPlaylist(t *testing.T) {
	query := "touhou"
	tests := []struct {
		name     string
		para     ListPlaylistParameters
		wantPath string
	}{
		{
			name:     "no query lists all",
			para:     ListPlaylistParameters{},
			wantPath: "lists/all.do",
		},
		{
			name:     "query searches",
			para:     ListPlaylistParameters{Query: &query},
			wantPath: "lists/search.do",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stub := newTestResolver(t)
			stub.On(tt.wantPath, backendtest.Response{Data: map[string]any{
				"playlists":  []any{stubPlaylist("5d6ae1ebf5f23b2a3fde1d30")},
				"count":      1,
				"page_count": 1,
			}})

			res, err := r.ListPlaylist(context.Background(), struct{ Para ListPlaylistParameters }{tt.para})
			require.NoError(t, err)
			playlists := res.Playlists()
			require.Len(t, playlists, 1)

			// Listing entries carry no caller-dependent flags
			assert.Nil(t, playlists[0].Editable())
			assert.Nil(t, playlists[0].Owner())
		})
	}
}

// A playlist from a listing endpoint refetches its metadata once when the
// category map is requested.
func TestListedPlaylistCategoryRefetch(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On("lists/all.do", backendtest.Response{Data: map[string]any{
		"playlists":  []any{stubPlaylist("5d6ae1ebf5f23b2a3fde1d30")},
		"count":      1,
		"page_count": 1,
	}})
	stub.On(backend.PathPlaylistMeta, backendtest.Response{
		Data: stubPlaylistMetadata("5d6ae1ebf5f23b2a3fde1d30"),
	})

	res, err := r.ListPlaylist(context.Background(), struct{ Para ListPlaylistParameters }{})
	require.NoError(t, err)
	p := res.Playlists()[0]

	for i := 0; i < 2; i++ {
		cats, err := p.TagByCategory(context.Background())
		require.NoError(t, err)
		assert.Len(t, cats, 1)
	}
	assert.Len(t, stub.CallsTo(backend.PathPlaylistMeta), 1)
}

func TestGetPlaylistContent(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathPlaylistContent, backendtest.Response{Data: map[string]any{
		"videos": []any{stubVideo("5d6ae1ebf5f23b2a3fde1d24", []int64{7})},
	}})

	limit := int32(20)
	videos, err := r.GetPlaylistContent(context.Background(), struct{ Para GetPlaylistContentParameters }{
		GetPlaylistContentParameters{Pid: "5d6ae1ebf5f23b2a3fde1d30", Limit: &limit},
	})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "5d6ae1ebf5f23b2a3fde1d24", string(videos[0].ID()))

	calls := stub.CallsTo(backend.PathPlaylistContent)
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"pid":"5d6ae1ebf5f23b2a3fde1d30","limit":20}`, string(calls[0].Body))
}
