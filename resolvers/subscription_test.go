package resolvers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/backend/backendtest"
)

func stubSubscription(oid, qs, qt string, name any) map[string]any {
	return map[string]any{
		"_id":  map[string]any{"$oid": oid},
		"qs":   qs,
		"qt":   qt,
		"name": name,
		"meta": testMeta(),
	}
}

func TestListSubscriptions(t *testing.T) {
	r, stub := newTestResolver(t)
	stub.On(backend.PathSubsAll, backendtest.Response{Data: map[string]any{
		"subs": []any{
			stubSubscription("5d6ae1ebf5f23b2a3fde1d40", "东方", "tag", "my query"),
			stubSubscription("5d6ae1ebf5f23b2a3fde1d41", "vocaloid", "text", ""),
		},
	}})

	subs, err := r.ListSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, "东方", subs[0].Query())
	assert.Equal(t, "tag", subs[0].QueryType())
	require.NotNil(t, subs[0].Name())
	assert.Equal(t, "my query", *subs[0].Name())

	// An empty name reads as null
	assert.Nil(t, subs[1].Name())
}

func TestListSubscriptionVideos(t *testing.T) {
	tests := []struct {
		name       string
		randomized bool
		wantPath   string
	}{
		{name: "ordered listing", wantPath: backend.PathSubsList},
		{name: "randomized listing", randomized: true, wantPath: backend.PathSubsRandomized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stub := newTestResolver(t)
			stub.On(tt.wantPath, backendtest.Response{Data: map[string]any{
				"videos":         []any{stubVideo("5d6ae1ebf5f23b2a3fde1d24", nil)},
				"total":          25,
				"objs":           []any{stubSubscription("5d6ae1ebf5f23b2a3fde1d40", "东方", "tag", "")},
				"related_tagids": []int64{7, 2_147_483_648},
			}})
			stub.On(backend.PathTagBatch, backendtest.Response{Data: map[string]any{
				"tag_objs": []any{stubTag(7, "5d6ae1ebf5f23b2a3fde1d07", "Copyright")},
			}})

			para := ListSubscriptionVideosParameters{}
			var res *subscriptionVideosResolver
			var err error
			if tt.randomized {
				res, err = r.ListSubscriptionVideosRandomized(context.Background(),
					struct {
						Para ListSubscriptionVideosParameters
					}{para})
			} else {
				res, err = r.ListSubscriptionVideos(context.Background(),
					struct {
						Para ListSubscriptionVideosParameters
					}{para})
			}
			require.NoError(t, err)

			assert.Equal(t, int32(25), res.Count())
			assert.Len(t, res.Videos(), 1)
			assert.Len(t, res.Subscriptions(), 1)

			tags, err := res.RelatedTags(context.Background())
			require.NoError(t, err)
			require.NotNil(t, tags)
			assert.Len(t, *tags, 1)

			// The internal marker id is clamped before the batch lookup
			calls := stub.CallsTo(backend.PathTagBatch)
			require.Len(t, calls, 1)
			assert.JSONEq(t, `{"tagid":[7]}`, string(calls[0].Body))
		})
	}
}
