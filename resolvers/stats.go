package resolvers

import (
	"context"

	"github.com/PatchyVideo/pvgql/backend"
)

type statsResponse struct {
	Users   int32          `json:"users"`
	TopTags []statsTagItem `json:"top_tags"`
}

type statsTagItem struct {
	ID    int32 `json:"id"`
	Count int32 `json:"count"`
}

// GetStats resolves site-wide statistics.
func (r *Resolver) GetStats(ctx context.Context) (*statsResolver, error) {
	resp, err := backend.Post[statsResponse](ctx, r.be, backend.PathStats, struct{}{})
	if err != nil {
		return nil, err
	}
	return &statsResolver{r: r, resp: *resp}, nil
}

type statsResolver struct {
	r    *Resolver
	resp statsResponse
}

// Users is the registered user count.
func (s *statsResolver) Users() int32 {
	return s.resp.Users
}

// TopTags resolves the most used tags with their usage counts.
func (s *statsResolver) TopTags(ctx context.Context) ([]*tagPopularityResolver, error) {
	ids := make([]int32, len(s.resp.TopTags))
	for i, t := range s.resp.TopTags {
		ids[i] = t.ID
	}
	tags, err := s.r.resolveTagBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*tagPopularityResolver, 0, len(tags))
	for i, tag := range tags {
		if i >= len(s.resp.TopTags) {
			break
		}
		out = append(out, &tagPopularityResolver{popularity: s.resp.TopTags[i].Count, tag: tag})
	}
	return out, nil
}
