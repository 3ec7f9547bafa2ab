package resolvers

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/types"
)

type rawTagHistoryItem struct {
	TagIDs    []int64    `json:"tags"`
	AddTagIDs []int64    `json:"add"`
	DelTagIDs []int64    `json:"del"`
	UserID    string     `json:"user_id"`
	Video     video      `json:"video_obj"`
	Time      types.Time `json:"time"`
}

type rawTagHistoryResponse struct {
	Items []rawTagHistoryItem `json:"items"`
}

// GetRawTagHistory resolves the recent tag edit log.
func (r *Resolver) GetRawTagHistory(ctx context.Context, args struct {
	Offset int32
	Limit  int32
}) (*tagHistoryResolver, error) {
	payload := map[string]int32{
		"offset": args.Offset,
		"limit":  args.Limit,
	}
	resp, err := backend.Post[rawTagHistoryResponse](ctx, r.be, backend.PathRawTagIDLog, payload)
	if err != nil {
		return nil, err
	}
	return &tagHistoryResolver{r: r, items: resp.Items}, nil
}

type tagHistoryResolver struct {
	r     *Resolver
	items []rawTagHistoryItem
}

func (t *tagHistoryResolver) Items() []*tagHistoryItemResolver {
	out := make([]*tagHistoryItemResolver, len(t.items))
	for i := range t.items {
		out[i] = &tagHistoryItemResolver{r: t.r, item: t.items[i]}
	}
	return out
}

type tagHistoryItemResolver struct {
	r    *Resolver
	item rawTagHistoryItem
}

func (t *tagHistoryItemResolver) Time() graphql.Time {
	return gqlTime(t.item.Time)
}

func (t *tagHistoryItemResolver) AddedTags(ctx context.Context) ([]*tagObjectResolver, error) {
	return t.r.resolveTagBatch(ctx, clampTagIDs(t.item.AddTagIDs))
}

func (t *tagHistoryItemResolver) RemovedTags(ctx context.Context) ([]*tagObjectResolver, error) {
	return t.r.resolveTagBatch(ctx, clampTagIDs(t.item.DelTagIDs))
}

func (t *tagHistoryItemResolver) User(ctx context.Context) (*userResolver, error) {
	return t.r.fetchUser(ctx, t.item.UserID)
}

func (t *tagHistoryItemResolver) Video() *videoResolver {
	return &videoResolver{r: t.r, v: t.item.Video}
}
