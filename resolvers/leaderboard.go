package resolvers

import (
	"context"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/types"
)

type leaderboardItem struct {
	ID    types.ObjectID `json:"_id"`
	Count int32          `json:"count"`
}

// GetLeaderboard resolves the top tag contributors over the given window.
func (r *Resolver) GetLeaderboard(ctx context.Context, args struct {
	Hrs  int32
	Size int32
}) (*leaderboardResolver, error) {
	payload := map[string]int32{
		"hrs":  args.Hrs,
		"size": args.Size,
	}
	resp, err := backend.Post[[]leaderboardItem](ctx, r.be, backend.PathTagContributors, payload)
	if err != nil {
		return nil, err
	}
	return &leaderboardResolver{r: r, items: *resp}, nil
}

type leaderboardResolver struct {
	r     *Resolver
	items []leaderboardItem
}

func (l *leaderboardResolver) Items() []*leaderboardItemResolver {
	out := make([]*leaderboardItemResolver, len(l.items))
	for i := range l.items {
		out[i] = &leaderboardItemResolver{r: l.r, item: l.items[i]}
	}
	return out
}

type leaderboardItemResolver struct {
	r    *Resolver
	item leaderboardItem
}

// Count is how many tag edits this user contributed in the window.
func (l *leaderboardItemResolver) Count() int32 {
	return l.item.Count
}

func (l *leaderboardItemResolver) User(ctx context.Context) (*userResolver, error) {
	return l.r.fetchUser(ctx, l.item.ID.String())
}
