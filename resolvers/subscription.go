package resolvers

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/types"
)

type rawSubscription struct {
	ID   types.ObjectID `json:"_id"`
	QS   string         `json:"qs"`
	QT   string         `json:"qt"`
	Name *string        `json:"name"`
	Meta types.Meta     `json:"meta"`
}

type listSubscriptionsResponse struct {
	Subs []rawSubscription `json:"subs"`
}

// ListSubscriptionVideosParameters pages through videos matched by the
// caller's subscriptions.
type ListSubscriptionVideosParameters struct {
	Offset               *int32    `json:"offset,omitempty"`
	Limit                *int32    `json:"limit,omitempty"`
	Order                *string   `json:"order,omitempty"`
	AdditionalConstraint *string   `json:"additional_constraint,omitempty"`
	HidePlaceholder      *bool     `json:"hide_placeholder,omitempty"`
	Lang                 *string   `json:"lang,omitempty"`
	Visible              *[]string `json:"visible,omitempty"`
}

type listSubscriptionVideosResponse struct {
	Videos        []video           `json:"videos"`
	Total         int32             `json:"total"`
	Objs          []rawSubscription `json:"objs"`
	RelatedTagIDs []int64           `json:"related_tagids"`
}

// ListSubscriptions lists the caller's saved queries.
func (r *Resolver) ListSubscriptions(ctx context.Context) ([]*subscriptionResolver, error) {
	resp, err := backend.Post[listSubscriptionsResponse](ctx, r.be, backend.PathSubsAll, struct{}{})
	if err != nil {
		return nil, err
	}
	return subscriptionResolvers(resp.Subs), nil
}

// ListSubscriptionVideos lists videos matched by the caller's
// subscriptions.
func (r *Resolver) ListSubscriptionVideos(ctx context.Context, args struct {
	Para ListSubscriptionVideosParameters
}) (*subscriptionVideosResolver, error) {
	return r.listSubscriptionVideos(ctx, backend.PathSubsList, args.Para)
}

// ListSubscriptionVideosRandomized is ListSubscriptionVideos with
// backend-side shuffling.
func (r *Resolver) ListSubscriptionVideosRandomized(ctx context.Context, args struct {
	Para ListSubscriptionVideosParameters
}) (*subscriptionVideosResolver, error) {
	return r.listSubscriptionVideos(ctx, backend.PathSubsRandomized, args.Para)
}

func (r *Resolver) listSubscriptionVideos(ctx context.Context, path string, para ListSubscriptionVideosParameters) (*subscriptionVideosResolver, error) {
	resp, err := backend.Post[listSubscriptionVideosResponse](ctx, r.be, path, para)
	if err != nil {
		return nil, err
	}
	return &subscriptionVideosResolver{r: r, resp: *resp}, nil
}

func subscriptionResolvers(subs []rawSubscription) []*subscriptionResolver {
	out := make([]*subscriptionResolver, len(subs))
	for i := range subs {
		out[i] = &subscriptionResolver{s: subs[i]}
	}
	return out
}

type subscriptionResolver struct {
	s rawSubscription
}

func (s *subscriptionResolver) ID() graphql.ID {
	return oid(s.s.ID)
}

func (s *subscriptionResolver) Query() string {
	return s.s.QS
}

// QueryType is one of tag, text.
func (s *subscriptionResolver) QueryType() string {
	return s.s.QT
}

// Name is the subscription's display name, null when unnamed.
func (s *subscriptionResolver) Name() *string {
	if s.s.Name == nil || *s.s.Name == "" {
		return nil
	}
	return s.s.Name
}

func (s *subscriptionResolver) Meta() *metaResolver {
	return &metaResolver{m: s.s.Meta}
}

type subscriptionVideosResolver struct {
	r    *Resolver
	resp listSubscriptionVideosResponse
}

func (s *subscriptionVideosResolver) Videos() []*videoResolver {
	return s.r.videoResolvers(s.resp.Videos)
}

func (s *subscriptionVideosResolver) Count() int32 {
	return s.resp.Total
}

// Subscriptions returns the saved queries that produced this result.
func (s *subscriptionVideosResolver) Subscriptions() []*subscriptionResolver {
	return subscriptionResolvers(s.resp.Objs)
}

func (s *subscriptionVideosResolver) RelatedTags(ctx context.Context) (*[]*tagObjectResolver, error) {
	if s.resp.RelatedTagIDs == nil {
		return nil, nil
	}
	tags, err := s.r.resolveTagBatch(ctx, clampTagIDs(s.resp.RelatedTagIDs))
	if err != nil {
		return nil, err
	}
	return &tags, nil
}
