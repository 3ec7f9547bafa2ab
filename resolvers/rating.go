package resolvers

import (
	"context"

	"github.com/PatchyVideo/pvgql/backend"
)

// GetRatingParameters selects exactly one rated object.
type GetRatingParameters struct {
	Pid *string `json:"pid,omitempty"`
	Vid *string `json:"vid,omitempty"`
}

type getRatingResponse struct {
	UserRating  *int32 `json:"user_rating"`
	TotalRating int32  `json:"total_rating"`
	TotalUser   int32  `json:"total_user"`
}

// GetRating resolves the rating aggregate for a playlist or a video. The
// playlist id wins when both are given. Backend failures degrade to a null
// rating rather than a field error; an empty request is rejected without
// touching the backend.
func (r *Resolver) GetRating(ctx context.Context, args struct{ Para GetRatingParameters }) (*ratingResolver, error) {
	path, err := backend.RatingTotalPath(args.Para.Pid != nil, args.Para.Vid != nil)
	if err != nil {
		return nil, err
	}
	resp, err := backend.Post[getRatingResponse](ctx, r.be, path, args.Para)
	if err != nil {
		r.logger.Warn("rating lookup failed", "path", path, "error", err)
		return nil, nil
	}
	return &ratingResolver{resp: *resp}, nil
}

type ratingResolver struct {
	resp getRatingResponse
}

// UserRating is the caller's own rating, null when unauthenticated or not
// yet rated.
func (r *ratingResolver) UserRating() *int32 {
	return r.resp.UserRating
}

// TotalRating is the sum of all ratings on this object.
func (r *ratingResolver) TotalRating() int32 {
	return r.resp.TotalRating
}

// TotalUser is how many users rated this object.
func (r *ratingResolver) TotalUser() int32 {
	return r.resp.TotalUser
}
