package resolvers

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/types"
)

type userProfile struct {
	BindQQ   *bool   `json:"bind_qq"`
	Desc     string  `json:"desc"`
	Username string  `json:"username"`
	Image    string  `json:"image"`
	Email    *string `json:"email"`
	Gravatar *string `json:"gravatar"`
}

type getProfileResponse struct {
	Profile userProfile    `json:"profile"`
	ID      types.ObjectID `json:"_id"`
	Meta    types.Meta     `json:"meta"`
}

// GetUserParameters identifies a user.
type GetUserParameters struct {
	UID string `json:"uid"`
}

// GetUser resolves a user from their profile record.
func (r *Resolver) GetUser(ctx context.Context, args struct{ Para GetUserParameters }) (*userResolver, error) {
	return r.fetchUser(ctx, args.Para.UID)
}

func (r *Resolver) fetchUser(ctx context.Context, uid string) (*userResolver, error) {
	resp, err := backend.Post[getProfileResponse](ctx, r.be, backend.PathUserProfile, GetUserParameters{UID: uid})
	if err != nil {
		return nil, err
	}
	return &userResolver{u: *resp}, nil
}

// Whoami reports the calling user's identity. Any backend failure reads as
// not logged in rather than an error.
func (r *Resolver) Whoami(ctx context.Context) string {
	resp, err := backend.Post[string](ctx, r.be, backend.PathWhoami, struct{}{})
	if err != nil {
		return "NOT_LOGGED_IN"
	}
	return *resp
}

type userResolver struct {
	u getProfileResponse
}

func (u *userResolver) ID() graphql.ID {
	return oid(u.u.ID)
}

func (u *userResolver) BindQQ() *bool {
	return u.u.Profile.BindQQ
}

func (u *userResolver) Desc() string {
	return u.u.Profile.Desc
}

func (u *userResolver) Username() string {
	return u.u.Profile.Username
}

func (u *userResolver) Image() string {
	return u.u.Profile.Image
}

func (u *userResolver) Email() *string {
	return u.u.Profile.Email
}

func (u *userResolver) Gravatar() *string {
	return u.u.Profile.Gravatar
}

func (u *userResolver) Meta() *metaResolver {
	return &metaResolver{m: u.u.Meta}
}
