package resolvers

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/types"
)

type rawAuthor struct {
	ID           types.ObjectID  `json:"_id"`
	Type         string          `json:"type"`
	Tagname      string          `json:"tagid"`
	CommonTagIDs []int32         `json:"common_tagids"`
	URLs         []string        `json:"urls"`
	UserSpaceIDs []string        `json:"user_space_ids"`
	Avatar       string          `json:"avatar"`
	Desc         string          `json:"desc"`
	PvUserID     *types.ObjectID `json:"pv_user_id"`
}

type getAuthorResponse struct {
	Record rawAuthor `json:"record"`
}

// GetAuthorParameters selects the author record linked to a tag.
type GetAuthorParameters struct {
	Tagid int32 `json:"tagid"`
}

// AuthorUserAssociationParameters links an author record to a user account.
type AuthorUserAssociationParameters struct {
	Tagid int32  `json:"tagid"`
	UID   string `json:"uid"`
}

// GetAuthor resolves the author database record for a tag.
func (r *Resolver) GetAuthor(ctx context.Context, args struct{ Para GetAuthorParameters }) (*authorResolver, error) {
	return r.fetchAuthor(ctx, args.Para.Tagid)
}

func (r *Resolver) fetchAuthor(ctx context.Context, tagid int32) (*authorResolver, error) {
	resp, err := backend.Post[getAuthorResponse](ctx, r.be, backend.PathAuthorRecord, GetAuthorParameters{Tagid: tagid})
	if err != nil {
		return nil, err
	}
	return &authorResolver{r: r, a: resp.Record}, nil
}

// AssociateAuthorUser links an author record to a platform user.
func (r *Resolver) AssociateAuthorUser(ctx context.Context, args struct {
	Para AuthorUserAssociationParameters
}) (bool, error) {
	if err := backend.PostStatus(ctx, r.be, backend.PathAuthorAssociate, args.Para); err != nil {
		return false, err
	}
	return true, nil
}

// DisassociateAuthorUser removes the author record's user link.
func (r *Resolver) DisassociateAuthorUser(ctx context.Context, args struct {
	Para AuthorUserAssociationParameters
}) (bool, error) {
	if err := backend.PostStatus(ctx, r.be, backend.PathAuthorDissociate, args.Para); err != nil {
		return false, err
	}
	return true, nil
}

type authorResolver struct {
	r *Resolver
	a rawAuthor
}

func (a *authorResolver) ID() graphql.ID {
	return oid(a.a.ID)
}

func (a *authorResolver) Type() string {
	return a.a.Type
}

// Tagname is the author's display name, stored under the tag name key in
// the author database.
func (a *authorResolver) Tagname() string {
	return a.a.Tagname
}

func (a *authorResolver) CommonTagids() []int32 {
	return a.a.CommonTagIDs
}

// CommonTags resolves the author's commonly associated tags.
func (a *authorResolver) CommonTags(ctx context.Context) ([]*tagObjectResolver, error) {
	return a.r.resolveTagBatch(ctx, a.a.CommonTagIDs)
}

func (a *authorResolver) Urls() []string {
	return a.a.URLs
}

func (a *authorResolver) UserSpaceIds() []string {
	return a.a.UserSpaceIDs
}

func (a *authorResolver) Avatar() string {
	return a.a.Avatar
}

func (a *authorResolver) Desc() string {
	return a.a.Desc
}

// PvUser resolves the linked platform user account, if any.
func (a *authorResolver) PvUser(ctx context.Context) (*userResolver, error) {
	if a.a.PvUserID == nil {
		return nil, nil
	}
	return a.r.fetchUser(ctx, a.a.PvUserID.String())
}
