package resolvers

import (
	"context"
	"encoding/json"
	"sync"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/errors"
	"github.com/PatchyVideo/pvgql/types"
)

type playlistMeta struct {
	Cover       string `json:"cover"`
	Videos      int32  `json:"videos"`
	Desc        string `json:"desc"`
	Private     bool   `json:"private"`
	PrivateEdit bool   `json:"privateEdit"`
	Title       string `json:"title"`
	Views       int32  `json:"views"`
}

type rawPlaylist struct {
	ID            types.ObjectID  `json:"_id"`
	Item          playlistMeta    `json:"item"`
	Meta          types.Meta      `json:"meta"`
	TagCount      int32           `json:"tag_count"`
	Tags          []int64         `json:"tags"`
	Clearence     int32           `json:"clearence"`
	CommentThread *types.ObjectID `json:"comment_thread"`
}

type getPlaylistMetadataResponse struct {
	Editable bool              `json:"editable"`
	Owner    bool              `json:"owner"`
	Playlist rawPlaylist       `json:"playlist"`
	Tags     []json.RawMessage `json:"tags"`
}

type getPlaylistContentResponse struct {
	Videos []video `json:"videos"`
}

type listPlaylistResponse struct {
	Playlists []rawPlaylist `json:"playlists"`
	Count     int32         `json:"count"`
	PageCount int32         `json:"page_count"`
}

// videoPlaylistEntry records a video's membership in one playlist.
type videoPlaylistEntry struct {
	ID   types.ObjectID `json:"_id"`
	Item playlistMeta   `json:"item"`
	Rank int32          `json:"rank"`
	Next *string        `json:"next"`
	Prev *string        `json:"prev"`
}

// GetPlaylistParameters identifies a playlist.
type GetPlaylistParameters struct {
	Pid string `json:"pid"`
}

// GetPlaylistContentParameters pages through a playlist's videos.
type GetPlaylistContentParameters struct {
	Pid    string `json:"pid"`
	Offset *int32 `json:"offset,omitempty"`
	Limit  *int32 `json:"limit,omitempty"`
}

// ListPlaylistParameters drives playlist listing and search.
type ListPlaylistParameters struct {
	Offset               *int32  `json:"offset,omitempty"`
	Limit                *int32  `json:"limit,omitempty"`
	Query                *string `json:"query,omitempty"`
	Order                *string `json:"order,omitempty"`
	AdditionalConstraint *string `json:"additional_constraint,omitempty"`
}

// GetPlaylist resolves playlist metadata, including the caller-dependent
// editable and owner flags.
func (r *Resolver) GetPlaylist(ctx context.Context, args struct{ Para GetPlaylistParameters }) (*playlistResolver, error) {
	return r.fetchPlaylist(ctx, args.Para.Pid)
}

func (r *Resolver) fetchPlaylist(ctx context.Context, pid string) (*playlistResolver, error) {
	resp, err := backend.Post[getPlaylistMetadataResponse](ctx, r.be, backend.PathPlaylistMeta, GetPlaylistParameters{Pid: pid})
	if err != nil {
		return nil, err
	}
	cats, err := playlistCategoryItems(resp.Tags)
	if err != nil {
		return nil, err
	}
	return &playlistResolver{
		r:        r,
		p:        resp.Playlist,
		editable: &resp.Editable,
		owner:    &resp.Owner,
		cats:     cats,
	}, nil
}

// The metadata response carries the category map as the third element of a
// heterogeneous tag array.
func playlistCategoryItems(tags []json.RawMessage) ([]tagCategoryItem, error) {
	if len(tags) < 3 {
		return nil, errors.NewMalformed(backend.PathPlaylistMeta, "no category tag map in metadata response")
	}
	var m map[string][]string
	if err := json.Unmarshal(tags[2], &m); err != nil {
		return nil, errors.NewMalformed(backend.PathPlaylistMeta, "no category tag map in metadata response")
	}
	return categoryItemsFromMap(m)
}

// GetPlaylistContent resolves one page of a playlist's videos.
func (r *Resolver) GetPlaylistContent(ctx context.Context, args struct{ Para GetPlaylistContentParameters }) ([]*videoResolver, error) {
	resp, err := backend.Post[getPlaylistContentResponse](ctx, r.be, backend.PathPlaylistContent, args.Para)
	if err != nil {
		return nil, err
	}
	return r.videoResolvers(resp.Videos), nil
}

// ListPlaylist lists or searches playlists depending on query presence.
// List entries carry no editable/owner flags and no category map.
func (r *Resolver) ListPlaylist(ctx context.Context, args struct{ Para ListPlaylistParameters }) (*listPlaylistResolver, error) {
	resp, err := backend.Post[listPlaylistResponse](ctx, r.be, backend.ListPlaylistsPath(args.Para.Query != nil), args.Para)
	if err != nil {
		return nil, err
	}
	return &listPlaylistResolver{r: r, resp: *resp}, nil
}

type playlistResolver struct {
	r *Resolver
	p rawPlaylist

	// Present only when fetched through the metadata endpoint.
	editable *bool
	owner    *bool

	mu      sync.Mutex
	cats    []tagCategoryItem
	catsErr error
}

func (p *playlistResolver) ID() graphql.ID {
	return oid(p.p.ID)
}

func (p *playlistResolver) Item() *playlistMetaResolver {
	return &playlistMetaResolver{item: p.p.Item}
}

func (p *playlistResolver) Meta() *metaResolver {
	return &metaResolver{m: p.p.Meta}
}

func (p *playlistResolver) TagCount() int32 {
	return p.p.TagCount
}

func (p *playlistResolver) Tags() []int32 {
	return clampTagIDs(p.p.Tags)
}

func (p *playlistResolver) Clearence() int32 {
	return p.p.Clearence
}

// Editable reports whether the caller may edit this playlist. Null on
// listing results, which carry no caller context.
func (p *playlistResolver) Editable() *bool {
	return p.editable
}

// Owner reports whether the caller owns this playlist. Null on listing
// results.
func (p *playlistResolver) Owner() *bool {
	return p.owner
}

func (p *playlistResolver) CommentThread() *graphql.ID {
	return oidPtr(p.p.CommentThread)
}

// TagByCategory resolves the category map, refetching the playlist
// metadata once when this entity came from a listing endpoint.
func (p *playlistResolver) TagByCategory(ctx context.Context) ([]*tagCategoryItemResolver, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cats == nil && p.catsErr == nil {
		full, err := p.r.fetchPlaylist(ctx, p.p.ID.String())
		if err != nil {
			p.catsErr = err
		} else {
			p.cats = full.cats
		}
	}
	if p.catsErr != nil {
		return nil, p.catsErr
	}
	out := make([]*tagCategoryItemResolver, len(p.cats))
	for i := range p.cats {
		out[i] = &tagCategoryItemResolver{item: p.cats[i]}
	}
	return out, nil
}

type playlistMetaResolver struct {
	item playlistMeta
}

func (p *playlistMetaResolver) Cover() string     { return p.item.Cover }
func (p *playlistMetaResolver) Videos() int32     { return p.item.Videos }
func (p *playlistMetaResolver) Desc() string      { return p.item.Desc }
func (p *playlistMetaResolver) Private() bool     { return p.item.Private }
func (p *playlistMetaResolver) PrivateEdit() bool { return p.item.PrivateEdit }
func (p *playlistMetaResolver) Title() string     { return p.item.Title }
func (p *playlistMetaResolver) Views() int32      { return p.item.Views }

type listPlaylistResolver struct {
	r    *Resolver
	resp listPlaylistResponse
}

func (l *listPlaylistResolver) Playlists() []*playlistResolver {
	out := make([]*playlistResolver, len(l.resp.Playlists))
	for i := range l.resp.Playlists {
		out[i] = &playlistResolver{r: l.r, p: l.resp.Playlists[i]}
	}
	return out
}

func (l *listPlaylistResolver) Count() int32 {
	return l.resp.Count
}

func (l *listPlaylistResolver) PageCount() int32 {
	return l.resp.PageCount
}

type videoPlaylistResolver struct {
	entry videoPlaylistEntry
}

func (v *videoPlaylistResolver) ID() graphql.ID {
	return oid(v.entry.ID)
}

func (v *videoPlaylistResolver) Item() *playlistMetaResolver {
	return &playlistMetaResolver{item: v.entry.Item}
}

func (v *videoPlaylistResolver) Rank() int32 {
	return v.entry.Rank
}

func (v *videoPlaylistResolver) Next() *graphql.ID {
	return idPtrFromString(v.entry.Next)
}

func (v *videoPlaylistResolver) Prev() *graphql.ID {
	return idPtrFromString(v.entry.Prev)
}

func idPtrFromString(s *string) *graphql.ID {
	if s == nil {
		return nil
	}
	id := graphql.ID(*s)
	return &id
}
