package resolvers

import (
	"context"
	"sort"
	"sync"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/errors"
	"github.com/PatchyVideo/pvgql/types"
)

type videoItem struct {
	CoverImage    string           `json:"cover_image"`
	Title         string           `json:"title"`
	Desc          string           `json:"desc"`
	Placeholder   bool             `json:"placeholder"`
	Rating        float64          `json:"rating"`
	RepostType    string           `json:"repost_type"`
	Copies        []types.ObjectID `json:"copies"`
	Series        []types.ObjectID `json:"series"`
	Site          string           `json:"site"`
	ThumbnailURL  string           `json:"thumbnail_url"`
	UniqueID      string           `json:"unique_id"`
	UploadTime    types.Time       `json:"upload_time"`
	URL           string           `json:"url"`
	UserSpaceURLs *[]string        `json:"user_space_urls"`
	UTags         []string         `json:"utags"`
	Views         int32            `json:"views"`
}

type video struct {
	ID            types.ObjectID  `json:"_id"`
	Clearence     int32           `json:"clearence"`
	Item          videoItem       `json:"item"`
	Meta          types.Meta      `json:"meta"`
	TagCount      int32           `json:"tag_count"`
	Tags          []int64         `json:"tags"`
	TagsReadable  *[]string       `json:"tags_readable"`
	CommentThread *types.ObjectID `json:"comment_thread"`
}

// videoRelations holds the three relation lists that only the single-video
// endpoint returns. They always come (and are cached) together, so a video
// either has all of them or none.
type videoRelations struct {
	tagByCategory []tagCategoryItem
	copies        []video
	playlists     []videoPlaylistEntry
}

type tagCategoryItem struct {
	key   types.TagCategory
	value []string
}

type getVideoResponse struct {
	Video         video                `json:"video"`
	TagByCategory map[string][]string  `json:"tag_by_category"`
	Playlists     []videoPlaylistEntry `json:"playlists"`
	Copies        []video              `json:"copies"`
}

// GetVideoParameters identifies a single video.
type GetVideoParameters struct {
	Vid  string `json:"vid"`
	Lang string `json:"lang"`
}

// ListVideoParameters drives both plain listing and query search.
type ListVideoParameters struct {
	Offset               *int32  `json:"offset,omitempty"`
	Limit                *int32  `json:"limit,omitempty"`
	Query                *string `json:"query,omitempty"`
	Qtype                *string `json:"qtype,omitempty"`
	Order                *string `json:"order,omitempty"`
	AdditionalConstraint *string `json:"additional_constraint,omitempty"`
	HidePlaceholder      *bool   `json:"hide_placeholder,omitempty"`
	Lang                 *string `json:"lang,omitempty"`
	HumanReadableTag     *bool   `json:"human_readable_tag,omitempty"`
}

// GetRelatedVideoParameters selects related videos for one video.
type GetRelatedVideoParameters struct {
	Vid       string `json:"vid"`
	TopK      *int32 `json:"top_k,omitempty"`
	SortTitle *bool  `json:"sort_title,omitempty"`
}

type listVideoResponse struct {
	Videos        []video `json:"videos"`
	Count         int32   `json:"count"`
	PageCount     int32   `json:"page_count"`
	RelatedTagIDs []int64 `json:"related_tagids"`
}

type relatedVideosResponse struct {
	Videos []video `json:"videos"`
}

func categoryItemsFromMap(m map[string][]string) ([]tagCategoryItem, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]tagCategoryItem, 0, len(keys))
	for _, k := range keys {
		cat, err := types.ParseTagCategory(k)
		if err != nil {
			return nil, errors.NewMalformed(backend.PathGetVideo, "unknown tag category %q", k)
		}
		items = append(items, tagCategoryItem{key: cat, value: m[k]})
	}
	return items, nil
}

// GetVideo resolves a single video with all relation lists attached.
func (r *Resolver) GetVideo(ctx context.Context, args struct{ Para GetVideoParameters }) (*videoResolver, error) {
	return r.fetchVideo(ctx, args.Para)
}

func (r *Resolver) fetchVideo(ctx context.Context, para GetVideoParameters) (*videoResolver, error) {
	resp, err := backend.Post[getVideoResponse](ctx, r.be, backend.PathGetVideo, para)
	if err != nil {
		return nil, err
	}
	cats, err := categoryItemsFromMap(resp.TagByCategory)
	if err != nil {
		return nil, err
	}
	return &videoResolver{
		r: r,
		v: resp.Video,
		rel: &videoRelations{
			tagByCategory: cats,
			copies:        resp.Copies,
			playlists:     resp.Playlists,
		},
	}, nil
}

// ListVideo lists or searches videos depending on whether a query is given.
func (r *Resolver) ListVideo(ctx context.Context, args struct{ Para ListVideoParameters }) (*listVideoResolver, error) {
	hasQuery := args.Para.Query != nil
	resp, err := backend.Post[listVideoResponse](ctx, r.be, backend.ListVideosPath(hasQuery), args.Para)
	if err != nil {
		return nil, err
	}
	return &listVideoResolver{r: r, resp: *resp}, nil
}

// GetRelatedVideo resolves videos related to the given one.
func (r *Resolver) GetRelatedVideo(ctx context.Context, args struct{ Para GetRelatedVideoParameters }) ([]*videoResolver, error) {
	resp, err := backend.Post[relatedVideosResponse](ctx, r.be, backend.PathRelatedVideos, args.Para)
	if err != nil {
		return nil, err
	}
	return r.videoResolvers(resp.Videos), nil
}

func (r *Resolver) videoResolvers(videos []video) []*videoResolver {
	out := make([]*videoResolver, len(videos))
	for i := range videos {
		out[i] = &videoResolver{r: r, v: videos[i]}
	}
	return out
}

type videoResolver struct {
	r *Resolver
	v video

	// rel is set when the video came from the single-video endpoint. For
	// list results it starts nil and is filled by at most one refetch.
	mu     sync.Mutex
	rel    *videoRelations
	relErr error
}

func (v *videoResolver) ID() graphql.ID {
	return oid(v.v.ID)
}

func (v *videoResolver) Clearence() int32 {
	return v.v.Clearence
}

func (v *videoResolver) Item() *videoItemResolver {
	return &videoItemResolver{item: v.v.Item}
}

func (v *videoResolver) Meta() *metaResolver {
	return &metaResolver{m: v.v.Meta}
}

func (v *videoResolver) TagCount() int32 {
	return v.v.TagCount
}

func (v *videoResolver) Tags() []int32 {
	return clampTagIDs(v.v.Tags)
}

func (v *videoResolver) TagsReadable() *[]string {
	return v.v.TagsReadable
}

func (v *videoResolver) CommentThread() *graphql.ID {
	return oidPtr(v.v.CommentThread)
}

// relations returns the relation lists, refetching the video once if it
// came from a listing endpoint. The first caller's language wins for the
// refetch; all three relation fields share the cached result.
func (v *videoResolver) relations(ctx context.Context, lang string) (*videoRelations, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.rel != nil || v.relErr != nil {
		return v.rel, v.relErr
	}
	full, err := v.r.fetchVideo(ctx, GetVideoParameters{Vid: v.v.ID.String(), Lang: lang})
	if err != nil {
		v.relErr = err
		return nil, err
	}
	v.rel = full.rel
	return v.rel, nil
}

func (v *videoResolver) TagByCategory(ctx context.Context, args struct{ Lang string }) ([]*tagCategoryItemResolver, error) {
	rel, err := v.relations(ctx, args.Lang)
	if err != nil {
		return nil, err
	}
	out := make([]*tagCategoryItemResolver, len(rel.tagByCategory))
	for i := range rel.tagByCategory {
		out[i] = &tagCategoryItemResolver{item: rel.tagByCategory[i]}
	}
	return out, nil
}

func (v *videoResolver) Copies(ctx context.Context, args struct{ Lang string }) ([]*videoResolver, error) {
	rel, err := v.relations(ctx, args.Lang)
	if err != nil {
		return nil, err
	}
	return v.r.videoResolvers(rel.copies), nil
}

func (v *videoResolver) Playlists(ctx context.Context, args struct{ Lang string }) ([]*videoPlaylistResolver, error) {
	rel, err := v.relations(ctx, args.Lang)
	if err != nil {
		return nil, err
	}
	out := make([]*videoPlaylistResolver, len(rel.playlists))
	for i := range rel.playlists {
		out[i] = &videoPlaylistResolver{entry: rel.playlists[i]}
	}
	return out, nil
}

type videoItemResolver struct {
	item videoItem
}

func (v *videoItemResolver) CoverImage() string   { return v.item.CoverImage }
func (v *videoItemResolver) Title() string        { return v.item.Title }
func (v *videoItemResolver) Desc() string         { return v.item.Desc }
func (v *videoItemResolver) Placeholder() bool    { return v.item.Placeholder }
func (v *videoItemResolver) Rating() float64      { return v.item.Rating }
func (v *videoItemResolver) RepostType() string   { return v.item.RepostType }
func (v *videoItemResolver) Site() string         { return v.item.Site }
func (v *videoItemResolver) ThumbnailURL() string { return v.item.ThumbnailURL }
func (v *videoItemResolver) UniqueID() string     { return v.item.UniqueID }
func (v *videoItemResolver) URL() string          { return v.item.URL }
func (v *videoItemResolver) UTags() []string      { return v.item.UTags }
func (v *videoItemResolver) Views() int32         { return v.item.Views }
func (v *videoItemResolver) UserSpaceURLs() *[]string {
	return v.item.UserSpaceURLs
}
func (v *videoItemResolver) UploadTime() graphql.Time {
	return gqlTime(v.item.UploadTime)
}

type tagCategoryItemResolver struct {
	item tagCategoryItem
}

func (t *tagCategoryItemResolver) Key() string {
	return string(t.item.key)
}

func (t *tagCategoryItemResolver) Value() []string {
	return t.item.value
}

type listVideoResolver struct {
	r    *Resolver
	resp listVideoResponse
}

func (l *listVideoResolver) Videos() []*videoResolver {
	return l.r.videoResolvers(l.resp.Videos)
}

func (l *listVideoResolver) Count() int32 {
	return l.resp.Count
}

func (l *listVideoResolver) PageCount() int32 {
	return l.resp.PageCount
}

// RelatedTags resolves the tag objects for tags related to the result set.
func (l *listVideoResolver) RelatedTags(ctx context.Context) (*[]*tagObjectResolver, error) {
	if l.resp.RelatedTagIDs == nil {
		return nil, nil
	}
	tags, err := l.r.resolveTagBatch(ctx, clampTagIDs(l.resp.RelatedTagIDs))
	if err != nil {
		return nil, err
	}
	return &tags, nil
}
