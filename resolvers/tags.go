package resolvers

import (
	"context"
	"sort"
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/types"
)

// rawTagObject is the wire form shared by every tag endpoint.
type rawTagObject struct {
	ID        int32             `json:"id"`
	OID       types.ObjectID    `json:"_id"`
	Category  types.TagCategory `json:"category"`
	Count     float64           `json:"count"`
	Languages map[string]string `json:"languages"`
	Alias     []string          `json:"alias"`
	Meta      types.Meta        `json:"meta"`
}

type tagBatchResponse struct {
	TagObjs []rawTagObject `json:"tag_objs"`
}

type listTagsResponse struct {
	Tags      []rawTagObject `json:"tags"`
	Count     int32          `json:"count"`
	PageCount int32          `json:"page_count"`
}

// GetTagObjectsParameters selects tags by id.
type GetTagObjectsParameters struct {
	Tagid []int32 `json:"tagid"`
}

// ListTagParameters drives tag browsing and search.
type ListTagParameters struct {
	Query      *string `json:"query,omitempty"`
	QueryRegex *bool   `json:"query_regex,omitempty"`
	Category   *string `json:"category,omitempty"`
	Order      *string `json:"order,omitempty"`
	Offset     *int32  `json:"offset,omitempty"`
	Limit      *int32  `json:"limit,omitempty"`
}

// GetPopularTagsParameters selects the most used tags.
type GetPopularTagsParameters struct {
	Lang  *string `json:"lang,omitempty"`
	Count *int32  `json:"count,omitempty"`
}

// tagCommon carries the fields shared by both tag object variants.
type tagCommon struct {
	raw rawTagObject
}

func (t tagCommon) Tagid() int32 {
	return t.raw.ID
}

func (t tagCommon) ID() graphql.ID {
	return oid(t.raw.OID)
}

func (t tagCommon) Alias() []string {
	return t.raw.Alias
}

func (t tagCommon) Category() string {
	return string(t.raw.Category)
}

func (t tagCommon) Count() int32 {
	return int32(t.raw.Count)
}

func (t tagCommon) Meta() *metaResolver {
	return &metaResolver{m: t.raw.Meta}
}

// Languages flattens the language map into a stable list of mappings.
func (t tagCommon) Languages() []*languageMappingResolver {
	langs := make([]string, 0, len(t.raw.Languages))
	for k := range t.raw.Languages {
		langs = append(langs, k)
	}
	sort.Strings(langs)
	out := make([]*languageMappingResolver, len(langs))
	for i, lang := range langs {
		out[i] = &languageMappingResolver{lang: lang, value: t.raw.Languages[lang]}
	}
	return out
}

type languageMappingResolver struct {
	lang  string
	value string
}

func (l *languageMappingResolver) Lang() string  { return l.lang }
func (l *languageMappingResolver) Value() string { return l.value }

// tagObjectResolver resolves the TagObject interface. Author-category tags
// carry the author record, every other category is a regular tag.
type tagObjectResolver struct {
	tagCommon
	author *authorResolver // only set for author tags
}

func (t *tagObjectResolver) IsAuthor() bool {
	return t.raw.Category == types.CategoryAuthor
}

func (t *tagObjectResolver) ToRegularTagObject() (*regularTagResolver, bool) {
	if t.IsAuthor() {
		return nil, false
	}
	return &regularTagResolver{tagCommon: t.tagCommon}, true
}

func (t *tagObjectResolver) ToAuthorTagObject() (*authorTagResolver, bool) {
	if !t.IsAuthor() {
		return nil, false
	}
	return &authorTagResolver{tagCommon: t.tagCommon, author: t.author}, true
}

type regularTagResolver struct {
	tagCommon
}

func (t *regularTagResolver) IsAuthor() bool {
	return false
}

type authorTagResolver struct {
	tagCommon
	author *authorResolver
}

func (t *authorTagResolver) IsAuthor() bool {
	return true
}

func (t *authorTagResolver) AuthorRole() string {
	return "author"
}

// Author resolves the linked author record. It is null when the author
// database has no record for this tag.
func (t *authorTagResolver) Author() *authorResolver {
	return t.author
}

// resolveTagBatch fetches tag objects by id and attaches author records to
// author tags. A failed author lookup degrades to a tag without an author
// rather than failing the whole batch.
func (r *Resolver) resolveTagBatch(ctx context.Context, ids []int32) ([]*tagObjectResolver, error) {
	resp, err := backend.Post[tagBatchResponse](ctx, r.be, backend.PathTagBatch, GetTagObjectsParameters{Tagid: ids})
	if err != nil {
		return nil, err
	}
	out := make([]*tagObjectResolver, 0, len(resp.TagObjs))
	for _, raw := range resp.TagObjs {
		t := &tagObjectResolver{tagCommon: tagCommon{raw: raw}}
		if raw.Category == types.CategoryAuthor {
			author, err := r.fetchAuthor(ctx, raw.ID)
			if err != nil {
				r.logger.Warn("author lookup failed", "tagid", raw.ID, "error", err)
			} else {
				t.author = author
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// GetTagObjects resolves tags by id without author records attached.
func (r *Resolver) GetTagObjects(ctx context.Context, args struct{ Para GetTagObjectsParameters }) ([]*regularTagResolver, error) {
	resp, err := backend.Post[tagBatchResponse](ctx, r.be, backend.PathTagBatch, args.Para)
	if err != nil {
		return nil, err
	}
	out := make([]*regularTagResolver, len(resp.TagObjs))
	for i, raw := range resp.TagObjs {
		out[i] = &regularTagResolver{tagCommon: tagCommon{raw: raw}}
	}
	return out, nil
}

// ListTagObjects browses or searches tags. The argument shape picks the
// endpoint; an empty request is rejected before any backend call.
func (r *Resolver) ListTagObjects(ctx context.Context, args struct{ Para ListTagParameters }) (*listTagsResolver, error) {
	hasQuery := args.Para.Query != nil
	useRegex := args.Para.QueryRegex != nil && *args.Para.QueryRegex
	path, err := backend.ListTagsPath(hasQuery, args.Para.Category != nil, useRegex)
	if err != nil {
		return nil, err
	}
	resp, err := backend.Post[listTagsResponse](ctx, r.be, path, args.Para)
	if err != nil {
		return nil, err
	}
	return &listTagsResolver{r: r, resp: *resp}, nil
}

type listTagsResolver struct {
	r    *Resolver
	resp listTagsResponse
}

func (l *listTagsResolver) Tags(ctx context.Context) ([]*tagObjectResolver, error) {
	out := make([]*tagObjectResolver, 0, len(l.resp.Tags))
	for _, raw := range l.resp.Tags {
		t := &tagObjectResolver{tagCommon: tagCommon{raw: raw}}
		if raw.Category == types.CategoryAuthor {
			author, err := l.r.fetchAuthor(ctx, raw.ID)
			if err != nil {
				l.r.logger.Warn("author lookup failed", "tagid", raw.ID, "error", err)
			} else {
				t.author = author
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (l *listTagsResolver) Count() int32 {
	return l.resp.Count
}

func (l *listTagsResolver) PageCount() int32 {
	return l.resp.PageCount
}

type popularTagsResponse struct {
	TagidsPopmap map[string]int32 `json:"tagids_popmap"`
}

// GetPopularTags resolves the currently most used tags with popularity.
func (r *Resolver) GetPopularTags(ctx context.Context, args struct{ Para GetPopularTagsParameters }) (*popularTagsResolver, error) {
	resp, err := backend.Post[popularTagsResponse](ctx, r.be, backend.PathPopularTags, args.Para)
	if err != nil {
		return nil, err
	}
	return &popularTagsResolver{r: r, resp: *resp}, nil
}

type popularTagsResolver struct {
	r    *Resolver
	resp popularTagsResponse
}

func (p *popularTagsResolver) PopularTags(ctx context.Context) (*[]*tagPopularityResolver, error) {
	if p.resp.TagidsPopmap == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(p.resp.TagidsPopmap))
	for k := range p.resp.TagidsPopmap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ids := make([]int64, 0, len(keys))
	pops := make([]int32, 0, len(keys))
	for _, k := range keys {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		if id >= maxTagID {
			continue
		}
		ids = append(ids, id)
		pops = append(pops, p.resp.TagidsPopmap[k])
	}
	tags, err := p.r.resolveTagBatch(ctx, clampTagIDs(ids))
	if err != nil {
		return nil, err
	}
	out := make([]*tagPopularityResolver, 0, len(tags))
	for i, tag := range tags {
		out = append(out, &tagPopularityResolver{popularity: pops[i], tag: tag})
	}
	return &out, nil
}

type tagPopularityResolver struct {
	popularity int32
	tag        *tagObjectResolver
}

func (t *tagPopularityResolver) Popularity() int32 {
	return t.popularity
}

func (t *tagPopularityResolver) Tag() *tagObjectResolver {
	return t.tag
}

// AddTagParameters creates a tag.
type AddTagParameters struct {
	Tag      string `json:"tag"`
	Category string `json:"category"`
	Language string `json:"language"`
}

// RemoveTagParameters removes a tag.
type RemoveTagParameters struct {
	Tag string `json:"tag"`
}

// RenameTagParameters renames a tag in one language.
type RenameTagParameters struct {
	Tag      string `json:"tag"`
	NewTag   string `json:"new_tag"`
	Language string `json:"language"`
}

// TransferCategoryParameters moves a tag to another category.
type TransferCategoryParameters struct {
	Tag      string `json:"tag"`
	Category string `json:"category"`
}

// AddAliasParameters adds an alias to a tag.
type AddAliasParameters struct {
	Tag    string `json:"tag"`
	NewTag string `json:"new_tag"`
}

// RemoveAliasParameters removes an alias.
type RemoveAliasParameters struct {
	Alias string `json:"alias"`
}

// RenameAliasParameters renames an alias.
type RenameAliasParameters struct {
	Tag    string `json:"tag"`
	NewTag string `json:"new_tag"`
}

// AddTagLanguageParameters adds a language variant to a tag.
type AddTagLanguageParameters struct {
	Tag      string `json:"tag"`
	NewTag   string `json:"new_tag"`
	Language string `json:"language"`
}

// MergeTagParameters merges the source tag into the destination tag.
type MergeTagParameters struct {
	TagDst string `json:"tag_dst"`
	TagSrc string `json:"tag_src"`
}

func (r *Resolver) AddTag(ctx context.Context, args struct{ Para AddTagParameters }) (bool, error) {
	return r.tagMutation(ctx, backend.PathAddTag, args.Para)
}

func (r *Resolver) RemoveTag(ctx context.Context, args struct{ Para RemoveTagParameters }) (bool, error) {
	return r.tagMutation(ctx, backend.PathRemoveTag, args.Para)
}

func (r *Resolver) RenameTag(ctx context.Context, args struct{ Para RenameTagParameters }) (bool, error) {
	return r.tagMutation(ctx, backend.PathRenameTag, args.Para)
}

func (r *Resolver) TransferCategory(ctx context.Context, args struct{ Para TransferCategoryParameters }) (bool, error) {
	return r.tagMutation(ctx, backend.PathTransferCategory, args.Para)
}

func (r *Resolver) AddAlias(ctx context.Context, args struct{ Para AddAliasParameters }) (bool, error) {
	return r.tagMutation(ctx, backend.PathAddAlias, args.Para)
}

func (r *Resolver) RemoveAlias(ctx context.Context, args struct{ Para RemoveAliasParameters }) (bool, error) {
	return r.tagMutation(ctx, backend.PathRemoveAlias, args.Para)
}

func (r *Resolver) RenameAlias(ctx context.Context, args struct{ Para RenameAliasParameters }) (bool, error) {
	return r.tagMutation(ctx, backend.PathRenameAlias, args.Para)
}

func (r *Resolver) AddTagLanguage(ctx context.Context, args struct{ Para AddTagLanguageParameters }) (bool, error) {
	return r.tagMutation(ctx, backend.PathAddTagLanguage, args.Para)
}

func (r *Resolver) MergeTag(ctx context.Context, args struct{ Para MergeTagParameters }) (bool, error) {
	return r.tagMutation(ctx, backend.PathMergeTag, args.Para)
}

func (r *Resolver) tagMutation(ctx context.Context, path string, payload any) (bool, error) {
	if err := backend.PostStatus(ctx, r.be, path, payload); err != nil {
		return false, err
	}
	return true, nil
}
