package resolvers

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
)

// ServerDate reports the gateway's current time.
func (r *Resolver) ServerDate() graphql.Time {
	return graphql.Time{Time: time.Now().UTC()}
}

// PostVideoParameters submits one video for scraping.
type PostVideoParameters struct {
	URL               string   `json:"url"`
	Tags              []string `json:"tags"`
	Copy              *string  `json:"copy,omitempty"`
	Pid               *string  `json:"pid,omitempty"`
	Rank              *int32   `json:"rank,omitempty"`
	RepostType        *string  `json:"repost_type,omitempty"`
	TagMergeBehaviour *string  `json:"tag_merge_behaviour,omitempty"`
}

// BatchPostVideoParameters submits several videos at once.
type BatchPostVideoParameters struct {
	Videos     []string `json:"videos"`
	Tags       []string `json:"tags"`
	Copy       *string  `json:"copy,omitempty"`
	Pid        *string  `json:"pid,omitempty"`
	Rank       *int32   `json:"rank,omitempty"`
	RepostType *string  `json:"repost_type,omitempty"`
	AsCopies   *bool    `json:"as_copies,omitempty"`
}

// EditVideoTagsParameters edits a video's tags by name.
type EditVideoTagsParameters struct {
	VideoID           string   `json:"video_id"`
	Tags              []string `json:"tags"`
	EditBehaviour     string   `json:"edit_behaviour"`
	NotFoundBehaviour *string  `json:"not_found_behaviour,omitempty"`
	UserLanguage      *string  `json:"user_language,omitempty"`
}

// EditVideoTagIDsParameters edits a video's tags by id.
type EditVideoTagIDsParameters struct {
	VideoID           string  `json:"video_id"`
	Tags              []int32 `json:"tags"`
	EditBehaviour     string  `json:"edit_behaviour"`
	NotFoundBehaviour *string `json:"not_found_behaviour,omitempty"`
	UserLanguage      *string `json:"user_language,omitempty"`
}

// SetVideoClearenceParameters changes a video's access tier.
type SetVideoClearenceParameters struct {
	Vid       string `json:"vid"`
	Clearence *int32 `json:"clearence,omitempty"`
}

type postVideoResponse struct {
	TaskID string `json:"task_id"`
}

type batchPostVideoResponse struct {
	TaskIDs string `json:"task_ids"`
}

type editVideoTagsResponse struct {
	TagIDs []int32 `json:"tagids"`
}

type setVideoClearenceResponse struct {
	Clearence int32 `json:"clearence"`
}

// PostVideo submits one video; the backend's structured error reason and
// aux payload surface unchanged when it rejects the submission.
func (r *Resolver) PostVideo(ctx context.Context, args struct{ Para PostVideoParameters }) (*postVideoResolver, error) {
	resp, err := backend.Post[postVideoResponse](ctx, r.be, backend.PathPostVideo, args.Para)
	if err != nil {
		return nil, err
	}
	return &postVideoResolver{taskID: resp.TaskID}, nil
}

// BatchPostVideo submits several videos as one scraping task.
func (r *Resolver) BatchPostVideo(ctx context.Context, args struct{ Para BatchPostVideoParameters }) (*batchPostVideoResolver, error) {
	resp, err := backend.Post[batchPostVideoResponse](ctx, r.be, backend.PathBatchPostVideo, args.Para)
	if err != nil {
		return nil, err
	}
	return &batchPostVideoResolver{taskIDs: resp.TaskIDs}, nil
}

type postVideoResolver struct {
	taskID string
}

func (p *postVideoResolver) TaskID() string {
	return p.taskID
}

type batchPostVideoResolver struct {
	taskIDs string
}

func (p *batchPostVideoResolver) TaskIDs() string {
	return p.taskIDs
}

// EditVideoTags edits a video's tags by name and resolves the resulting
// tag list.
func (r *Resolver) EditVideoTags(ctx context.Context, args struct{ Para EditVideoTagsParameters }) ([]*tagObjectResolver, error) {
	resp, err := backend.Post[editVideoTagsResponse](ctx, r.be, backend.PathEditVideoTags, args.Para)
	if err != nil {
		return nil, err
	}
	return r.resolveTagBatch(ctx, resp.TagIDs)
}

// EditVideoTagIds edits a video's tags by id and resolves the resulting
// tag list.
func (r *Resolver) EditVideoTagIds(ctx context.Context, args struct{ Para EditVideoTagIDsParameters }) ([]*tagObjectResolver, error) {
	resp, err := backend.Post[editVideoTagsResponse](ctx, r.be, backend.PathEditVideoTagIDs, args.Para)
	if err != nil {
		return nil, err
	}
	return r.resolveTagBatch(ctx, resp.TagIDs)
}

// SetVideoClearence changes a video's access tier and returns the new one.
func (r *Resolver) SetVideoClearence(ctx context.Context, args struct{ Para SetVideoClearenceParameters }) (int32, error) {
	resp, err := backend.Post[setVideoClearenceResponse](ctx, r.be, backend.PathSetClearence, args.Para)
	if err != nil {
		return 0, err
	}
	return resp.Clearence, nil
}
