package resolvers

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/types"
)

type rawComment struct {
	ID        types.ObjectID  `json:"_id"`
	Thread    *types.ObjectID `json:"thread"`
	Content   *string         `json:"content"`
	Parent    *types.ObjectID `json:"parent"`
	Children  []rawComment    `json:"children"`
	Hidden    bool            `json:"hidden"`
	Deleted   bool            `json:"deleted"`
	Pinned    bool            `json:"pinned"`
	Upvotes   int32           `json:"upvotes"`
	Downvotes int32           `json:"downvotes"`
	Meta      types.Meta      `json:"meta"`
	Edited    *bool           `json:"edited"`
}

type rawThread struct {
	ID       types.ObjectID `json:"_id"`
	Count    int32          `json:"count"`
	Owner    types.ObjectID `json:"owner"`
	ObjType  string         `json:"obj_type"`
	Comments []rawComment   `json:"comments"`
}

type getThreadResponse struct {
	Comments []rawComment `json:"comments"`
	Thread   rawThread    `json:"thread"`
}

// GetThreadParameters identifies a comment thread.
type GetThreadParameters struct {
	ThreadID string `json:"thread_id"`
}

// CommentType distinguishes comment targets.
const (
	CommentTypeVideo    = "VIDEO"
	CommentTypePlaylist = "PLAYLIST"
)

// PostCommentParameters creates a comment on a video or playlist.
type PostCommentParameters struct {
	TargetID    string `json:"-"`
	CommentType string `json:"-"`
	Filter      bool   `json:"-"`
	Content     string `json:"-"`
}

// PostReplyParameters replies to an existing comment.
type PostReplyParameters struct {
	ReplyTo string `json:"reply_to"`
	Filter  bool   `json:"-"`
	Text    string `json:"text"`
}

// EditCommentParameters rewrites a comment's content.
type EditCommentParameters struct {
	Cid    string `json:"cid"`
	Filter bool   `json:"-"`
	Text   string `json:"text"`
}

// EditCommentStateParameters applies a moderation operation to a comment.
type EditCommentStateParameters struct {
	Cid string
	Op  string
}

// GetThread resolves a thread with its comments attached.
func (r *Resolver) GetThread(ctx context.Context, args struct{ Para GetThreadParameters }) (*threadResolver, error) {
	return r.fetchThread(ctx, args.Para.ThreadID)
}

func (r *Resolver) fetchThread(ctx context.Context, threadID string) (*threadResolver, error) {
	resp, err := backend.Post[getThreadResponse](ctx, r.be, backend.PathCommentThread, GetThreadParameters{ThreadID: threadID})
	if err != nil {
		return nil, err
	}
	t := resp.Thread
	t.Comments = resp.Comments
	return &threadResolver{r: r, t: t, loaded: true}, nil
}

// PostComment creates a comment. Target type and filter flag select the
// backend endpoint.
func (r *Resolver) PostComment(ctx context.Context, args struct{ Para PostCommentParameters }) (*postCommentResolver, error) {
	para := args.Para
	path := backend.PostCommentPath(para.CommentType == CommentTypePlaylist, para.Filter)
	payload := map[string]string{
		"vid":  para.TargetID,
		"text": para.Content,
	}
	resp, err := backend.Post[postCommentResponse](ctx, r.be, path, payload)
	if err != nil {
		return nil, err
	}
	return &postCommentResolver{r: r, resp: *resp}, nil
}

// PostReply replies to a comment.
func (r *Resolver) PostReply(ctx context.Context, args struct{ Para PostReplyParameters }) (bool, error) {
	err := backend.PostStatus(ctx, r.be, backend.PostReplyPath(args.Para.Filter), args.Para)
	if err != nil {
		return false, err
	}
	return true, nil
}

// EditComment rewrites a comment's content.
func (r *Resolver) EditComment(ctx context.Context, args struct{ Para EditCommentParameters }) (bool, error) {
	err := backend.PostStatus(ctx, r.be, backend.EditCommentPath(args.Para.Filter), args.Para)
	if err != nil {
		return false, err
	}
	return true, nil
}

// EditCommentState dispatches one moderation operation. All operations
// share a call path; pin and unpin differ only in the payload flag.
func (r *Resolver) EditCommentState(ctx context.Context, args struct{ Para EditCommentStateParameters }) (bool, error) {
	path, err := backend.ModerateCommentPath(args.Para.Op)
	if err != nil {
		return false, err
	}
	payload := map[string]any{"cid": args.Para.Cid}
	switch args.Para.Op {
	case backend.CommentOpPin:
		payload["pinned"] = true
	case backend.CommentOpUnpin:
		payload["pinned"] = false
	}
	if err := backend.PostStatus(ctx, r.be, path, payload); err != nil {
		return false, err
	}
	return true, nil
}

type postCommentResponse struct {
	ThreadID string `json:"thread_id"`
	Cid      string `json:"cid"`
}

type postCommentResolver struct {
	r    *Resolver
	resp postCommentResponse
}

func (p *postCommentResolver) CommentID() graphql.ID {
	return graphql.ID(p.resp.Cid)
}

func (p *postCommentResolver) Thread(ctx context.Context) (*threadResolver, error) {
	return p.r.fetchThread(ctx, p.resp.ThreadID)
}

type threadResolver struct {
	r *Resolver
	t rawThread
	// loaded marks threads fetched with comments attached; embedded
	// thread references start unloaded and refetch on demand.
	loaded bool
}

func (t *threadResolver) ID() graphql.ID {
	return oid(t.t.ID)
}

// Count includes hidden and deleted comments but not replies.
func (t *threadResolver) Count() int32 {
	return t.t.Count
}

// Owner is whoever created the commented object.
func (t *threadResolver) Owner(ctx context.Context) (*userResolver, error) {
	return t.r.fetchUser(ctx, t.t.Owner.String())
}

// ThreadType is one of video, playlist, user, forum.
func (t *threadResolver) ThreadType() string {
	return t.t.ObjType
}

func (t *threadResolver) Comments(ctx context.Context) (*[]*commentResolver, error) {
	if !t.loaded {
		full, err := t.r.fetchThread(ctx, t.t.ID.String())
		if err != nil {
			return nil, err
		}
		t.t.Comments = full.t.Comments
		t.loaded = true
	}
	if t.t.Comments == nil {
		return nil, nil
	}
	out := t.r.commentResolvers(t.t.Comments)
	return &out, nil
}

func (r *Resolver) commentResolvers(comments []rawComment) []*commentResolver {
	out := make([]*commentResolver, len(comments))
	for i := range comments {
		out[i] = &commentResolver{r: r, c: comments[i]}
	}
	return out
}

type commentResolver struct {
	r *Resolver
	c rawComment
}

func (c *commentResolver) ID() graphql.ID {
	return oid(c.c.ID)
}

func (c *commentResolver) Thread(ctx context.Context) (*threadResolver, error) {
	if c.c.Thread == nil {
		return nil, nil
	}
	return c.r.fetchThread(ctx, c.c.Thread.String())
}

// Content is null for deleted comments and empty strings.
func (c *commentResolver) Content() *string {
	if c.c.Content == nil || *c.c.Content == "" {
		return nil
	}
	return c.c.Content
}

func (c *commentResolver) Parent() *graphql.ID {
	return oidPtr(c.c.Parent)
}

// Children returns direct replies as received, null when there are none.
func (c *commentResolver) Children() *[]*commentResolver {
	if len(c.c.Children) == 0 {
		return nil
	}
	out := c.r.commentResolvers(c.c.Children)
	return &out
}

func (c *commentResolver) Hidden() bool {
	return c.c.Hidden
}

func (c *commentResolver) Deleted() bool {
	return c.c.Deleted
}

func (c *commentResolver) Pinned() bool {
	return c.c.Pinned
}

func (c *commentResolver) Upvotes() int32 {
	return c.c.Upvotes
}

func (c *commentResolver) Downvotes() int32 {
	return c.c.Downvotes
}

func (c *commentResolver) Edited() bool {
	return c.c.Edited != nil && *c.c.Edited
}

func (c *commentResolver) Meta() *metaResolver {
	return &metaResolver{m: c.c.Meta}
}
