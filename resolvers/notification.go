package resolvers

import (
	"context"
	"encoding/json"
	"sort"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/errors"
	"github.com/PatchyVideo/pvgql/types"
)

// Notification type discriminants on the wire.
const (
	noteTypeReply  = "comment_reply"
	noteTypeSystem = "system_message"
)

// rawNotification keeps the fields every notification carries plus an open
// extras map for the variant payloads.
type rawNotification struct {
	ID     types.ObjectID
	Type   string
	Time   types.Time
	Read   bool
	To     types.ObjectID
	Extras map[string]json.RawMessage
}

func (n *rawNotification) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	known := map[string]any{
		"_id":  &n.ID,
		"type": &n.Type,
		"time": &n.Time,
		"read": &n.Read,
		"to":   &n.To,
	}
	n.Extras = make(map[string]json.RawMessage)
	for k, v := range fields {
		if dst, ok := known[k]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return err
			}
			continue
		}
		n.Extras[k] = v
	}
	return nil
}

func (n *rawNotification) extraString(path, key string) (string, error) {
	raw, ok := n.Extras[key]
	if !ok {
		return "", errors.NewMalformed(path, "notification %s missing field %q", n.ID, key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.NewMalformed(path, "notification %s field %q is not a string", n.ID, key)
	}
	return s, nil
}

// extraOptionalString returns nil for an absent key; a key that is present
// but not a string is still a contract violation.
func (n *rawNotification) extraOptionalString(path, key string) (*string, error) {
	if _, ok := n.Extras[key]; !ok {
		return nil, nil
	}
	s, err := n.extraString(path, key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (n *rawNotification) extraOID(path, key string) (types.ObjectID, error) {
	raw, ok := n.Extras[key]
	if !ok {
		return "", errors.NewMalformed(path, "notification %s missing field %q", n.ID, key)
	}
	id, err := types.ParseObjectID(raw)
	if err != nil {
		return "", errors.NewMalformed(path, "notification %s field %q is not an object id", n.ID, key)
	}
	return id, nil
}

type listNotificationResponse struct {
	Notes []rawNotification `json:"notes"`
}

// ListNotificationParameters pages through notifications.
type ListNotificationParameters struct {
	Offset  *int32 `json:"offset,omitempty"`
	Limit   *int32 `json:"limit,omitempty"`
	ListAll *bool  `json:"list_all,omitempty"`
}

// ListNotifications lists the caller's notifications, unread only unless
// listAll is set.
func (r *Resolver) ListNotifications(ctx context.Context, args struct{ Para ListNotificationParameters }) ([]*notificationResolver, error) {
	listAll := args.Para.ListAll != nil && *args.Para.ListAll
	path := backend.ListNotificationsPath(listAll)
	resp, err := backend.Post[listNotificationResponse](ctx, r.be, path, args.Para)
	if err != nil {
		return nil, err
	}
	out := make([]*notificationResolver, 0, len(resp.Notes))
	for _, note := range resp.Notes {
		nr, err := r.classifyNotification(ctx, path, note)
		if err != nil {
			return nil, err
		}
		out = append(out, nr)
	}
	return out, nil
}

// classifyNotification picks the variant from the wire type field. Reply
// notifications resolve the replying user here, so each costs exactly one
// user fetch however many fields are later selected.
func (r *Resolver) classifyNotification(ctx context.Context, path string, note rawNotification) (*notificationResolver, error) {
	nr := &notificationResolver{n: note}
	switch note.Type {
	case noteTypeReply:
		content, err := note.extraString(path, "content")
		if err != nil {
			return nil, err
		}
		cid, err := note.extraOID(path, "cid")
		if err != nil {
			return nil, err
		}
		repliedBy, err := note.extraOID(path, "replied_by")
		if err != nil {
			return nil, err
		}
		repliedType, err := note.extraString(path, "replied_type")
		if err != nil {
			return nil, err
		}
		repliedObj, err := note.extraOID(path, "replied_obj")
		if err != nil {
			return nil, err
		}
		user, err := r.fetchUser(ctx, repliedBy.String())
		if err != nil {
			return nil, err
		}
		nr.reply = &replyNotificationResolver{
			notificationResolver: nr,
			content:              content,
			cid:                  cid,
			repliedBy:            user,
			repliedType:          repliedType,
			repliedObj:           repliedObj,
		}
	case noteTypeSystem:
		content, err := note.extraString(path, "content")
		if err != nil {
			return nil, err
		}
		title, err := note.extraString(path, "title")
		if err != nil {
			return nil, err
		}
		sys := &systemNotificationResolver{
			notificationResolver: nr,
			content:              content,
			title:                title,
		}
		link, err := note.extraOptionalString(path, "related_link")
		if err != nil {
			return nil, err
		}
		sys.relatedLink = link
		nr.system = sys
	}
	return nr, nil
}

// notificationResolver resolves the NotificationObject interface.
type notificationResolver struct {
	n      rawNotification
	reply  *replyNotificationResolver
	system *systemNotificationResolver
}

func (n *notificationResolver) ID() graphql.ID {
	return oid(n.n.ID)
}

func (n *notificationResolver) Type() string {
	return n.n.Type
}

func (n *notificationResolver) Time() graphql.Time {
	return gqlTime(n.n.Time)
}

// Read reports whether this notification has been read.
func (n *notificationResolver) Read() bool {
	return n.n.Read
}

func (n *notificationResolver) ToBaseNotification() (*baseNotificationResolver, bool) {
	if n.reply != nil || n.system != nil {
		return nil, false
	}
	return &baseNotificationResolver{notificationResolver: n}, true
}

func (n *notificationResolver) ToReplyNotification() (*replyNotificationResolver, bool) {
	return n.reply, n.reply != nil
}

func (n *notificationResolver) ToSystemNotification() (*systemNotificationResolver, bool) {
	return n.system, n.system != nil
}

type baseNotificationResolver struct {
	*notificationResolver
}

type replyNotificationResolver struct {
	*notificationResolver
	content     string
	cid         types.ObjectID
	repliedBy   *userResolver
	repliedType string
	repliedObj  types.ObjectID
}

func (n *replyNotificationResolver) Content() string {
	return n.content
}

// Cid is the replying comment's id.
func (n *replyNotificationResolver) Cid() graphql.ID {
	return oid(n.cid)
}

func (n *replyNotificationResolver) RepliedBy() *userResolver {
	return n.repliedBy
}

// RepliedType is one of forum, video, playlist.
func (n *replyNotificationResolver) RepliedType() string {
	return n.repliedType
}

func (n *replyNotificationResolver) RepliedObj() graphql.ID {
	return oid(n.repliedObj)
}

type systemNotificationResolver struct {
	*notificationResolver
	title       string
	content     string
	relatedLink *string
}

func (n *systemNotificationResolver) Title() string {
	return n.title
}

func (n *systemNotificationResolver) Content() string {
	return n.content
}

func (n *systemNotificationResolver) RelatedLink() *string {
	return n.relatedLink
}

// ListUnreadNotificationCounts reports how many unread notifications the
// caller has per notification type. Types with no unread entries are
// absent from the result.
func (r *Resolver) ListUnreadNotificationCounts(ctx context.Context) ([]*notificationCountResolver, error) {
	resp, err := backend.Post[listNotificationResponse](ctx, r.be, backend.ListNotificationsPath(false), struct{}{})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int32)
	for _, note := range resp.Notes {
		counts[note.Type]++
	}
	noteTypes := make([]string, 0, len(counts))
	for t := range counts {
		noteTypes = append(noteTypes, t)
	}
	sort.Strings(noteTypes)
	out := make([]*notificationCountResolver, len(noteTypes))
	for i, t := range noteTypes {
		out[i] = &notificationCountResolver{noteType: t, count: counts[t]}
	}
	return out, nil
}

type notificationCountResolver struct {
	noteType string
	count    int32
}

func (n *notificationCountResolver) Type() string {
	return n.noteType
}

func (n *notificationCountResolver) Count() int32 {
	return n.count
}
