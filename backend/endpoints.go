package backend

import "github.com/PatchyVideo/pvgql/errors"

// Fixed endpoint paths, relative to the backend base URL.
const (
	PathGetVideo         = "getvideo.do"
	PathRelatedVideos    = "get_related_videos.do"
	PathPostVideo        = "postvideo.do"
	PathBatchPostVideo   = "postvideo_batch.do"
	PathEditVideoTags    = "videos/edittags.do"
	PathEditVideoTagIDs  = "videos/edittagids.do"
	PathSetClearence     = "videos/set_clearence.do"
	PathRawTagIDLog      = "video/raw_tagid_log.do"
	PathTagBatch         = "tags/get_tag_batch.do"
	PathPopularTags      = "tags/popular_tags.do"
	PathAddTag           = "tags/add_tag.do"
	PathRemoveTag        = "tags/remove_tag.do"
	PathRenameTag        = "tags/rename_tag.do"
	PathTransferCategory = "tags/transfer_category.do"
	PathAddAlias         = "tags/add_alias.do"
	PathRemoveAlias      = "tags/remove_alias.do"
	PathRenameAlias      = "tags/rename_alias.do"
	PathAddTagLanguage   = "tags/add_tag_language.do"
	PathMergeTag         = "tags/merge_tag.do"
	PathPlaylistMeta     = "lists/get_playlist_metadata.do"
	PathPlaylistContent  = "lists/get_playlist.do"
	PathUserProfile      = "user/profile.do"
	PathWhoami           = "user/whoami"
	PathAuthorRecord     = "authors/get_record_raw.do"
	PathAuthorAssociate  = "authors/associate_with_pv_user.do"
	PathAuthorDissociate = "authors/disassociate_with_pv_user.do"
	PathCommentThread    = "comments/view.do"
	PathSubsAll          = "subs/all.do"
	PathSubsList         = "subs/list.do"
	PathSubsRandomized   = "subs/list_randomized.do"
	PathStats            = "stats.do"
	PathTagContributors  = "ranking/tag_contributor.do"
)

// ListVideosPath selects the video listing endpoint: a search query routes
// to the query engine, no query routes to the plain listing.
func ListVideosPath(hasQuery bool) string {
	if hasQuery {
		return "queryvideo.do"
	}
	return "listvideo.do"
}

// ListTagsPath selects the tag listing endpoint from the argument shape.
// A category with no query browses that category; a query selects regex or
// wildcard matching; neither is an invalid request and must not reach the
// backend at all.
func ListTagsPath(hasQuery, hasCategory, useRegex bool) (string, error) {
	switch {
	case !hasQuery && hasCategory:
		return "tags/query_tags.do", nil
	case hasQuery && useRegex:
		return "tags/query_tags_regex.do", nil
	case hasQuery:
		return "tags/query_tags_wildcard.do", nil
	default:
		return "", errors.NewInvalid("at least one of query or category must be set")
	}
}

// ListPlaylistsPath selects the playlist listing endpoint.
func ListPlaylistsPath(hasQuery bool) string {
	if hasQuery {
		return "lists/search.do"
	}
	return "lists/all.do"
}

// RatingTotalPath selects the rating endpoint. A playlist id takes
// precedence over a video id; neither is an invalid request.
func RatingTotalPath(hasPlaylist, hasVideo bool) (string, error) {
	switch {
	case hasPlaylist:
		return "rating/get_playlist_total.do", nil
	case hasVideo:
		return "rating/get_video_total.do", nil
	default:
		return "", errors.NewInvalid("at least one of pid or vid must be set")
	}
}

// ListNotificationsPath selects between all and unread-only listing.
func ListNotificationsPath(listAll bool) string {
	if listAll {
		return "notes/list_all.do"
	}
	return "notes/list_unread.do"
}

// PostCommentPath selects the comment creation endpoint by target type and
// content-filter flag.
func PostCommentPath(toPlaylist, filtered bool) string {
	switch {
	case toPlaylist && filtered:
		return "comments/add_to_playlist.do"
	case toPlaylist:
		return "comments/add_to_playlist_unfiltered.do"
	case filtered:
		return "comments/add_to_video.do"
	default:
		return "comments/add_to_video_unfiltered.do"
	}
}

// PostReplyPath selects the reply endpoint by content-filter flag.
func PostReplyPath(filtered bool) string {
	if filtered {
		return "comments/reply.do"
	}
	return "comments/reply_unfiltered.do"
}

// EditCommentPath selects the comment edit endpoint by content-filter flag.
func EditCommentPath(filtered bool) string {
	if filtered {
		return "comments/edit.do"
	}
	return "comments/edit_unfiltered.do"
}

// Comment moderation operations.
const (
	CommentOpDelete = "DELETE"
	CommentOpHide   = "HIDE"
	CommentOpPin    = "PIN"
	CommentOpUnpin  = "UNPIN"
)

// ModerateCommentPath maps a moderation operation onto its endpoint. Pin
// and unpin share an endpoint; the payload flag distinguishes them.
func ModerateCommentPath(op string) (string, error) {
	switch op {
	case CommentOpDelete:
		return "comments/del.do", nil
	case CommentOpHide:
		return "comments/hide.do", nil
	case CommentOpPin, CommentOpUnpin:
		return "comments/pin.do", nil
	default:
		return "", errors.NewInvalid("unknown comment operation %q", op)
	}
}
