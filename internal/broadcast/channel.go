// Package broadcast defines the external social/announcement channel the
// block lifecycle posts to, and the reveal-parsing glue that reads replies
// back out of it.
package broadcast

import (
	"context"
	"time"
)

// Post is one message placed on the channel, with an id that replies and
// parent lookups can reference.
type Post struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	AuthorID       string    `json:"authorId,omitempty"`
	ParentID       string    `json:"parentId,omitempty"`
	ConversationID string    `json:"conversationId,omitempty"`
	ImagePath      string    `json:"imagePath,omitempty"`
	URL            string    `json:"url,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsReply reports whether the post was made in reply to another post.
func (p Post) IsReply() bool {
	return p.ParentID != ""
}

// Channel is the surface the block state machine needs from a
// social-posting backend: announce plain text or an image (reveals post the
// target frame as a reply to the original announcement), look up the
// validator's latest post after a restart, and page through the replies to
// an announcement for commitment and reveal collection. State transitions
// only commit once the relevant call succeeds, so a channel outage blocks
// progress rather than silently skipping the announcement.
type Channel interface {
	Post(ctx context.Context, text string) (Post, error)
	Reply(ctx context.Context, text, parentID string) (Post, error)
	PostWithImage(ctx context.Context, text, imagePath string) (Post, error)
	ReplyWithImage(ctx context.Context, text, parentID, imagePath string) (Post, error)
	// LatestPost returns the author's most recent post, or ErrNoSuchPost if
	// they have none. With excludeReplies set, reply posts are skipped.
	LatestPost(ctx context.Context, authorID string, excludeReplies bool) (Post, error)
	// SearchReplies pages through every reply in postID's conversation,
	// maxPerPage at a time, handling pagination cursors internally. It
	// returns the full set or fails; a partial page is never returned.
	SearchReplies(ctx context.Context, postID string, maxPerPage int) ([]Post, error)
}
