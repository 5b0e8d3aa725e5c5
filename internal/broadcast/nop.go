package broadcast

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// nopAuthor is the author id NopChannel stamps on every post it accepts.
const nopAuthor = "validator"

// NopChannel accepts every post and remembers it in memory, with no replies
// ever returned unless recorded explicitly. It is the default channel for
// tests and local runs that don't need a live dashboard.
type NopChannel struct {
	posts   []Post
	replies map[string][]Post
}

// NewNopChannel returns an empty NopChannel.
func NewNopChannel() *NopChannel {
	return &NopChannel{replies: make(map[string][]Post)}
}

func (n *NopChannel) record(text, parentID, imagePath string) Post {
	p := Post{
		ID:        uuid.NewString(),
		Text:      text,
		AuthorID:  nopAuthor,
		ParentID:  parentID,
		ImagePath: imagePath,
		CreatedAt: time.Now().UTC(),
	}
	if parentID != "" {
		p.ConversationID = parentID
		for _, q := range n.posts {
			if q.ID == parentID {
				p.ConversationID = q.ConversationID
			}
		}
		n.replies[parentID] = append(n.replies[parentID], p)
	} else {
		p.ConversationID = p.ID
	}
	n.posts = append(n.posts, p)
	return p
}

func (n *NopChannel) Post(ctx context.Context, text string) (Post, error) {
	return n.record(text, "", ""), nil
}

func (n *NopChannel) Reply(ctx context.Context, text, parentID string) (Post, error) {
	return n.record(text, parentID, ""), nil
}

func (n *NopChannel) PostWithImage(ctx context.Context, text, imagePath string) (Post, error) {
	return n.record(text, "", imagePath), nil
}

func (n *NopChannel) ReplyWithImage(ctx context.Context, text, parentID, imagePath string) (Post, error) {
	return n.record(text, parentID, imagePath), nil
}

func (n *NopChannel) LatestPost(ctx context.Context, authorID string, excludeReplies bool) (Post, error) {
	for i := len(n.posts) - 1; i >= 0; i-- {
		p := n.posts[i]
		if p.AuthorID != authorID {
			continue
		}
		if excludeReplies && p.IsReply() {
			continue
		}
		return p, nil
	}
	return Post{}, ErrNoSuchPost
}

func (n *NopChannel) SearchReplies(ctx context.Context, postID string, maxPerPage int) ([]Post, error) {
	conversationID := postID
	for _, p := range n.posts {
		if p.ID == postID {
			conversationID = p.ConversationID
		}
	}
	var out []Post
	for _, p := range n.posts {
		if p.IsReply() && p.ID != postID && p.ConversationID == conversationID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Posts returns every post recorded so far, oldest first.
func (n *NopChannel) Posts() []Post {
	return n.posts
}
