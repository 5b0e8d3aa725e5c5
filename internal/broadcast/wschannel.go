package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local dashboard, no cross-origin concerns
	},
}

// Hub fans broadcast announcements out to every connected dashboard
// websocket client.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.Mutex
}

// NewHub returns an unstarted Hub; call Run in its own goroutine to begin
// draining the broadcast channel.
func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Run drains broadcast messages to every connected client until the hub's
// channel is closed. Call it in its own goroutine.
func (h *Hub) Run() {
	for message := range h.broadcast {
		h.mutex.Lock()
		for client := range h.clients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("broadcast: websocket write error: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe upgrades an incoming request to a websocket connection and adds
// it to the fan-out set.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("broadcast: failed to upgrade websocket: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()

	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Send pushes raw JSON bytes to every connected client.
func (h *Hub) Send(data []byte) {
	h.broadcast <- data
}

// localValidatorAuthor is the author id LocalChannel stamps on posts made
// through the Channel interface (i.e. by the validator itself). Inbound
// replies recorded via RecordReply carry whatever author the dashboard
// submission supplied.
const localValidatorAuthor = "validator"

// LocalChannel is a Channel backed by an in-process Hub: posting broadcasts
// the announcement to every connected dashboard client and records it for
// reply lookups, with no external network dependency. It is the backend
// wired by cmd/validator when no external social integration is configured.
type LocalChannel struct {
	hub *Hub

	mutex   sync.Mutex
	order   []string // post ids, oldest first, for LatestPost scans
	posts   map[string]Post
	replies map[string][]Post
}

// NewLocalChannel returns a LocalChannel broadcasting through hub.
func NewLocalChannel(hub *Hub) *LocalChannel {
	return &LocalChannel{
		hub:     hub,
		posts:   make(map[string]Post),
		replies: make(map[string][]Post),
	}
}

type wsEnvelope struct {
	Type string `json:"type"`
	Post Post   `json:"post"`
}

func (c *LocalChannel) broadcastPost(p Post) {
	payload, err := json.Marshal(wsEnvelope{Type: "post", Post: p})
	if err != nil {
		return
	}
	c.hub.Send(payload)
}

func (c *LocalChannel) store(text, parentID, imagePath string) Post {
	p := Post{
		ID:        uuid.NewString(),
		Text:      text,
		AuthorID:  localValidatorAuthor,
		ParentID:  parentID,
		ImagePath: imagePath,
		CreatedAt: time.Now().UTC(),
	}
	p.URL = "local://posts/" + p.ID

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if parentID != "" {
		parent, ok := c.posts[parentID]
		if !ok {
			return Post{}
		}
		p.ConversationID = parent.ConversationID
		c.replies[parentID] = append(c.replies[parentID], p)
	} else {
		p.ConversationID = p.ID
	}
	c.posts[p.ID] = p
	c.order = append(c.order, p.ID)
	return p
}

func (c *LocalChannel) Post(ctx context.Context, text string) (Post, error) {
	p := c.store(text, "", "")
	c.broadcastPost(p)
	return p, nil
}

func (c *LocalChannel) Reply(ctx context.Context, text, parentID string) (Post, error) {
	p := c.store(text, parentID, "")
	if p.ID == "" {
		return Post{}, ErrNoSuchPost
	}
	c.broadcastPost(p)
	return p, nil
}

func (c *LocalChannel) PostWithImage(ctx context.Context, text, imagePath string) (Post, error) {
	p := c.store(text, "", imagePath)
	c.broadcastPost(p)
	return p, nil
}

func (c *LocalChannel) ReplyWithImage(ctx context.Context, text, parentID, imagePath string) (Post, error) {
	p := c.store(text, parentID, imagePath)
	if p.ID == "" {
		return Post{}, ErrNoSuchPost
	}
	c.broadcastPost(p)
	return p, nil
}

// LatestPost scans newest-first for the author's most recent post.
func (c *LocalChannel) LatestPost(ctx context.Context, authorID string, excludeReplies bool) (Post, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for i := len(c.order) - 1; i >= 0; i-- {
		p := c.posts[c.order[i]]
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

// SearchReplies pages through every reply in postID's conversation, replies
// to replies included, maxPerPage at a time, and returns them all oldest
// first. A real deployment would
// follow an external API's pagination cursors; the local backend walks its
// own reply list with the same page discipline so callers exercise the
// identical contract.
func (c *LocalChannel) SearchReplies(ctx context.Context, postID string, maxPerPage int) ([]Post, error) {
	if maxPerPage <= 0 {
		return nil, ErrInvalidInput
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	target, ok := c.posts[postID]
	if !ok {
		return nil, ErrNoSuchPost
	}

	var all []Post
	for _, id := range c.order {
		p := c.posts[id]
		if p.IsReply() && p.ID != postID && p.ConversationID == target.ConversationID {
			all = append(all, p)
		}
	}
	out := make([]Post, 0, len(all))
	for cursor := 0; cursor < len(all); cursor += maxPerPage {
		end := cursor + maxPerPage
		if end > len(all) {
			end = len(all)
		}
		out = append(out, all[cursor:end]...)
	}
	return out, nil
}

// RecordReply stores an inbound reply from authorID against its parent post
// so a later SearchReplies call can return it. Used by the broadcast test
// backend's reply endpoint (POST /api/v1/broadcast/:id/reply), standing in
// for the replies a live social network would collect from miners.
func (c *LocalChannel) RecordReply(parentID, authorID, text string) (Post, error) {
	p := Post{
		ID:        uuid.NewString(),
		Text:      text,
		AuthorID:  authorID,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
	p.URL = "local://posts/" + p.ID

	c.mutex.Lock()
	defer c.mutex.Unlock()
	parent, ok := c.posts[parentID]
	if !ok {
		return Post{}, ErrNoSuchPost
	}
	p.ConversationID = parent.ConversationID
	c.posts[p.ID] = p
	c.order = append(c.order, p.ID)
	c.replies[parentID] = append(c.replies[parentID], p)
	return p, nil
}
