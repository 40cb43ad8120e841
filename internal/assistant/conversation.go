package assistant

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Greeting opens every conversation.
const Greeting = "Hello! I'm your AI Music Assistant. Ask me about artists, genres, song recommendations, or anything music-related! 🎵"

// Suggestions are the quick questions offered under the chat input.
var Suggestions = []string{
	"Tell me about Atif Aslam",
	"Recommend pop artists",
	"Latest music trends 2024",
	"Who is Taylor Swift?",
	"Best hip hop songs",
	"What is Coke Studio?",
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type Message struct {
	ID     string
	Text   string
	Sender Sender
	At     time.Time
}

// NewMessage stamps text with a fresh ID and the current time.
func NewMessage(sender Sender, text string) Message {
	return Message{ID: uuid.NewString(), Text: text, Sender: sender, At: time.Now()}
}

// Conversation is the append-only message log for one session.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

// NewConversation starts a conversation with the greeting.
func NewConversation() *Conversation {
	return &Conversation{messages: []Message{NewMessage(SenderAI, Greeting)}}
}

func (c *Conversation) Append(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}

// Messages returns a copy in arrival order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}
