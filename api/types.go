package api

import "fmt"

// Message roles used by the backend.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Room represents a chat room owned by the backend.
type Room struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreatedAt     int64  `json:"createdAt"`
	LastMessageAt int64  `json:"lastMessageAt"`
}

// Message represents a persisted chat message.
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is the assistant response returned by the send-message endpoint.
// The backend returns the full reply in one piece; there is no token stream.
type Reply struct {
	Content string `json:"content"`
}

// Attachment is an optional file sent alongside a message.
type Attachment struct {
	Name    string
	Content []byte
}

func (r *Room) validate() error {
	if r.ID == "" {
		return fmt.Errorf("room is missing an id")
	}
	return nil
}

func (m *Message) validate() error {
	if m.ID == "" {
		return fmt.Errorf("message is missing an id")
	}
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return fmt.Errorf("message %s has unknown role %q", m.ID, m.Role)
	}
	return nil
}
