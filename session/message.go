package session

import (
	"campusgpt/api"
)

// MessageStatus tracks an optimistic message against backend confirmation.
type MessageStatus string

const (
	// StatusPending marks a user message whose send is still in flight.
	StatusPending MessageStatus = "pending"
	// StatusConfirmed marks a message the backend has accepted or produced.
	StatusConfirmed MessageStatus = "confirmed"
	// StatusFailed marks an optimistic user message whose send failed. It
	// stays in the sequence and can be retried.
	StatusFailed MessageStatus = "failed"
)

// Message is one entry of the active room's sequence. Content is mutable
// only for assistant messages while Revealing is true.
type Message struct {
	ID        string
	Role      string
	Content   string
	Revealing bool
	Status    MessageStatus
	Err       error
}

func fromAPI(messages []*api.Message) []*Message {
	out := make([]*Message, 0, len(messages))
	for _, message := range messages {
		out = append(out, &Message{
			ID:      message.ID,
			Role:    message.Role,
			Content: message.Content,
			Status:  StatusConfirmed,
		})
	}
	return out
}

// toAPI converts the confirmed, fully revealed part of a sequence back into
// wire messages for the local cache. Pending and failed entries are local
// artifacts and are not persisted.
func toAPI(messages []*Message) []*api.Message {
	out := make([]*api.Message, 0, len(messages))
	for _, message := range messages {
		if message.Status != StatusConfirmed || message.Revealing {
			continue
		}
		out = append(out, &api.Message{
			ID:      message.ID,
			Role:    message.Role,
			Content: message.Content,
		})
	}
	return out
}
