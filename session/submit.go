package session

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"campusgpt/api"
)

// SubmitUserMessage appends the user's text optimistically, performs the
// network round trip and hands the reply to the reveal animation. It blocks
// until the network call settles; run it off the UI loop. Blank input and a
// submission while another is awaiting are rejected as no-ops.
//
// The returned id identifies the optimistic message; accepted is false when
// the submission was rejected.
func (s *Store) SubmitUserMessage(ctx context.Context, text string, attachment *api.Attachment) (id string, accepted bool) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if text == "" || s.awaitingResponse || s.activeRoomID == "" {
		s.mu.Unlock()
		return "", false
	}
	id = uuid.New().String()
	s.messages = append(s.messages, &Message{
		ID:      id,
		Role:    api.RoleUser,
		Content: text,
		Status:  StatusPending,
	})
	s.awaitingResponse = true
	if attachment != nil {
		s.pendingAttachments[id] = attachment
	}
	roomID := s.activeRoomID
	s.mu.Unlock()
	s.signal()

	s.send(ctx, roomID, id, text, attachment)
	return id, true
}

// RetryMessage re-submits a failed optimistic message. It blocks like
// SubmitUserMessage and is rejected while another submission is awaiting.
func (s *Store) RetryMessage(ctx context.Context, id string) bool {
	s.mu.Lock()
	message := s.findMessage(id)
	if message == nil || message.Status != StatusFailed || s.awaitingResponse {
		s.mu.Unlock()
		return false
	}
	message.Status = StatusPending
	message.Err = nil
	s.awaitingResponse = true
	roomID := s.activeRoomID
	text := message.Content
	attachment := s.pendingAttachments[id]
	s.mu.Unlock()
	s.signal()

	s.send(ctx, roomID, id, text, attachment)
	return true
}

// send performs the network round trip for the optimistic message id and
// applies the outcome. The awaiting flag clears when the call settles,
// whether or not a reveal animation follows.
func (s *Store) send(ctx context.Context, roomID, id, text string, attachment *api.Attachment) {
	reply, err := s.client.SendMessage(ctx, roomID, text, attachment)

	s.mu.Lock()
	s.awaitingResponse = false
	message := s.findMessage(id)
	if err != nil {
		log.Warn("sending message", "room_id", roomID, "error", err)
		if message != nil {
			message.Status = StatusFailed
			message.Err = err
		}
		s.mu.Unlock()
		s.signal()
		return
	}
	if message != nil {
		message.Status = StatusConfirmed
		message.Err = nil
	}
	delete(s.pendingAttachments, id)
	sameRoom := s.activeRoomID == roomID
	s.mu.Unlock()
	s.signal()

	// If the user navigated away while the call was in flight, the reply
	// belongs to a room that is no longer on screen; drop it rather than
	// animating into the wrong sequence.
	if sameRoom {
		s.beginReveal(reply.Content)
	}
}
