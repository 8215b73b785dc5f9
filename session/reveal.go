package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"campusgpt/api"
)

// revealTask is the handle of one running reveal animation. The store owns
// at most one at a time and cancels it when the room is torn down.
type revealTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// beginReveal inserts an empty assistant placeholder and animates it toward
// content word by word. The reply is already fully known; the animation is
// purely cosmetic and performs no I/O.
func (s *Store) beginReveal(content string) {
	ctx, cancel := context.WithCancel(context.Background())
	task := &revealTask{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if previous := s.reveal; previous != nil {
		// The awaiting flag clears when the network call settles, so a new
		// submission can overtake a running animation. Cancelling
		// fast-forwards the previous message to its full text.
		previous.cancel()
	}
	id := uuid.New().String()
	roomID := s.activeRoomID
	s.messages = append(s.messages, &Message{
		ID:        id,
		Role:      api.RoleAssistant,
		Status:    StatusConfirmed,
		Revealing: true,
	})
	s.reveal = task
	s.mu.Unlock()
	s.signal()

	go s.runReveal(ctx, task, roomID, id, content)
}

// runReveal appends one whitespace-delimited token per interval, re-joining
// the revealed prefix with single spaces. Step i always completes before
// step i+1 begins. An empty reply completes immediately.
func (s *Store) runReveal(ctx context.Context, task *revealTask, roomID, id, content string) {
	defer close(task.done)

	tokens := strings.Fields(content)
	final := strings.Join(tokens, " ")
	ticker := time.NewTicker(s.revealInterval)
	defer ticker.Stop()

	for i := range tokens {
		select {
		case <-ctx.Done():
			// Cancelled mid-animation. The reply is fully known, so jump to
			// its final text rather than leaving a truncated message behind.
			// On a room teardown the message is already gone and this is a
			// no-op.
			s.completeReveal(task, roomID, id, final)
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		message := s.findMessage(id)
		if message == nil {
			// The sequence was replaced under us; the animation is moot.
			s.mu.Unlock()
			return
		}
		message.Content = strings.Join(tokens[:i+1], " ")
		s.mu.Unlock()
		s.signal()
	}

	s.completeReveal(task, roomID, id, final)
}

// completeReveal settles the revealed message on its final text and releases
// the task handle.
func (s *Store) completeReveal(task *revealTask, roomID, id, content string) {
	s.mu.Lock()
	if message := s.findMessage(id); message != nil {
		message.Content = content
		message.Revealing = false
		s.persistMessages(roomID)
	}
	if s.reveal == task {
		s.reveal = nil
	}
	s.mu.Unlock()
	s.signal()
}
