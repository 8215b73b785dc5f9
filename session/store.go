// Package session owns the in-memory state of one open conversation: the
// room list, the active room's message sequence and the loading/awaiting
// flags. The view layer only reads snapshots and invokes operations; it
// never mutates state directly.
package session

import (
	"context"
	"sync"
	"time"

	"campusgpt/api"
	"campusgpt/internal/debug"
	"campusgpt/store"
)

const defaultRevealInterval = 100 * time.Millisecond

var log = debug.GetLogger()

// Client is the slice of the API surface the session needs.
type Client interface {
	ListRooms(ctx context.Context) ([]*api.Room, error)
	ListMessages(ctx context.Context, roomID string) ([]*api.Message, error)
	CreateRoom(ctx context.Context) (*api.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error
	SendMessage(ctx context.Context, roomID, text string, attachment *api.Attachment) (*api.Reply, error)
}

// Options configure a Store.
type Options struct {
	// Cache is the optional local read-through cache.
	Cache *store.Store
	// Notify is invoked after every state change. It must not call back
	// into the store synchronously.
	Notify func()
	// RevealInterval is the delay between revealed words.
	RevealInterval time.Duration
}

// Store is the single source of truth for the open conversation. All
// mutations are serialized by the mutex; a snapshot handed out to a reader
// is never mutated afterwards.
type Store struct {
	client Client
	cache  *store.Store
	notify func()

	revealInterval time.Duration

	mu                 sync.Mutex
	rooms              []*api.Room
	activeRoomID       string
	messages           []*Message
	loadingMessages    bool
	awaitingResponse   bool
	pendingAttachments map[string]*api.Attachment
	reveal             *revealTask
}

// New session store.
func New(client Client, options Options) *Store {
	interval := options.RevealInterval
	if interval <= 0 {
		interval = defaultRevealInterval
	}
	return &Store{
		client:             client,
		cache:              options.Cache,
		notify:             options.Notify,
		revealInterval:     interval,
		pendingAttachments: map[string]*api.Attachment{},
	}
}

// Close cancels any in-flight reveal animation.
func (s *Store) Close() {
	s.mu.Lock()
	task := s.reveal
	s.reveal = nil
	s.mu.Unlock()
	if task != nil {
		task.cancel()
		<-task.done
	}
}

// Rooms returns a snapshot of the cached room list.
func (s *Store) Rooms() []*api.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]*api.Room, len(s.rooms))
	for i, room := range s.rooms {
		clone := *room
		rooms[i] = &clone
	}
	return rooms
}

// Messages returns a snapshot of the active room's sequence, in display
// order.
func (s *Store) Messages() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]*Message, len(s.messages))
	for i, message := range s.messages {
		clone := *message
		messages[i] = &clone
	}
	return messages
}

// ActiveRoomID returns the active room identifier, if any.
func (s *Store) ActiveRoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeRoomID
}

// LoadingMessages reports whether the initial room-switch fetch is running.
func (s *Store) LoadingMessages() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingMessages
}

// AwaitingResponse reports whether a submission's network round trip is
// still in flight. The reveal animation is not part of this window.
func (s *Store) AwaitingResponse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaitingResponse
}

func (s *Store) signal() {
	if s.notify != nil {
		s.notify()
	}
}

// findMessage returns the message with the given id, or nil. Callers must
// hold the mutex.
func (s *Store) findMessage(id string) *Message {
	for _, message := range s.messages {
		if message.ID == id {
			return message
		}
	}
	return nil
}

// persistMessages writes the active sequence's confirmed entries to the
// local cache. Callers must hold the mutex.
func (s *Store) persistMessages(roomID string) {
	if s.cache == nil || roomID == "" {
		return
	}
	if err := s.cache.SaveMessages(roomID, toAPI(s.messages)); err != nil {
		log.Warn("persisting messages to cache", "room_id", roomID, "error", err)
	}
}
