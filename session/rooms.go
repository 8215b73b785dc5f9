package session

import (
	"context"

	"campusgpt/api"
)

// RefreshRooms fetches the room list and replaces the cached copy.
func (s *Store) RefreshRooms(ctx context.Context) error {
	rooms, err := s.client.ListRooms(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rooms = rooms
	if s.cache != nil {
		if err := s.cache.SaveRooms(rooms); err != nil {
			log.Warn("persisting rooms to cache", "error", err)
		}
	}
	s.mu.Unlock()
	s.signal()
	return nil
}

// SwitchRoom makes roomID the active room. The previous room's sequence is
// dropped wholesale before the new room's messages are loaded, and any
// reveal still animating the old room is cancelled so it cannot mutate an
// abandoned message.
func (s *Store) SwitchRoom(ctx context.Context, roomID string) {
	s.mu.Lock()
	if s.activeRoomID == roomID {
		s.mu.Unlock()
		return
	}
	task := s.reveal
	s.reveal = nil
	s.activeRoomID = roomID
	s.messages = nil
	s.pendingAttachments = map[string]*api.Attachment{}
	s.mu.Unlock()
	if task != nil {
		task.cancel()
		<-task.done
	}
	s.signal()

	s.LoadRoomMessages(ctx, roomID)
}

// LoadRoomMessages fetches the persisted sequence of roomID and replaces the
// in-memory sequence. While the fetch runs the last cached sequence is shown.
// On error the sequence is left empty; the caller may re-invoke to retry.
func (s *Store) LoadRoomMessages(ctx context.Context, roomID string) {
	s.mu.Lock()
	s.loadingMessages = true
	if s.cache != nil {
		if cached, err := s.cache.GetMessages(roomID); err == nil && len(cached) > 0 {
			s.messages = fromAPI(cached)
		}
	}
	s.mu.Unlock()
	s.signal()

	messages, err := s.client.ListMessages(ctx, roomID)

	s.mu.Lock()
	if s.activeRoomID != roomID {
		// The user has navigated away; this load is stale.
		s.mu.Unlock()
		s.signal()
		return
	}
	s.loadingMessages = false
	if err != nil {
		log.Warn("loading room messages", "room_id", roomID, "error", err)
		s.messages = nil
	} else {
		s.messages = fromAPI(messages)
		s.persistMessages(roomID)
	}
	s.mu.Unlock()
	s.signal()
}

// CreateRoom creates a room on the backend, makes it active and refreshes
// the room list. Unlike message loads, failures here propagate to the
// caller.
func (s *Store) CreateRoom(ctx context.Context) (string, error) {
	room, err := s.client.CreateRoom(ctx)
	if err != nil {
		return "", err
	}

	s.SwitchRoom(ctx, room.ID)
	if err := s.RefreshRooms(ctx); err != nil {
		log.Warn("refreshing rooms after create", "error", err)
	}
	return room.ID, nil
}

// DeleteRoom deletes a room on the backend and refreshes the room list. If
// the deleted room was active, the session resets to an empty state rather
// than keeping a transcript of a room that no longer exists.
func (s *Store) DeleteRoom(ctx context.Context, roomID string) error {
	if err := s.client.DeleteRoom(ctx, roomID); err != nil {
		return err
	}

	s.mu.Lock()
	var task *revealTask
	if s.activeRoomID == roomID {
		task = s.reveal
		s.reveal = nil
		s.activeRoomID = ""
		s.messages = nil
		s.loadingMessages = false
		s.awaitingResponse = false
		s.pendingAttachments = map[string]*api.Attachment{}
	}
	if s.cache != nil {
		if err := s.cache.DeleteRoom(roomID); err != nil {
			log.Warn("deleting room from cache", "room_id", roomID, "error", err)
		}
	}
	s.mu.Unlock()
	if task != nil {
		task.cancel()
		<-task.done
	}
	s.signal()

	if err := s.RefreshRooms(ctx); err != nil {
		log.Warn("refreshing rooms after delete", "error", err)
	}
	return nil
}
