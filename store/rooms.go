package store

import (
	"github.com/pkg/errors"

	"campusgpt/api"
)

// SaveRooms replaces the cached room list with the backend's latest answer.
func (s *Store) SaveRooms(rooms []*api.Room) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rooms`); err != nil {
		return errors.Wrap(err, "clearing rooms")
	}
	for _, room := range rooms {
		_, err := tx.Exec(`
			INSERT INTO rooms (id, title, created_at, last_message_at)
			VALUES (?, ?, ?, ?)
		`, room.ID, room.Title, room.CreatedAt, room.LastMessageAt)
		if err != nil {
			return errors.Wrap(err, "inserting room")
		}
	}

	return errors.Wrap(tx.Commit(), "committing transaction")
}

// ListRooms returns the cached room list, most recently active first.
func (s *Store) ListRooms() ([]*api.Room, error) {
	rows, err := s.db.Query(`
		SELECT id, title, created_at, last_message_at
		FROM rooms
		ORDER BY last_message_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "querying rooms")
	}
	defer rows.Close()

	var rooms []*api.Room
	for rows.Next() {
		room := &api.Room{}
		if err := rows.Scan(&room.ID, &room.Title, &room.CreatedAt, &room.LastMessageAt); err != nil {
			return nil, errors.Wrap(err, "scanning room row")
		}
		rooms = append(rooms, room)
	}
	return rooms, errors.Wrap(rows.Err(), "iterating room rows")
}

// DeleteRoom removes a room and its cached messages.
func (s *Store) DeleteRoom(roomID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rooms WHERE id = ?`, roomID); err != nil {
		return errors.Wrap(err, "deleting room")
	}
	if _, err := tx.Exec(`DELETE FROM room_messages WHERE room_id = ?`, roomID); err != nil {
		return errors.Wrap(err, "deleting room messages")
	}

	return errors.Wrap(tx.Commit(), "committing transaction")
}
