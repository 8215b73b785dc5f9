package store

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"campusgpt/api"
)

// SaveMessages replaces the cached message sequence of a room. The sequence
// is stored as a single JSON document; a room's messages are only ever read
// and written wholesale.
func (s *Store) SaveMessages(roomID string, messages []*api.Message) error {
	encoded, err := json.Marshal(messages)
	if err != nil {
		return errors.Wrap(err, "marshaling messages")
	}

	_, err = s.db.Exec(`
		REPLACE INTO room_messages (room_id, messages)
		VALUES (?, ?)
	`, roomID, string(encoded))
	return errors.Wrap(err, "writing messages to database")
}

// GetMessages returns the cached message sequence of a room. A room with no
// cached messages yields an empty sequence.
func (s *Store) GetMessages(roomID string) ([]*api.Message, error) {
	var encoded string
	err := s.db.QueryRow(`
		SELECT messages FROM room_messages WHERE room_id = ?
	`, roomID).Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}

	var messages []*api.Message
	if err := json.Unmarshal([]byte(encoded), &messages); err != nil {
		return nil, errors.Wrap(err, "unmarshaling messages")
	}
	return messages, nil
}
