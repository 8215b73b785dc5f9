package api

import (
	"context"
	"net/http"
)

// ListRooms returns every chat room owned by the current user.
func (c *Client) ListRooms(ctx context.Context) ([]*Room, error) {
	const op = "listing rooms"

	request, err := c.newRequest(ctx, http.MethodGet, "/chat/rooms", nil)
	if err != nil {
		return nil, transportError(op, 0, err)
	}

	var rooms []*Room
	if err := c.do(op, request, &rooms); err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if err := room.validate(); err != nil {
			return nil, transportError(op, 0, err)
		}
	}
	return rooms, nil
}
