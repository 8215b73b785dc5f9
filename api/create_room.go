package api

import (
	"context"
	"net/http"
)

// CreateRoom asks the backend for a fresh chat room.
func (c *Client) CreateRoom(ctx context.Context) (*Room, error) {
	const op = "creating room"

	request, err := c.newRequest(ctx, http.MethodPost, "/chat/new-chat", nil)
	if err != nil {
		return nil, transportError(op, 0, err)
	}

	room := &Room{}
	if err := c.do(op, request, room); err != nil {
		return nil, err
	}
	if err := room.validate(); err != nil {
		return nil, transportError(op, 0, err)
	}
	return room, nil
}
