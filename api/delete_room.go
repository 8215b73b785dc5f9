package api

import (
	"context"
	"net/http"
	"net/url"
)

// DeleteRoom removes a room and its messages from the backend.
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	const op = "deleting room"

	request, err := c.newRequest(ctx, http.MethodDelete, "/chat/rooms?chatId="+url.QueryEscape(roomID), nil)
	if err != nil {
		return transportError(op, 0, err)
	}
	return c.do(op, request, nil)
}
