package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListMessages returns the persisted message sequence of a room, oldest first.
func (c *Client) ListMessages(ctx context.Context, roomID string) ([]*Message, error) {
	const op = "listing messages"

	request, err := c.newRequest(ctx, http.MethodGet, "/chat/messages?chatId="+url.QueryEscape(roomID), nil)
	if err != nil {
		return nil, transportError(op, 0, err)
	}

	var messages []*Message
	if err := c.do(op, request, &messages); err != nil {
		return nil, err
	}
	for _, message := range messages {
		if err := message.validate(); err != nil {
			return nil, transportError(op, 0, err)
		}
	}
	return messages, nil
}
