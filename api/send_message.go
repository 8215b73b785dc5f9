package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
)

// SendMessage submits the user's text to a room and returns the assistant's
// full reply. The backend expects a multipart form even without an
// attachment, so the same encoding is used either way.
func (c *Client) SendMessage(ctx context.Context, roomID, text string, attachment *Attachment) (*Reply, error) {
	const op = "sending message"

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chatId", roomID); err != nil {
		return nil, transportError(op, 0, err)
	}
	if err := writer.WriteField("message", text); err != nil {
		return nil, transportError(op, 0, err)
	}
	if attachment != nil {
		part, err := writer.CreateFormFile("file", attachment.Name)
		if err != nil {
			return nil, transportError(op, 0, err)
		}
		if _, err := part.Write(attachment.Content); err != nil {
			return nil, transportError(op, 0, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, transportError(op, 0, err)
	}

	request, err := c.newRequest(ctx, http.MethodPost, "/chat/message", &body)
	if err != nil {
		return nil, transportError(op, 0, err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())

	reply := &Reply{}
	if err := c.do(op, request, reply); err != nil {
		return nil, err
	}
	return reply, nil
}
