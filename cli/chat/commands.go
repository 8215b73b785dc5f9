package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"campusgpt/cli/chat/types"
	"campusgpt/session"
)

func (m *Model) sendMessage() tea.Cmd {
	userInput := strings.TrimSpace(m.textarea.Value())
	if userInput == "" {
		return nil
	}

	m.history.Add(userInput)
	m.historyNavigating = false

	attachment := m.attachment
	m.attachment = nil
	m.textarea.Reset()
	m.viewport.GotoBottom()

	sess := m.session
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		// Blocks for the network round trip; the optimistic append and the
		// reveal updates land via SessionUpdatedMsg notifications.
		sess.SubmitUserMessage(ctx, userInput, attachment)
		return types.SubmitSettledMsg{}
	})
}

// retryFailedMessage re-submits the most recent failed optimistic message.
func (m *Model) retryFailedMessage() tea.Cmd {
	messages := m.session.Messages()
	var failedID string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Status == session.StatusFailed {
			failedID = messages[i].ID
			break
		}
	}
	if failedID == "" {
		return nil
	}

	sess := m.session
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		sess.RetryMessage(ctx, failedID)
		return types.SubmitSettledMsg{}
	})
}

func (m *Model) createRoom() tea.Cmd {
	sess := m.session
	ctx := m.ctx
	return func() tea.Msg {
		roomID, err := sess.CreateRoom(ctx)
		return types.RoomCreatedMsg{RoomID: roomID, Err: err}
	}
}

func (m *Model) deleteRoom(roomID, title string) tea.Cmd {
	sess := m.session
	ctx := m.ctx
	return func() tea.Msg {
		err := sess.DeleteRoom(ctx, roomID)
		return types.RoomDeletedMsg{Title: title, Err: err}
	}
}

func (m *Model) switchRoom(roomID string) tea.Cmd {
	sess := m.session
	ctx := m.ctx
	return func() tea.Msg {
		sess.SwitchRoom(ctx, roomID)
		return types.SessionUpdatedMsg{}
	}
}

func (m *Model) refreshRooms() tea.Cmd {
	sess := m.session
	ctx := m.ctx
	return func() tea.Msg {
		return types.RoomsRefreshedMsg{Err: sess.RefreshRooms(ctx)}
	}
}
