package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"golang.design/x/clipboard"

	"campusgpt/api"
	"campusgpt/cli/chat/types"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Always update the alert model with every message
	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	// Log for non-tick messages only
	defer func() {
		switch msg.(type) {
		case spinner.TickMsg, cursor.BlinkMsg, tea.MouseMsg:
		default:
			log.Info("update completed", "msg_type", fmt.Sprintf("%T", msg))
		}
	}()

	switch msg := msg.(type) {
	case tea.FocusMsg:
		m.windowFocused = true
		m.textarea.Focus()
		cmds = append(cmds, textarea.Blink)
		return m, tea.Batch(cmds...)

	case tea.BlurMsg:
		m.windowFocused = false
		m.textarea.Blur()
		return m, nil

	case tea.KeyMsg:
		if m.pickerOpen {
			return m.updatePicker(msg)
		}

		switch msg.String() {
		case "alt+r":
			m.pickerOpen = true
			m.pickerIndex = m.activeRoomIndex()
			return m, m.refreshRooms()

		case "alt+w":
			if content, ok := m.lastAssistantContent(); ok {
				clipboard.Write(clipboard.FmtText, []byte(content))
				cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.InfoKey, "Copied to clipboard!"))
			}
			return m, tea.Batch(cmds...)

		case "alt+p":
			if !m.session.AwaitingResponse() {
				if entry, ok := m.history.Previous(m.textarea.Value()); ok {
					m.textarea.SetValue(entry)
					m.historyNavigating = true
					m.adjustTextareaHeight()
					return m, nil
				}
			}

		case "alt+n":
			if !m.session.AwaitingResponse() {
				if entry, ok := m.history.Next(); ok {
					m.textarea.SetValue(entry)
					m.historyNavigating = true
					m.adjustTextareaHeight()
					return m, nil
				}
			}
		}

		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			m.session.Close()
			return m, tea.Quit

		case tea.KeyCtrlJ:
			// A second submission while one is awaiting is rejected by the
			// session store as well; the gate here just keeps the input
			// from being consumed.
			if !m.session.AwaitingResponse() {
				return m, m.sendMessage()
			}

		case tea.KeyCtrlN:
			return m, m.createRoom()

		case tea.KeyCtrlR:
			if !m.session.AwaitingResponse() {
				return m, m.retryFailedMessage()
			}

		case tea.KeyEnter:
			if m.historyNavigating {
				m.history.Reset()
				m.historyNavigating = false
			}
		}

		if m.historyNavigating {
			switch msg.Type {
			case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
				m.history.Reset()
				m.historyNavigating = false
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()

	case types.SessionUpdatedMsg:
		wasAtBottom := m.viewport.AtBottom()
		m.viewport.SetContent(m.renderMessages())
		if wasAtBottom {
			m.viewport.GotoBottom()
		}
		return m, nil

	case types.SubmitSettledMsg:
		m.recalculateLayout()
		m.viewport.GotoBottom()
		return m, nil

	case types.RoomCreatedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.InfoKey, "New chat started"))
		return m, tea.Batch(cmds...)

	case types.RoomDeletedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.clampPickerIndex()
		cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.InfoKey, "Room removed successfully"))
		return m, tea.Batch(cmds...)

	case types.RoomsRefreshedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		}
		m.clampPickerIndex()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.session.AwaitingResponse() && !m.pickerOpen {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.adjustTextareaHeight()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// updatePicker handles keys while the room picker overlay is open.
func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rooms := m.session.Rooms()

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.session.Close()
		return m, tea.Quit

	case "esc", "alt+r":
		m.pickerOpen = false
		return m, nil

	case "up", "k":
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
		return m, nil

	case "down", "j":
		if m.pickerIndex < len(rooms)-1 {
			m.pickerIndex++
		}
		return m, nil

	case "enter":
		if m.pickerIndex >= 0 && m.pickerIndex < len(rooms) {
			m.pickerOpen = false
			return m, m.switchRoom(rooms[m.pickerIndex].ID)
		}
		return m, nil

	case "d":
		if m.pickerIndex >= 0 && m.pickerIndex < len(rooms) {
			room := rooms[m.pickerIndex]
			return m, m.deleteRoom(room.ID, room.Title)
		}
		return m, nil

	case "n":
		m.pickerOpen = false
		return m, m.createRoom()
	}

	return m, nil
}

// activeRoomIndex returns the picker index of the active room, or 0.
func (m *Model) activeRoomIndex() int {
	activeID := m.session.ActiveRoomID()
	for i, room := range m.session.Rooms() {
		if room.ID == activeID {
			return i
		}
	}
	return 0
}

func (m *Model) clampPickerIndex() {
	if count := len(m.session.Rooms()); m.pickerIndex >= count {
		m.pickerIndex = count - 1
	}
	if m.pickerIndex < 0 {
		m.pickerIndex = 0
	}
}

// lastAssistantContent returns the content of the most recent assistant
// message.
func (m *Model) lastAssistantContent() (string, bool) {
	messages := m.session.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == api.RoleAssistant {
			return messages[i].Content, true
		}
	}
	return "", false
}
