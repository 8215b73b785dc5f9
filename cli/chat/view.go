package chat

import (
	"fmt"
	"strings"

	"campusgpt/api"
	"campusgpt/cli/chat/styles"
	"campusgpt/session"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	if m.pickerOpen {
		b.WriteString(m.renderPicker())
		return m.alert.Render(b.String())
	}

	b.WriteString(styles.ViewportStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.session.AwaitingResponse() {
		b.WriteString(fmt.Sprintf("%s Thinking...\n", m.spinner.View()))
	} else {
		b.WriteString(styles.TextAreaStyle.Render(m.textarea.View()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return m.alert.Render(b.String())
}

func (m *Model) renderTitle() string {
	roomLabel := "no room"
	activeID := m.session.ActiveRoomID()
	for _, room := range m.session.Rooms() {
		if room.ID == activeID {
			roomLabel = room.Title
			break
		}
	}
	if roomLabel == "no room" && activeID != "" {
		roomLabel = activeID
	}

	title := fmt.Sprintf(" 🎓 CampusGPT │ 💬 %s ", roomLabel)
	return styles.TitleStyle.Width(m.width).Render(title)
}

func (m *Model) renderMessages() string {
	messages := m.session.Messages()

	if m.session.LoadingMessages() && len(messages) == 0 {
		return styles.LoadingStyle.Render("Loading messages...")
	}

	var b strings.Builder
	for i, message := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch message.Role {
		case api.RoleUser:
			b.WriteString(styles.UserMessageStyle.Render(message.Content))
			switch message.Status {
			case session.StatusPending:
				b.WriteString("\n")
				b.WriteString(styles.MessagePendingStyle.Render("sending..."))
			case session.StatusFailed:
				b.WriteString("\n")
				b.WriteString(styles.MessageErrorStyle.Render(fmt.Sprintf("⚠️ not delivered: %v (Ctrl+R to retry)", message.Err)))
			}

		case api.RoleAssistant:
			content := m.renderer.Render(message.Content)
			if message.Revealing {
				content += styles.SpinnerStyle.Render("▋")
			}
			b.WriteString(styles.AssistantMessageStyle.Render(content))
		}
	}

	return b.String()
}

func (m *Model) renderPicker() string {
	rooms := m.session.Rooms()

	var b strings.Builder
	b.WriteString(styles.PickerTitleStyle.Render("Chat rooms"))
	b.WriteString("\n\n")

	if len(rooms) == 0 {
		b.WriteString(styles.DimTextStyle.Render("No rooms yet. Press N to start one."))
	}
	for i, room := range rooms {
		title := room.Title
		if title == "" {
			title = room.ID
		}
		line := fmt.Sprintf("  %s", title)
		if i == m.pickerIndex {
			line = fmt.Sprintf("> %s", title)
			b.WriteString(styles.PickerSelectedStyle.Render(line))
		} else {
			b.WriteString(styles.PickerItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("Enter to open · D to delete · N for new chat · Esc to close"))
	return styles.PickerBoxStyle.Render(b.String())
}
