package chat

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"

	"campusgpt/api"
	"campusgpt/cli/chat/styles"
	"campusgpt/cli/chat/types"
	"campusgpt/internal/configuration"
	"campusgpt/internal/debug"
	"campusgpt/internal/history"
	"campusgpt/internal/markdown"
	"campusgpt/session"
)

var log = debug.GetLogger()

// Model represents the Bubble Tea model for the chat screen. All
// conversation state lives in the session store; the model only holds UI
// concerns.
type Model struct {
	// Core dependencies
	ctx     context.Context
	config  *configuration.Config
	session *session.Store

	// An attachment staged for the next submission, if any.
	attachment *api.Attachment

	// Room opened when the program starts.
	initialRoomID string

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer

	// UI state
	width         int
	height        int
	ready         bool
	quitting      bool
	windowFocused bool
	err           error

	// Room picker overlay
	pickerOpen  bool
	pickerIndex int

	// Alert notifications.
	alert bubbleup.AlertModel

	// Input history
	history           *history.History
	historyNavigating bool

	// Program reference for sending messages from goroutines
	program   *tea.Program
	programMu sync.Mutex
}

// New creates a new chat screen model. The session store is created by the
// caller and handed in; its change notifications are wired through
// NotifySessionUpdated.
func New(
	ctx context.Context,
	config *configuration.Config,
	sess *session.Store,
	attachment *api.Attachment,
) (*Model, error) {
	ta := textarea.New()
	ta.Placeholder = "Ask about classes, exams, faculty, events... (Ctrl+J to send, Alt+R for rooms, Ctrl+C to quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(styles.DefaultTextareaWidth)
	ta.SetHeight(styles.MinTextareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	renderer, err := markdown.NewRenderer(styles.DefaultTextareaWidth)
	if err != nil {
		return nil, err
	}

	alert := bubbleup.NewAlertModel(25, true, 1)

	return &Model{
		ctx:           ctx,
		config:        config,
		session:       sess,
		attachment:    attachment,
		textarea:      ta,
		spinner:       sp,
		renderer:      renderer,
		history:       history.NewHistory(),
		alert:         *alert,
		windowFocused: true,
	}, nil
}

// SetProgram sets the tea.Program reference for async message sending.
func (m *Model) SetProgram(p *tea.Program) {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	m.program = p
}

// getProgram safely gets the program reference.
func (m *Model) getProgram() *tea.Program {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	return m.program
}

// NotifySessionUpdated is handed to the session store as its change
// callback. It is safe to call before the program starts.
func (m *Model) NotifySessionUpdated() {
	if p := m.getProgram(); p != nil {
		p.Send(types.SessionUpdatedMsg{})
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.alert.Init(),
		m.initialCmds(),
	)
}
