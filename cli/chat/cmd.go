package chat

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"

	"campusgpt/app"
	"campusgpt/cli/chat/types"
	"campusgpt/internal/file"
	"campusgpt/session"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(application *app.App) *cobra.Command {
	var opts struct {
		Attach  *file.AttachOpts
		RoomID  string
		NewRoom bool
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the campus assistant chat",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			attachment, err := opts.Attach.Parse()
			cobra.CheckErr(err)

			// Resolve the room to open before the UI starts: an explicit
			// --room wins, otherwise the most recently active room, and a
			// fresh one when the user has none.
			roomID := opts.RoomID
			if opts.NewRoom || roomID == "" {
				rooms, err := application.Client.ListRooms(ctx)
				if err != nil {
					return fmt.Errorf("listing rooms: %w", err)
				}
				if !opts.NewRoom && len(rooms) > 0 {
					roomID = rooms[0].ID
				} else {
					room, err := application.Client.CreateRoom(ctx)
					if err != nil {
						return fmt.Errorf("creating room: %w", err)
					}
					roomID = room.ID
				}
			}

			var m *Model
			sess := session.New(application.Client, session.Options{
				Cache:          application.Cache,
				RevealInterval: application.RevealInterval(),
				Notify: func() {
					if m != nil {
						m.NotifySessionUpdated()
					}
				},
			})

			m, err = New(ctx, application.Config, sess, attachment)
			if err != nil {
				return err
			}
			m.initialRoomID = roomID

			// Clipboard support is best-effort; copying simply does nothing
			// on displays without one.
			_ = clipboard.Init()

			p := tea.NewProgram(
				m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithMouseCellMotion(),
				tea.WithReportFocus(),
			)
			m.SetProgram(p)

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running chat: %w", err)
			}
			return nil
		},
	}

	opts.Attach = file.GetOpts(cmd)
	cmd.Flags().StringVar(&opts.RoomID, "room", "", "open a specific room")
	cmd.Flags().BoolVar(&opts.NewRoom, "new", false, "start a new room")
	return cmd
}

// initialCmds kicks off the room list refresh and the first room load.
func (m *Model) initialCmds() tea.Cmd {
	return tea.Batch(
		m.refreshRooms(),
		m.switchRoom(m.initialRoomID),
		func() tea.Msg { return types.SessionUpdatedMsg{} },
	)
}
