// Package rooms holds the non-interactive room management commands.
package rooms

import (
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"campusgpt/app"
)

var (
	titleColor     = color.New(color.FgMagenta, color.Bold)
	roomColor      = color.New(color.FgCyan)
	timestampColor = color.New(color.FgYellow)
	separatorColor = color.New(color.FgHiBlack)

	width = goterm.Width()
)

// NewCmd instantiates and returns the rooms command tree.
func NewCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Manage chat rooms",
	}
	cmd.AddCommand(newListCmd(application))
	cmd.AddCommand(newDeleteCmd(application))
	return cmd
}

func newListCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your chat rooms",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := application.Client.ListRooms(cmd.Context())
			if err != nil {
				return err
			}

			title("CAMPUSGPT ROOMS (%d)", len(rooms))
			for _, room := range rooms {
				lastActivity := time.UnixMilli(room.LastMessageAt).Format("Jan 2, 2006 3:04 PM")
				roomColor.Printf("%-12s %s", room.ID, room.Title)
				timestampColor.Printf("  %s\n", lastActivity)
			}
			return nil
		},
	}
}

func newDeleteCmd(application *app.App) *cobra.Command {
	var skipConfirm bool
	cmd := &cobra.Command{
		Use:   "delete <room-id>",
		Short: "Delete a chat room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID := args[0]

			if !skipConfirm {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Delete room %s? Its messages are gone for good.", roomID),
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			if err := application.Client.DeleteRoom(cmd.Context(), roomID); err != nil {
				return err
			}
			if err := application.Cache.DeleteRoom(roomID); err != nil {
				return err
			}
			fmt.Println("Room removed successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// title prints a centered separator title, sized to the terminal.
func title(text string, args ...any) {
	formatted := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(formatted)) / 2
	if leftWidth < 0 {
		leftWidth = 0
	}
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", max(width-len(formatted)-len(separator1), 0))
	separatorColor.Print(separator1)
	titleColor.Print(formatted)
	separatorColor.Println(separator2)
}
