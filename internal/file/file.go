package file

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"campusgpt/api"
)

// AttachOpts for message attachments.
type AttachOpts struct {
	Path string
}

// GetOpts on the given command.
func GetOpts(cmd *cobra.Command) *AttachOpts {
	opts := &AttachOpts{}
	cmd.Flags().StringVar(&opts.Path, "attach", "", "attach a file to the first message you send")
	return opts
}

// Parse reads the attachment, if any.
func (o *AttachOpts) Parse() (*api.Attachment, error) {
	if o.Path == "" {
		return nil, nil
	}
	path, err := ExpandPath(o.Path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	return &api.Attachment{
		Name:    filepath.Base(path),
		Content: content,
	}, nil
}

// ExpandPath expands a leading tilde to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "getting user home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
