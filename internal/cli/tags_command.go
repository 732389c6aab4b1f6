package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// newTagsCommand prints the vendor string and every KEY=VALUE comment of a
// file. Malformed comments are skipped with a warning instead of aborting the
// listing.
func newTagsCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "tags FILE",
		Short: "Print the Vorbis comments of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTags(cmd, args[0])
		},
	}
}

func (c *CLI) runTags(cmd *cobra.Command, path string) error {
	d, f, err := c.openDecoder(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer d.Close()

	vendor, err := d.Vendor()
	if err != nil {
		slog.Warn("vendor string unreadable", "path", path, "error", err)
	} else {
		cmd.Printf("vendor: %s\n", vendor)
	}

	for comment := range d.Comments() {
		key, err := comment.Key()
		if err != nil {
			slog.Warn("skipping malformed comment", "path", path, "raw", string(comment.Bytes()), "error", err)
			continue
		}
		value, err := comment.Value()
		if err != nil {
			slog.Warn("skipping undecodable comment value", "path", path, "key", key, "error", err)
			continue
		}
		cmd.Printf("%s=%s\n", key, value)
	}
	return nil
}
