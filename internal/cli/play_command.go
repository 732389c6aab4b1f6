package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"vorbio.click/internal/player"
)

func newPlayCommand(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play FILE",
		Short: "Play FILE on the default output device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, _ := cmd.Flags().GetFloat32("volume")
			return c.runPlay(cmd, args[0], volume)
		},
	}
	cmd.Flags().Float32("volume", 1.0, "Playback volume (0.0 to 1.0)")
	return cmd
}

func (c *CLI) runPlay(cmd *cobra.Command, path string, volume float32) error {
	d, f, err := c.openDecoder(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer d.Close()

	p, err := player.NewPlayer()
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.SetVolume(volume); err != nil {
		return err
	}

	// Ctrl-C stops playback cleanly.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return p.Play(ctx, d)
}
