package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vorbio.click/internal/wavout"
	"vorbio.click/vorbis"
)

func newDecodeCommand(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode FILE to a 16-bit PCM WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return c.runDecode(cmd, args[0], output)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output path (default: input with .wav extension)")
	return cmd
}

// outputPath derives the default WAV path from the input path.
func outputPath(input, flag string) string {
	if flag != "" {
		return flag
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".wav"
}

func (c *CLI) runDecode(cmd *cobra.Command, input, outputFlag string) error {
	d, f, err := c.openDecoder(input)
	if err != nil {
		return err
	}
	defer f.Close()
	defer d.Close()

	output := outputPath(input, outputFlag)
	out, err := c.fs.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer out.Close()

	interactive := c.isInteractiveTerminal(stderrFd())

	var writer *wavout.Writer
	packets := 0
	for pkt, err := range d.Packets() {
		if err != nil {
			// Holes are recoverable discontinuities; anything else is not.
			if errors.Is(err, vorbis.ErrHole) {
				slog.Warn("hole in bitstream, continuing", "path", input, "error", err)
				continue
			}
			return fmt.Errorf("decode %s: %w", input, err)
		}

		if writer == nil {
			writer = wavout.NewWriter(out, pkt.Channels, pkt.Rate)
		}
		if err := writer.WritePacket(pkt); err != nil {
			return err
		}

		packets++
		if interactive && packets%100 == 0 {
			cmd.PrintErrf("\rdecoded %d samples", writer.Samples())
		}
	}

	if writer == nil {
		return fmt.Errorf("decode %s: stream contains no audio", input)
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if interactive {
		cmd.PrintErrf("\r")
	}
	cmd.Printf("wrote %s (%d samples)\n", output, writer.Samples())
	return nil
}
