// Package cli implements the vorbio command line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"vorbio.click/vorbis"
)

const Version = "0.1.0"

// CLI wires the cobra command tree to its collaborators.
type CLI struct {
	rootCmd          *cobra.Command
	fs               afero.Fs
	terminalDetector TerminalDetector
}

// NewCLI creates a CLI running against the real filesystem.
func NewCLI() *CLI {
	return NewCLIWithFs(afero.NewOsFs())
}

// NewCLIWithFs creates a CLI with an injected filesystem, for tests.
func NewCLIWithFs(fs afero.Fs) *CLI {
	slog.Debug("creating new CLI instance")

	c := &CLI{
		fs:               fs,
		terminalDetector: &DefaultTerminalDetector{},
	}

	rootCmd := &cobra.Command{
		Use:     "vorbio",
		Short:   "Ogg Vorbis decoding toolbox",
		Long:    "Vorbio decodes Ogg Vorbis streams: print their tags, convert them to WAV, or play them on the default output device.",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			fileLogging, _ := cmd.Flags().GetBool("log-file")
			setupLogging(verbose, fileLogging, cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("log-file", false, "Also log to a rotating file in the XDG state directory")

	rootCmd.AddCommand(newTagsCommand(c))
	rootCmd.AddCommand(newDecodeCommand(c))
	rootCmd.AddCommand(newPlayCommand(c))

	c.rootCmd = rootCmd
	return c
}

// Execute runs the CLI with the given arguments (excluding the program name).
func (c *CLI) Execute(args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.Execute()
}

// openDecoder opens path, checks it actually looks like an Ogg container, and
// binds it to the decoder. The caller closes both.
func (c *CLI) openDecoder(path string) (*vorbis.Decoder, afero.File, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := checkOggInput(f, path); err != nil {
		f.Close()
		return nil, nil, err
	}

	d, err := vorbis.New(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return d, f, nil
}

// checkOggInput sniffs the content type so obviously wrong inputs fail with a
// friendlier message than the engine's header error. The file is rewound
// afterwards.
func checkOggInput(f afero.File, path string) error {
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("sniff %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", path, err)
	}

	slog.Debug("input content type detected", "path", path, "mime", mtype.String())

	if !mtype.Is("audio/ogg") && !mtype.Is("application/ogg") {
		return fmt.Errorf("%s: not an Ogg container (detected %s)", path, mtype)
	}
	return nil
}

// isInteractiveTerminal reports whether fd is attached to a terminal.
func (c *CLI) isInteractiveTerminal(fd int) bool {
	if c.terminalDetector == nil {
		c.terminalDetector = &DefaultTerminalDetector{}
	}
	return c.terminalDetector.IsTerminal(fd)
}

func stderrFd() int {
	return int(os.Stderr.Fd())
}
