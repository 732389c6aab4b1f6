package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedTerminalDetector always answers the same, so tests never depend on how
// they are run.
type fixedTerminalDetector struct {
	isTerminal bool
}

func (d *fixedTerminalDetector) IsTerminal(int) bool {
	return d.isTerminal
}

func newTestCLI(fs afero.Fs) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	c := NewCLIWithFs(fs)
	c.terminalDetector = &fixedTerminalDetector{isTerminal: false}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)
	return c, stdout, stderr
}

func TestVersionFlag(t *testing.T) {
	c, stdout, _ := newTestCLI(afero.NewMemMapFs())

	err := c.Execute([]string{"--version"})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), Version)
}

func TestCommandsRequireExactlyOneFile(t *testing.T) {
	for _, name := range []string{"tags", "decode", "play"} {
		t.Run(name, func(t *testing.T) {
			c, _, _ := newTestCLI(afero.NewMemMapFs())
			assert.Error(t, c.Execute([]string{name}))

			c, _, _ = newTestCLI(afero.NewMemMapFs())
			assert.Error(t, c.Execute([]string{name, "a.ogg", "b.ogg"}))
		})
	}
}

func TestTagsMissingFile(t *testing.T) {
	c, _, _ := newTestCLI(afero.NewMemMapFs())

	err := c.Execute([]string{"tags", "nope.ogg"})
	assert.Error(t, err)
}

func TestTagsRejectsNonOggInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "song.ogg", []byte("RIFF....WAVEfmt not actually ogg"), 0644))

	c, _, _ := newTestCLI(fs)
	err := c.Execute([]string{"tags", "song.ogg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an Ogg container")
}

func TestCheckOggInputRewindsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	// A bare Ogg page header is enough for the sniffer.
	data := append([]byte("OggS\x00\x02"), make([]byte, 64)...)
	require.NoError(t, afero.WriteFile(fs, "page.ogg", data, 0644))

	f, err := fs.Open("page.ogg")
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, checkOggInput(f, "page.ogg"))

	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Zero(t, pos, "sniffing must leave the stream at the start")
}

func TestOutputPathDerivation(t *testing.T) {
	testCases := []struct {
		input string
		flag  string
		want  string
	}{
		{"song.ogg", "", "song.wav"},
		{"dir/song.ogg", "", "dir/song.wav"},
		{"noext", "", "noext.wav"},
		{"song.ogg", "custom.wav", "custom.wav"},
	}

	for _, tc := range testCases {
		got := outputPath(tc.input, tc.flag)
		if got != tc.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tc.input, tc.flag, got, tc.want)
		}
	}
}

func TestDecodeRejectsNonOggInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "notes.txt", []byte("just some text"), 0644))

	c, _, _ := newTestCLI(fs)
	err := c.Execute([]string{"decode", "notes.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an Ogg container")

	// No output file should be left behind.
	exists, err := afero.Exists(fs, "notes.wav")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVerboseFlagIsAccepted(t *testing.T) {
	c, stdout, _ := newTestCLI(afero.NewMemMapFs())

	err := c.Execute([]string{"--verbose", "--version"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(stdout.String(), Version))
}
