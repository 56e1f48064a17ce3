package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/testutil"
	"github.com/grovetools/kit/version"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardCommandFlags(t *testing.T) {
	cmd := NewStandardCommand("kit", "test")
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	cmd.SetArgs([]string{"-v", "--json", "-c", "custom.yml"})
	require.NoError(t, cmd.Execute())

	opts := GetOptions(cmd)
	assert.Equal(t, CommandOptions{ConfigFile: "custom.yml", Verbose: true, JSONOutput: true}, opts)
}

func TestInitConfig(t *testing.T) {
	dir := testutil.IsolateConfig(t)

	path, err := InitConfig("explicit.yml")
	require.NoError(t, err)
	assert.Equal(t, "explicit.yml", path)

	path, err = InitConfig("")
	require.NoError(t, err)
	assert.Empty(t, path)

	written := testutil.WriteFile(t, dir, "kit.yml", "version: \"1.0\"\n")
	path, err = InitConfig("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(written), filepath.Base(path))
}

func TestLoadConfig(t *testing.T) {
	dir := testutil.IsolateConfig(t)
	cmd := NewStandardCommand("kit", "test")

	cfg, err := LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Ensure.Retries())

	path := testutil.WriteFile(t, dir, "other.yml", "version: \"1.0\"\nensure:\n  max_retries: 7\n")
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	cfg, err = LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Ensure.Retries())
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		verbose bool
	}{
		{
			name: "config not found",
			err:  errors.ConfigNotFound("/work"),
			want: "Configuration not found",
		},
		{
			name: "transient",
			err:  errors.TransientIO("/mnt/x", 4, fmt.Errorf("busy")),
			want: "Could not create /mnt/x after 4 attempts",
		},
		{
			name: "permanent",
			err:  errors.PermanentIO("/root/x", fmt.Errorf("permission denied")),
			want: "Could not create /root/x: permission denied",
		},
		{
			name: "type contract",
			err:  errors.TypeContract("count", "three", true),
			want: "key 'count' holds string, not a number",
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("run: %w", errors.ConfigInvalid("bad")),
			want: "Invalid configuration",
		},
		{
			name: "plain",
			err:  stderrors.New("boom"),
			want: "❌ Error: boom",
		},
		{
			name:    "verbose details",
			err:     errors.OutOfRange("HTTP status code", 99, 100, 599),
			want:    `"code": "OUT_OF_RANGE"`,
			verbose: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Verbose: tt.verbose, Out: &buf}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	assert.NoError(t, NewErrorHandler(false).Handle(nil))
}

func TestVersionCommand(t *testing.T) {
	info := version.Info{Version: "v1.0.0", Commit: "abc", BuildDate: "today", GoVersion: "go1.24", Platform: "linux/amd64"}
	root := NewStandardCommand("kit", "test")
	root.AddCommand(NewVersionCommand("kit", info))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "kit v1.0.0\n  Commit:    abc\n  Built:     today\n  Go:        go1.24\n  Platform:  linux/amd64\n", out.String())

	out.Reset()
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"version": "v1.0.0"`)
}

func TestStyledHelp(t *testing.T) {
	root := NewStandardCommand("kit", "Reactive state utilities")
	sub := &cobra.Command{
		Use:   "ensure PATH",
		Short: "Create a path",
		Long:  "Create a path\n\nExamples:\n  # make a directory\n  kit ensure /tmp/x",
		RunE:  func(*cobra.Command, []string) error { return nil },
	}
	sub.Flags().Int("max-retries", 3, "Retries on transient errors")
	sub.Flags().String("format", "", "Output format: text, json, or yaml")
	root.AddCommand(sub)
	ApplyStyledHelpRecursive(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())
	help := out.String()
	assert.Contains(t, help, "KIT")
	assert.Contains(t, help, "COMMANDS")
	assert.Regexp(t, `ensure +Create a path`, help)
	assert.Contains(t, help, `Use "kit [command] --help"`)

	out.Reset()
	root.SetArgs([]string{"ensure", "--help"})
	require.NoError(t, root.Execute())
	help = out.String()
	assert.Contains(t, help, "KIT ENSURE")
	assert.Contains(t, help, "FLAGS")
	assert.Contains(t, help, "--max-retries")
	assert.Contains(t, help, "(default: 3)")
	assert.Contains(t, help, "• yaml")
	assert.Contains(t, help, "EXAMPLES")
	assert.Contains(t, help, "# make a directory")
}

func TestPrintError(t *testing.T) {
	cmd := &cobra.Command{Use: "kit"}
	var buf bytes.Buffer
	cmd.SetErr(&buf)
	PrintError(cmd, stderrors.New("boom"))
	assert.Equal(t, "Error: boom\nRun 'kit --help' for usage.\n", buf.String())
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "short", wrapText("short", 10))
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))
	assert.Equal(t, "a\nb", wrapText("a\nb", 10))
}

func TestParseChoices(t *testing.T) {
	desc, choices := parseChoices("Output format: text, json, or yaml (default text)")
	assert.Equal(t, "Output format: (default text)", desc)
	assert.Equal(t, []string{"text", "json", "yaml"}, choices)

	desc, choices = parseChoices("Mode: a, b")
	assert.Equal(t, "Mode: a, b", desc)
	assert.Nil(t, choices)
}

func TestParseDescription(t *testing.T) {
	desc, ex := parseDescription("Does things.\n\nExamples:\n  kit run")
	assert.Equal(t, "Does things.", desc)
	assert.Equal(t, "kit run", ex)

	desc, ex = parseDescription("No examples")
	assert.Equal(t, "No examples", desc)
	assert.Empty(t, ex)
}
