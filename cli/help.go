package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxWidth = 72
	minWidth = 40
)

// helpStyles is the palette of the styled help output.
type helpStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	muted   lipgloss.Style
	italic  lipgloss.Style
	errTag  lipgloss.Style
}

func newHelpStyles(w io.Writer) helpStyles {
	r := lipgloss.NewRenderer(w)
	return helpStyles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		section: r.NewStyle().Italic(true).Foreground(lipgloss.Color("208")),
		command: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		flag:    r.NewStyle().Foreground(lipgloss.Color("13")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		italic:  r.NewStyle().Italic(true),
		errTag:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// terminalWidth returns the width of w when it is a terminal, capped at
// maxWidth.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return maxWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < minWidth || width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text at word boundaries, keeping existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}

	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}
		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp installs the styled help renderer on cmd.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive installs styled help on cmd and every
// subcommand. Call it after all subcommands are added.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// PrintError prints a styled error line and a help hint to the command's
// stderr.
func PrintError(cmd *cobra.Command, err error) {
	out := cmd.ErrOrStderr()
	s := newHelpStyles(out)
	fmt.Fprintf(out, "%s %s\n", s.errTag.Render("Error:"), err.Error())
	fmt.Fprintf(out, "%s\n", s.muted.Render(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath())))
}

// parseDescription splits a long description at its "Examples:" heading.
func parseDescription(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

func styledHelpFunc(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	s := newHelpStyles(out)
	width := terminalWidth(out) - 2

	fmt.Fprintln(out, " "+s.title.Render(strings.ToUpper(cmd.CommandPath())))

	description, examples := cmd.Short, ""
	if cmd.Long != "" {
		description, examples = parseDescription(cmd.Long)
	}
	if cmd.Short != "" {
		for _, line := range strings.Split(wrapText(cmd.Short, width), "\n") {
			fmt.Fprintln(out, " "+s.italic.Render(line))
		}
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(out)
		for _, line := range strings.Split(wrapText(description, width), "\n") {
			fmt.Fprintln(out, " "+line)
		}
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		fmt.Fprintln(out, "\n "+s.section.Render("USAGE"))
		if cmd.Runnable() {
			fmt.Fprintf(out, " %s\n", cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			fmt.Fprintf(out, " %s [command]\n", cmd.CommandPath())
		}
	}

	if cmd.HasAvailableSubCommands() {
		maxLen := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > maxLen {
				maxLen = len(sub.Name())
			}
		}
		fmt.Fprintln(out, "\n "+s.section.Render("COMMANDS"))
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				padding := strings.Repeat(" ", maxLen-len(sub.Name()))
				fmt.Fprintf(out, " %s%s  %s\n", s.command.Render(sub.Name()), padding, sub.Short)
			}
		}
	}

	printFlags(out, s, cmd)

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		fmt.Fprintln(out, "\n "+s.section.Render("EXAMPLES"))
		for _, line := range strings.Split(examples, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
				fmt.Fprintln(out)
			case strings.HasPrefix(trimmed, "#"):
				fmt.Fprintln(out, " "+s.muted.Render(trimmed))
			default:
				fmt.Fprintln(out, "   "+trimmed)
			}
		}
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(out, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// printFlags lists local flags in detail for leaf commands and inline for
// parent commands.
func printFlags(out io.Writer, s helpStyles, cmd *cobra.Command) {
	var visible []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			visible = append(visible, f)
		}
	})
	if len(visible) == 0 {
		return
	}

	if cmd.HasAvailableSubCommands() {
		names := make([]string, 0, len(visible))
		for _, f := range visible {
			if f.Shorthand != "" {
				names = append(names, fmt.Sprintf("-%s/--%s", f.Shorthand, f.Name))
			} else {
				names = append(names, "--"+f.Name)
			}
		}
		fmt.Fprintln(out, "\n "+s.muted.Render("Flags: "+strings.Join(names, ", ")))
		return
	}

	fmt.Fprintln(out, "\n "+s.section.Render("FLAGS"))
	maxLen := 0
	for _, f := range visible {
		if n := len(formatFlagName(f)); n > maxLen {
			maxLen = n
		}
	}
	for _, f := range visible {
		name := formatFlagName(f)
		usage, choices := parseChoices(f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" && f.DefValue != "0" {
			usage += s.muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
		}
		fmt.Fprintf(out, " %s%s  %s\n", s.flag.Render(name), strings.Repeat(" ", maxLen-len(name)), usage)
		for _, choice := range choices {
			fmt.Fprintf(out, " %s  %s\n", strings.Repeat(" ", maxLen), s.muted.Render("• "+choice))
		}
	}
}

// formatFlagName returns "-f, --flag" or "    --flag".
func formatFlagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}

// parseChoices splits a usage string of the form "Format: a, b, or c" into
// its description and the listed choices. Fewer than three choices are left
// inline.
func parseChoices(usage string) (string, []string) {
	colon := strings.Index(usage, ": ")
	if colon == -1 {
		return usage, nil
	}
	rest := usage[colon+2:]
	suffix := ""
	if end := strings.Index(rest, " ("); end != -1 {
		rest, suffix = rest[:end], rest[end:]
	}
	parts := strings.Split(rest, ", ")
	if len(parts) < 3 {
		return usage, nil
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(strings.TrimPrefix(p, "or "))
	}
	return usage[:colon+1] + suffix, parts
}
