package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
)

// TextFormatter renders entries as a single human-readable line:
//
//	2006-01-02 15:04:05 [INFO] [kit.reporter] message key=value
//
// Fields are printed in key order.
type TextFormatter struct {
	Config FormatConfig

	// Renderer styles the component name. A nil Renderer prints plain text.
	Renderer *lipgloss.Renderer
}

// NewTextFormatter returns a formatter whose component highlighting follows
// the color support of stderr.
func NewTextFormatter(cfg FormatConfig, colors bool) *TextFormatter {
	r := lipgloss.NewRenderer(GetGlobalOutput())
	if !colors {
		r.SetColorProfile(termenv.Ascii)
	}
	return &TextFormatter{Config: cfg, Renderer: r}
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteString(" ")
	}

	levelStr := entry.Level.String()
	if levelStr == "warning" {
		levelStr = "warn"
	}
	fmt.Fprintf(&b, "[%s]", strings.ToUpper(levelStr))

	if component, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		fmt.Fprintf(&b, " [%s]", f.component(fmt.Sprint(component)))
	}

	if entry.HasCaller() {
		fileName := filepath.Base(entry.Caller.File)
		funcName := filepath.Base(entry.Caller.Function)
		fmt.Fprintf(&b, " [%s:%d %s]", fileName, entry.Caller.Line, funcName)
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, entry.Data[key])
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}

func (f *TextFormatter) component(name string) string {
	if f.Renderer == nil {
		return name
	}
	return f.Renderer.NewStyle().Foreground(lipgloss.Color("13")).Bold(true).Render(name)
}
