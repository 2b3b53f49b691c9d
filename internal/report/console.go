package report

import (
	"io"

	"github.com/fatih/color"
)

// Console renders events as colored lines, one per event.
type Console struct {
	out     io.Writer
	info    *color.Color
	success *color.Color
	warn    *color.Color
	err     *color.Color
}

func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = color.Output
	}
	return &Console{
		out:     out,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed),
	}
}

func (c *Console) Report(e Event) {
	prefix := ""
	if e.Table != "" {
		prefix = "  "
	}

	switch e.Level {
	case LevelSuccess:
		c.success.Fprintf(c.out, "%s✅ %s\n", prefix, e.Message)
	case LevelWarn:
		c.warn.Fprintf(c.out, "%s⚠️  %s\n", prefix, e.Message)
	case LevelError:
		c.err.Fprintf(c.out, "%s❌ %s\n", prefix, e.Message)
	default:
		c.info.Fprintf(c.out, "%s%s\n", prefix, e.Message)
	}
}
