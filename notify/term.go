package notify

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

var styles = map[Severity]lipgloss.Style{
	Info:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")), // blue
	Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")), // green
	Failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),  // red
	Update:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")), // purple
}

// Terminal renders notifications as colored lines on a writer.
type Terminal struct {
	w io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Notify(msg string, sev Severity) {
	style, ok := styles[sev]
	if !ok {
		style = styles[Info]
	}
	fmt.Fprintln(t.w, style.Render(msg))
}

// LogSound stands in for an audio device: it logs which cue would play.
type LogSound struct {
	log *slog.Logger
}

func NewLogSound(log *slog.Logger) *LogSound {
	return &LogSound{log: log}
}

func (s *LogSound) Play(c Cue) {
	s.log.Debug("sound cue", "cue", c.String())
}
