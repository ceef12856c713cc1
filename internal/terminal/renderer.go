// Package terminal draws a widget.Controller in a terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"leadchat-backend/internal/widget"
)

type styles struct {
	user   lipgloss.Style
	bot    lipgloss.Style
	status lipgloss.Style
	hint   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		user:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		bot:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		status: r.NewStyle().Faint(true),
		hint:   r.NewStyle().Italic(true).Foreground(lipgloss.Color("#FFB86C")),
	}
}

// Renderer prints each new turn once. While the widget is closed or minimized
// turns are held back and replayed when it becomes visible again.
type Renderer struct {
	mu       sync.Mutex
	out      io.Writer
	styles   styles
	markdown *glamour.TermRenderer

	printed   int
	state     widget.State
	leadShown bool

	held    bool
	pending *widget.Snapshot
}

type Option func(*Renderer) error

// WithMarkdown renders bot turns as markdown wrapped at width.
func WithMarkdown(width int) Option {
	return func(r *Renderer) error {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return fmt.Errorf("create markdown renderer: %w", err)
		}
		r.markdown = md
		return nil
	}
}

func NewRenderer(out io.Writer, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
		state:  widget.StateClosed,
	}
	for _, o := range opts {
		if err := o(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Hold stops output while something else owns the terminal. The latest
// snapshot is kept and drawn by Release.
func (r *Renderer) Hold() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.held = true
}

func (r *Renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.held = false
	if r.pending != nil {
		s := *r.pending
		r.pending = nil
		r.drawLocked(s)
	}
}

func (r *Renderer) Render(s widget.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.held {
		r.pending = &s
		return
	}
	r.drawLocked(s)
}

func (r *Renderer) drawLocked(s widget.Snapshot) {
	if s.State != r.state {
		fmt.Fprintln(r.out, r.styles.status.Render("["+describe(s.State)+"]"))
		r.state = s.State
	}
	if s.State == widget.StateClosed || s.State == widget.StateOpenMinimized {
		return
	}
	for _, t := range s.Turns {
		if t.Sequence < r.printed {
			continue
		}
		r.printTurn(t)
		r.printed = t.Sequence + 1
	}
	if s.LeadFormVisible && !r.leadShown {
		fmt.Fprintln(r.out, r.styles.hint.Render("Type /lead to leave your contact details."))
	}
	r.leadShown = s.LeadFormVisible
}

func (r *Renderer) printTurn(t widget.Turn) {
	if t.Role == widget.RoleUser {
		fmt.Fprintf(r.out, "%s %s\n", r.styles.user.Render("You:"), t.Text)
		return
	}
	text := t.Text
	if r.markdown != nil {
		if out, err := r.markdown.Render(text); err == nil {
			text = strings.TrimSpace(out)
		}
	}
	fmt.Fprintf(r.out, "%s %s\n", r.styles.bot.Render("Bot:"), text)
}

func describe(s widget.State) string {
	switch s {
	case widget.StateClosed:
		return "chat closed"
	case widget.StateOpenMinimized:
		return "chat minimized"
	case widget.StateOpenWaiting:
		return "bot is typing..."
	default:
		return "chat open"
	}
}
