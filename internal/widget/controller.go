package widget

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"leadchat-backend/internal/leads"
)

type State string

const (
	StateClosed        State = "CLOSED"
	StateOpenIdle      State = "OPEN_IDLE"
	StateOpenMinimized State = "OPEN_MINIMIZED"
	StateOpenWaiting   State = "OPEN_WAITING"
)

const (
	RelayApology = "I'm sorry, I'm having trouble connecting to the server. Please try again later."
	LeadApology  = "I'm sorry, I couldn't save your information. Please try again later."
)

// LeadThanks is the confirmation appended after a lead is stored.
func LeadThanks(name string) string {
	return fmt.Sprintf("Thank you, %s! I've received your information and our team will get back to you soon. How else can I help you today?", name)
}

// Snapshot is the read projection handed to a Renderer. A higher Version was
// taken later.
type Snapshot struct {
	Version         uint64
	State           State
	LeadFormVisible bool
	SessionID       string
	Turns           []Turn
}

// Renderer reflects controller state into a UI. It holds no authoritative state.
// Calls are serialized and never carry an older Version than the previous one.
// Render may read the controller but must not drive transitions.
type Renderer interface {
	Render(Snapshot)
}

type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) { f(s) }

// Controller is the conversation state machine for one session. UI events map
// to its methods; it knows nothing about how it is drawn.
type Controller struct {
	mu      sync.Mutex
	version uint64

	// renderMu orders Render calls; rendered is the last Version drawn.
	renderMu sync.Mutex
	rendered uint64

	sessionID string
	open      bool
	minimized bool
	inFlight  bool
	leadForm  bool

	store      *MessageStore
	relay      Relay
	submitter  LeadSubmitter
	classifier *Classifier
	renderer   Renderer
	greeting   string
	logger     zerolog.Logger
}

type ControllerOption func(*Controller)

func WithSessionID(id string) ControllerOption {
	return func(c *Controller) { c.sessionID = id }
}

func WithClassifier(cl *Classifier) ControllerOption {
	return func(c *Controller) { c.classifier = cl }
}

func WithRenderer(r Renderer) ControllerOption {
	return func(c *Controller) { c.renderer = r }
}

// WithGreeting seeds the transcript with a bot turn.
func WithGreeting(text string) ControllerOption {
	return func(c *Controller) { c.greeting = text }
}

func WithLogger(l zerolog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

func NewController(relay Relay, submitter LeadSubmitter, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:     NewMessageStore(),
		relay:     relay,
		submitter: submitter,
		logger:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.sessionID == "" {
		c.sessionID = NewSessionID()
	}
	if c.classifier == nil {
		c.classifier = NewClassifier()
	}
	c.logger = c.logger.With().Str("session_id", c.sessionID).Logger()
	if g := strings.TrimSpace(c.greeting); g != "" {
		c.store.Append(Turn{Role: RoleBot, Text: g})
	}
	return c
}

func (c *Controller) SessionID() string { return c.sessionID }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) LeadFormVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leadForm
}

// Turns returns the transcript in sequence order.
func (c *Controller) Turns() []Turn {
	return slices.Collect(c.store.All())
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// ToggleLauncher opens a closed widget or closes an open one. Opening always
// shows the full panel.
func (c *Controller) ToggleLauncher() State {
	c.mu.Lock()
	if c.open {
		c.open = false
	} else {
		c.open = true
		c.minimized = false
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)
	return snap.State
}

// Minimize hides the panel. A pending reply keeps running and shows up on Restore.
func (c *Controller) Minimize() error {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return ErrWidgetClosed
	}
	if c.minimized {
		c.mu.Unlock()
		return nil
	}
	c.minimized = true
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)
	return nil
}

func (c *Controller) Restore() error {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return ErrWidgetClosed
	}
	if !c.minimized {
		c.mu.Unlock()
		return nil
	}
	c.minimized = false
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)
	return nil
}

// SubmitUserText appends the user's turn and blocks on the relay. A relay
// failure is not returned: it becomes the apology turn. Only rejected input
// is reported as an error, and then nothing changes.
func (c *Controller) SubmitUserText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	switch {
	case !c.open:
		c.mu.Unlock()
		return ErrWidgetClosed
	case c.inFlight:
		c.mu.Unlock()
		return ErrRequestInFlight
	case text == "":
		c.mu.Unlock()
		return ErrEmptyMessage
	}
	c.inFlight = true
	c.minimized = false
	c.store.Append(Turn{Role: RoleUser, Text: text})
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)

	reply, err := c.relay.Send(ctx, c.sessionID, text)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.logger.Warn().Err(err).Str("kind", string(KindOf(err))).Msg("relay request failed")
		c.store.Append(Turn{Role: RoleBot, Text: RelayApology})
	} else {
		c.store.Append(Turn{Role: RoleBot, Text: reply})
		if c.classifier.ShouldPromptForContact(reply) {
			c.leadForm = true
		}
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)
	return nil
}

// SubmitLead validates rec locally and, if it passes, hides the form and
// sends it. Invalid records never reach the submitter and leave the form up.
func (c *Controller) SubmitLead(ctx context.Context, rec leads.Record) error {
	rec = rec.Normalize()

	c.mu.Lock()
	if !c.leadForm {
		c.mu.Unlock()
		return ErrLeadFormHidden
	}
	if err := rec.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.leadForm = false
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)

	_, err := c.submitter.Submit(ctx, c.sessionID, rec)

	c.mu.Lock()
	if err != nil {
		c.logger.Warn().Err(err).Str("kind", string(KindOf(err))).Msg("lead submission failed")
		c.store.Append(Turn{Role: RoleBot, Text: LeadApology})
	} else {
		c.store.Append(Turn{Role: RoleBot, Text: LeadThanks(rec.Name)})
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)
	return nil
}

func (c *Controller) stateLocked() State {
	switch {
	case !c.open:
		return StateClosed
	case c.minimized:
		return StateOpenMinimized
	case c.inFlight:
		return StateOpenWaiting
	default:
		return StateOpenIdle
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	c.version++
	return Snapshot{
		Version:         c.version,
		State:           c.stateLocked(),
		LeadFormVisible: c.leadForm,
		SessionID:       c.sessionID,
		Turns:           slices.Collect(c.store.All()),
	}
}

// render draws s unless a newer snapshot already reached the renderer.
func (c *Controller) render(s Snapshot) {
	if c.renderer == nil {
		return
	}
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if s.Version <= c.rendered {
		return
	}
	c.rendered = s.Version
	c.renderer.Render(s)
}
