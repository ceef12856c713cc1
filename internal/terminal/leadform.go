package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"leadchat-backend/internal/leads"
)

// ErrLeadFormAborted is returned when the visitor cancels the form.
var ErrLeadFormAborted = errors.New("lead form aborted")

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func validateEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("email is required")
	}
	if !leads.ValidEmail(s) {
		return errors.New("invalid email format")
	}
	return nil
}

func newLeadForm(rec *leads.Record) *huh.Form {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&rec.Name).Validate(validateName),
			huh.NewInput().Title("Email").Value(&rec.Email).Validate(validateEmail),
			huh.NewInput().Title("Phone (optional)").Value(&rec.Phone),
		),
	).WithTheme(huh.ThemeCharm())
	form.SubmitCmd = tea.Quit
	form.CancelCmd = tea.Quit
	return form
}

// PromptLead runs the lead form on in/out and returns what was entered.
func PromptLead(ctx context.Context, in io.Reader, out io.Writer) (leads.Record, error) {
	var rec leads.Record
	form := newLeadForm(&rec)
	p := tea.NewProgram(form, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return leads.Record{}, fmt.Errorf("run lead form: %w", err)
	}
	if f, ok := final.(*huh.Form); ok && f.State != huh.StateCompleted {
		return leads.Record{}, ErrLeadFormAborted
	}
	return rec.Normalize(), nil
}
