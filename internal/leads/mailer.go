package leads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/wneessen/go-mail"
)

const LeadSubject = "New Lead from AI Chatbot"

// well-known EMAIL_SERVICE names
var smtpHosts = map[string]string{
	"gmail":      "smtp.gmail.com",
	"googlemail": "smtp.gmail.com",
	"outlook":    "smtp-mail.outlook.com",
	"hotmail":    "smtp-mail.outlook.com",
	"office365":  "smtp.office365.com",
	"yahoo":      "smtp.mail.yahoo.com",
	"icloud":     "smtp.mail.me.com",
	"zoho":       "smtp.zoho.com",
	"sendgrid":   "smtp.sendgrid.net",
	"mailgun":    "smtp.mailgun.org",
}

// ResolveSMTPHost prefers an explicit host over a service name.
func ResolveSMTPHost(service, host string) (string, error) {
	if h := strings.TrimSpace(host); h != "" {
		return h, nil
	}
	s := strings.ToLower(strings.TrimSpace(service))
	if h, ok := smtpHosts[s]; ok {
		return h, nil
	}
	if s == "" {
		return "", errors.New("no smtp host or email service configured")
	}
	return "", fmt.Errorf("unknown email service %q; set EMAIL_SMTP_HOST", service)
}

type MailerConfig struct {
	Service  string
	Host     string
	Port     int
	Username string
	Password string
	To       string
}

type Mailer struct {
	host string
	port int
	user string
	pass string
	to   string
}

func NewMailer(cfg MailerConfig) (*Mailer, error) {
	host, err := ResolveSMTPHost(cfg.Service, cfg.Host)
	if err != nil {
		return nil, err
	}
	port := cfg.Port
	if port <= 0 {
		port = 587
	}
	return &Mailer{host: host, port: port, user: cfg.Username, pass: cfg.Password, to: cfg.To}, nil
}

func (m *Mailer) NotifyLead(ctx context.Context, lead Captured) error {
	body, err := renderLeadEmail(lead)
	if err != nil {
		return err
	}
	msg := mail.NewMsg()
	if err := msg.From(m.user); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(LeadSubject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.pass),
	}
	if m.port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

var leadEmailTmpl = template.Must(template.New("lead").Parse(`
<h2>New Lead Information</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Time:</strong> {{.Time}}</p>
`))

func renderLeadEmail(lead Captured) (string, error) {
	phone := lead.Record.Phone
	if phone == "" {
		phone = "Not provided"
	}
	var buf bytes.Buffer
	err := leadEmailTmpl.Execute(&buf, map[string]string{
		"Name":  lead.Record.Name,
		"Email": lead.Record.Email,
		"Phone": phone,
		"Time":  lead.CapturedAt.Format("Jan 2, 2006 3:04:05 PM MST"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
