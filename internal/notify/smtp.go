package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/prestimate/prestimate/internal/domain"
)

// =============================================================================
// SMTP Sender Implementation
// =============================================================================

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string // SMTP server hostname (e.g., "localhost" for Mailhog)
	Port     int    // SMTP server port (e.g., 1025 for Mailhog)
	Username string // SMTP authentication username (empty for Mailhog)
	Password string // SMTP authentication password (empty for Mailhog)
	From     string // Sender email address
	FromName string // Sender display name
}

// SMTPSender emails the estimate summary to the business account's
// configured address.
type SMTPSender struct {
	config SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates a new SMTP-based notification sender.
func NewSMTPSender(config SMTPConfig, logger *slog.Logger) *SMTPSender {
	if config.From == "" {
		config.From = "estimates@prestimate.io"
	}
	if config.FromName == "" {
		config.FromName = "Prestimate"
	}
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// estimateEmailHTML renders the estimate summary body. Address is only
// present when the tier receives it.
var estimateEmailHTML = template.Must(template.New("estimate_created").Parse(`<h2>New estimate</h2>
<p><b>{{.Description}}</b></p>
<ul>
  {{if .Address}}<li>Address: {{.Address}}</li>{{end}}
  <li>Service: {{.ServiceKey}}</li>
  <li>Measurement: {{.Measurement}} {{.Unit}}</li>
  <li>Estimated cost: ${{.EstimatedCost}}</li>
</ul>
`))

// SendEstimateCreated emails one estimate summary.
func (s *SMTPSender) SendEstimateCreated(ctx context.Context, n domain.EstimateNotification) error {
	if n.Recipient == "" {
		return fmt.Errorf("notification has no recipient")
	}

	data := map[string]interface{}{
		"Description":   n.Description,
		"ServiceKey":    n.ServiceKey,
		"Measurement":   n.Measurement.String(),
		"Unit":          string(n.Unit),
		"EstimatedCost": n.EstimatedCost.StringFixed(2),
	}
	if n.Address != nil {
		data["Address"] = *n.Address
	}

	var html bytes.Buffer
	if err := estimateEmailHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render estimate email: %w", err)
	}

	textBody := fmt.Sprintf("New estimate: %s\nService: %s\nMeasurement: %s %s\nEstimated cost: $%s\n",
		n.Description, n.ServiceKey, n.Measurement.String(), n.Unit, n.EstimatedCost.StringFixed(2))
	if n.Address != nil {
		textBody += fmt.Sprintf("Address: %s\n", *n.Address)
	}

	msg := s.buildMessage(n.Recipient, "New estimate from your Prestimate widget", html.String(), textBody)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.From, []string{n.Recipient}, msg); err != nil {
		return fmt.Errorf("failed to send estimate email: %w", err)
	}

	s.logger.Info("estimate email sent", "to", n.Recipient, "service_key", n.ServiceKey)
	return nil
}

// buildMessage constructs the raw multipart message with headers.
func (s *SMTPSender) buildMessage(to, subject, htmlBody, textBody string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	boundary := "===============PRESTIMATE_BOUNDARY==============="
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
	buf.WriteString("\r\n")

	buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(textBody)
	buf.WriteString("\r\n")

	buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	buf.WriteString("\r\n")

	buf.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return buf.Bytes()
}
