// Package digest delivers the results of scheduled recommendation runs.
package digest

import (
	"encoding/json"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jordan-wright/email"

	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/recommend"
)

// Subject is the mail subject for a run.
func Subject(scope model.Scope, resp recommend.AllResponse) string {
	return fmt.Sprintf("Financial recommendations for %s (%s)", scope.String(), resp.GeneratedAt.Format("Jan 2, 2006"))
}

// Text renders a run as plain text, one section per recommendation type.
func Text(scope model.Scope, resp recommend.AllResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Financial recommendations for %s\n", scope.String())
	fmt.Fprintf(&b, "Generated %s\n", resp.GeneratedAt.Format(time.RFC1123))

	summaryWritten := false
	for _, t := range model.AllRecommendationTypes() {
		r, ok := resp.Results[t]
		if !ok {
			continue
		}
		title := strings.ToUpper(string(t))
		fmt.Fprintf(&b, "\n== %s ==\n", title)
		if !r.Success {
			fmt.Fprintf(&b, "%s (%s)\n", r.Message, r.Error)
			continue
		}

		if !summaryWritten {
			s := r.Data.FinancialSummary
			fmt.Fprintf(&b, "Net worth %.2f, monthly income %.2f, debt-to-income %.2f, credit utilization %.1f%%\n\n",
				s.NetWorth, s.MonthlyIncome, s.DebtToIncomeRatio, s.CreditUtilization)
			summaryWritten = true
		}
		b.WriteString(strings.TrimSpace(r.Data.Recommendations))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n%d of %d recommendation types succeeded.\n", resp.Succeeded, resp.Succeeded+resp.Failed)
	return b.String()
}

// WriteFile stores a run as JSON under dir and returns the file path.
func WriteFile(dir string, scope model.Scope, resp recommend.AllResponse) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("advice-%s-%s.json", fileSafe(scope.String()), resp.GeneratedAt.UTC().Format("20060102T150405Z"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode digest: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write digest: %w", err)
	}
	return path, nil
}

// MailConfig configures SMTP delivery.
type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
}

// Mailer delivers digests by e-mail.
type Mailer struct {
	send func(e *email.Email, addr string, auth smtp.Auth) error
	cfg  MailConfig
}

// NewMailer creates a mailer for cfg.
func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		cfg: cfg,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Message builds the e-mail for a run without sending it.
func (m *Mailer) Message(scope model.Scope, resp recommend.AllResponse) *email.Email {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = m.cfg.To
	e.Subject = Subject(scope, resp)
	e.Text = []byte(Text(scope, resp))
	return e
}

// Send mails a run.
func (m *Mailer) Send(scope model.Scope, resp recommend.AllResponse) error {
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	port := m.cfg.Port
	if port == "" {
		port = "587"
	}

	if err := m.send(m.Message(scope, resp), m.cfg.Host+":"+port, auth); err != nil {
		return fmt.Errorf("failed to send digest to %s: %w", strings.Join(m.cfg.To, ", "), err)
	}
	return nil
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
