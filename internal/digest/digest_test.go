package digest

import (
	"encoding/json"
	"errors"
	"net/smtp"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/recommend"
)

func sampleRun() recommend.AllResponse {
	return recommend.AllResponse{
		GeneratedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		Results: map[model.RecommendationType]recommend.Response{
			model.RecommendationBudget: {
				Success: true,
				Data: &recommend.RecommendationData{
					Type:             model.RecommendationBudget,
					Recommendations:  "Keep housing under a third of income.",
					FinancialSummary: recommend.FinancialSummary{NetWorth: 7500, MonthlyIncome: 5000, CreditUtilization: 25},
				},
			},
			model.RecommendationDebt: {
				Error:   recommend.ErrorTimeout,
				Message: recommend.UnavailableMessage,
			},
		},
		Succeeded: 1,
		Failed:    1,
	}
}

func TestText(t *testing.T) {
	text := Text(model.Scope{Owner: "alice"}, sampleRun())

	assert.Contains(t, text, "Financial recommendations for alice")
	assert.Contains(t, text, "== BUDGET ==")
	assert.Contains(t, text, "Keep housing under a third of income.")
	assert.Contains(t, text, "Net worth 7500.00")
	assert.Contains(t, text, "== DEBT ==")
	assert.Contains(t, text, "(timeout)")
	assert.Contains(t, text, "1 of 2 recommendation types succeeded.")
	assert.NotContains(t, text, "== CREDIT ==")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Financial recommendations for all (Jun 1, 2024)", Subject(model.Scope{}, sampleRun()))
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "digests")

	path, err := WriteFile(dir, model.Scope{Owner: "alice smith"}, sampleRun())
	require.NoError(t, err)
	assert.Equal(t, "advice-alice_smith-20240601T080000Z.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded recommend.AllResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.Succeeded)
	assert.True(t, decoded.Results[model.RecommendationBudget].Success)
}

func TestMailerSend(t *testing.T) {
	tests := []struct {
		sendErr  error
		name     string
		cfg      MailConfig
		wantAddr string
		wantAuth bool
		wantErr  bool
	}{
		{
			name:     "authenticated",
			cfg:      MailConfig{Host: "smtp.example.com", Port: "2525", Username: "u", Password: "p", From: "advise@example.com", To: []string{"alice@example.com"}},
			wantAddr: "smtp.example.com:2525",
			wantAuth: true,
		},
		{
			name:     "default port without auth",
			cfg:      MailConfig{Host: "localhost", From: "advise@example.com", To: []string{"alice@example.com"}},
			wantAddr: "localhost:587",
		},
		{
			name:    "send failure",
			cfg:     MailConfig{Host: "localhost", From: "advise@example.com", To: []string{"alice@example.com"}},
			sendErr: errors.New("connection refused"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMailer(tt.cfg)

			var (
				gotAddr string
				gotAuth smtp.Auth
				gotMsg  *email.Email
			)
			m.send = func(e *email.Email, addr string, auth smtp.Auth) error {
				gotMsg, gotAddr, gotAuth = e, addr, auth
				return tt.sendErr
			}

			err := m.Send(model.Scope{Owner: "alice"}, sampleRun())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "alice@example.com")
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantAddr, gotAddr)
			assert.Equal(t, tt.wantAuth, gotAuth != nil)
			assert.Equal(t, tt.cfg.From, gotMsg.From)
			assert.Equal(t, tt.cfg.To, gotMsg.To)
			assert.Contains(t, string(gotMsg.Text), "Keep housing under a third of income.")
		})
	}
}
