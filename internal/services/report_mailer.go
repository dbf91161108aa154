package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/generalink/backend/internal/models"
)

// ReportMailer sends a SendGrid notification to the moderation inbox when an
// abuse report is filed. Delivery is best-effort; report persistence never
// depends on it.
type ReportMailer struct {
	apiKey     string
	fromEmail  string
	toEmail    string
	endpoint   string
	httpClient *http.Client
}

func NewReportMailer(apiKey, fromEmail, toEmail string) *ReportMailer {
	return &ReportMailer{
		apiKey:     strings.TrimSpace(apiKey),
		fromEmail:  strings.TrimSpace(fromEmail),
		toEmail:    strings.TrimSpace(toEmail),
		endpoint:   "https://api.sendgrid.com/v3/mail/send",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether all required settings are present.
func (m *ReportMailer) Configured() bool {
	return m != nil && m.apiKey != "" && m.fromEmail != "" && m.toEmail != ""
}

type sendGridEmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To         []sendGridEmailAddress `json:"to"`
	Subject    string                 `json:"subject"`
	CustomArgs map[string]string      `json:"custom_args,omitempty"`
}

type sendGridMailSendRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridEmailAddress      `json:"from"`
	Content          []sendGridContent         `json:"content"`
}

// NotifyReport emails the moderation inbox about a newly filed report.
func (m *ReportMailer) NotifyReport(ctx context.Context, conversationID string, rep *models.Report) error {
	if !m.Configured() {
		return fmt.Errorf("report mailer not configured")
	}

	plain := fmt.Sprintf(
		"Report: %s\nConversation: %s\nReported by: %s\nReason: %s\n\nDetails:\n%s\n",
		rep.ID, conversationID, rep.ReportedBy, rep.Reason, rep.Details,
	)

	reqBody := sendGridMailSendRequest{
		Personalizations: []sendGridPersonalization{
			{
				To:      []sendGridEmailAddress{{Email: m.toEmail}},
				Subject: fmt.Sprintf("Abuse report %s (%s)", rep.ID, rep.Reason),
				CustomArgs: map[string]string{
					"report_id": rep.ID,
				},
			},
		},
		From: sendGridEmailAddress{
			Email: m.fromEmail,
			Name:  "GeneraLink Moderation",
		},
		Content: []sendGridContent{
			{Type: "text/plain", Value: plain},
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// SendGrid returns 202 Accepted on success.
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid mail send http %d", resp.StatusCode)
	}
	return nil
}
