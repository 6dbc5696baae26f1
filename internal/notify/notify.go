// Package notify delivers run summaries through the configured
// notification methods (desktop, webhook).
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sysup/sysup/internal/common/logger"
	"github.com/sysup/sysup/internal/common/run"
)

// Notification methods
const (
	MethodDesktop = "desktop"
	MethodWebhook = "webhook"
)

// Urgency levels for desktop notifications
const (
	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"
)

// Manager sends notifications via the configured methods.
// Delivery is best-effort: failures are logged, never propagated.
type Manager struct {
	methods    []string
	webhookURL string
	runner     run.CommandRunner
	client     *retryClient
	log        *logger.Logger
}

// NewManager creates a notification manager.
// methods selects the delivery channels; webhookURL may be empty when the
// webhook method is not configured.
func NewManager(methods []string, webhookURL string, runner run.CommandRunner, log *logger.Logger) *Manager {
	return &Manager{
		methods:    methods,
		webhookURL: webhookURL,
		runner:     runner,
		client:     newRetryClient(DefaultRetryConfig()),
		log:        log,
	}
}

// Send delivers a notification through every configured method
func (m *Manager) Send(ctx context.Context, title, message, urgency string) {
	for _, method := range m.methods {
		switch method {
		case MethodDesktop:
			m.sendDesktop(ctx, title, message, urgency)
		case MethodWebhook:
			if m.webhookURL != "" {
				m.sendWebhook(ctx, title, message)
			}
		}
	}
}

// sendDesktop sends a desktop notification via notify-send
func (m *Manager) sendDesktop(ctx context.Context, title, message, urgency string) {
	if !m.runner.LookPath("notify-send") {
		return
	}

	if err := m.runner.Run(ctx, "notify-send", "-u", urgency, title, message); err != nil {
		m.log.Error("failed to send desktop notification: %v", err)
	}
}

// sendWebhook posts the notification in Discord/Slack webhook format
func (m *Manager) sendWebhook(ctx context.Context, title, message string) {
	payload, err := json.Marshal(map[string]string{
		"content": fmt.Sprintf("**%s**\n%s", title, message),
	})
	if err != nil {
		m.log.Error("failed to encode webhook payload: %v", err)
		return
	}

	if err := m.client.PostJSON(ctx, m.webhookURL, payload); err != nil {
		m.log.Error("failed to send webhook notification: %v", err)
	}
}
