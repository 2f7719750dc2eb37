package mailer

import (
	"context"
	"log"
)

// LogMailer writes reset tokens to the process log instead of sending
// mail. Good enough for dev and tests; swap for a real sender in prod.
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	log.Printf("mailer: password reset for %s: token=%s", email, token)
	return nil
}
