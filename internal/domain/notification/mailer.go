package notification

import (
	"context"
	"log"
	"time"
)

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

// Message is a rendered email ready for delivery.
type Message struct {
	ID          string       `json:"id"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ConsoleMailer logs messages instead of delivering them.
type ConsoleMailer struct {
	enabled bool
}

func NewConsoleMailer(enabled bool) *ConsoleMailer {
	return &ConsoleMailer{enabled: enabled}
}

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	if m.enabled {
		log.Printf("[DEV-EMAIL] id=%s to=%s subject=%q attachments=%d", msg.ID, msg.To, msg.Subject, len(msg.Attachments))
	}
	return nil
}
