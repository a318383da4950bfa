package domain

import (
	"time"

	"github.com/google/uuid"
)

// RelayStatus is the outcome of forwarding a contact message to the mail relay.
type RelayStatus string

const (
	RelaySent     RelayStatus = "sent"
	RelayRejected RelayStatus = "rejected"
	RelayFailed   RelayStatus = "failed"
)

// ContactRequest is the contact form as submitted by the visitor.
type ContactRequest struct {
	Name         string `validate:"required,max=200"`
	Email        string `validate:"required,email,max=320"`
	Message      string `validate:"required,max=5000"`
	CaptchaToken string
}

// ContactResult is what the visitor sees after submitting the form.
type ContactResult struct {
	Success bool
	Message string
}

// ContactMessage is the log record of one submission. The captcha token is
// never stored.
type ContactMessage struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Message      string
	RelayStatus  RelayStatus
	RelayMessage string
	CreatedAt    time.Time
}
