package domain

import (
	"context"
	"fmt"
)

// ContactRequest is the raw contact form payload. Fields are validated by the
// usecase after sanitization, so no binding tags are declared here.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactSubmission is a sanitized, validated request
type ContactSubmission struct {
	Name    string
	Email   string
	Message string
}

// Notification is what a Notifier delivers
type Notification struct {
	SenderName  string
	SenderEmail string
	Text        string
}

// FormatNotification renders the plain-text body sent to the owner.
func FormatNotification(s ContactSubmission) Notification {
	return Notification{
		SenderName:  s.Name,
		SenderEmail: s.Email,
		Text:        fmt.Sprintf("From: %s\nEmail: %s\n\nMessage:\n%s", s.Name, s.Email, s.Message),
	}
}

// Notifier delivers a notification through one external channel.
// Notify makes exactly one outbound attempt and never retries.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n Notification) error
}

// SubmissionLogger records accepted submissions (development only)
type SubmissionLogger interface {
	Append(s ContactSubmission) error
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates and dispatches a contact form message
	SendContactMessage(ctx context.Context, req *ContactRequest) error
	// NotifierName reports the configured channel
	NotifierName() string
}
