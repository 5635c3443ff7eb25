package notification

import "errors"

// ErrEmailNotConfigured is returned by the email channel when SMTP
// credentials are absent. Callers catch and log it; an unconfigured email
// channel must never abort the write that triggered the send.
var ErrEmailNotConfigured = errors.New("email channel not configured")

// Outcome reasons shared across SMS providers.
const (
	ReasonSMSNotConfigured = "SMS_NOT_CONFIGURED"
	ReasonProviderError    = "PROVIDER_ERROR"
	ReasonEmptyRecipient   = "EMPTY_RECIPIENT"
)

// Outcome is the result contract every SMS provider returns. Expected failure
// modes (unconfigured channel, provider rejection) are reported here, never
// as an error.
type Outcome struct {
	Sent      bool   `json:"sent"`
	Reason    string `json:"reason,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// SMSChannel is the uniform contract the five providers implement. Callers
// never know which concrete provider is active.
type SMSChannel interface {
	Send(to, message string) Outcome
	IsConfigured() bool
	Name() string
}

func failure(reason string) Outcome {
	return Outcome{Sent: false, Reason: reason}
}

func success(messageID string) Outcome {
	return Outcome{Sent: true, MessageID: messageID}
}
