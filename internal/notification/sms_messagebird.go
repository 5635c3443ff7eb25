package notification

import (
	"fmt"

	messagebird "github.com/messagebird/go-rest-api/v9"
	"github.com/messagebird/go-rest-api/v9/sms"
)

// MessageBirdChannel sends SMS through the MessageBird REST API.
type MessageBirdChannel struct {
	accessKey  string
	originator string
	client     messagebird.Client
}

func NewMessageBirdChannel(accessKey, originator string) *MessageBirdChannel {
	ch := &MessageBirdChannel{accessKey: accessKey, originator: originator}
	if ch.IsConfigured() {
		ch.client = messagebird.New(accessKey)
	}
	return ch
}

func (m *MessageBirdChannel) Name() string { return "messagebird" }

func (m *MessageBirdChannel) IsConfigured() bool {
	return m.accessKey != "" && m.originator != ""
}

func (m *MessageBirdChannel) Send(to, message string) Outcome {
	if to == "" {
		return failure(ReasonEmptyRecipient)
	}
	if m.client == nil {
		return failure("MESSAGEBIRD_SDK_NOT_AVAILABLE")
	}

	msg, err := sms.Create(m.client, m.originator, []string{to}, message, nil)
	if err != nil {
		fmt.Printf("❌ MessageBird send to %s failed: %v\n", to, err)
		return failure(ReasonProviderError)
	}
	return success(msg.ID)
}
