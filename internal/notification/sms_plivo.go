package notification

import (
	"fmt"

	"github.com/plivo/plivo-go/v7"
)

// PlivoChannel sends SMS through the Plivo Messages API.
type PlivoChannel struct {
	authID    string
	authToken string
	from      string
	client    *plivo.Client
}

func NewPlivoChannel(authID, authToken, from string) *PlivoChannel {
	ch := &PlivoChannel{authID: authID, authToken: authToken, from: from}
	if ch.IsConfigured() {
		client, err := plivo.NewClient(authID, authToken, &plivo.ClientOptions{})
		if err != nil {
			fmt.Printf("❌ Plivo client init failed: %v\n", err)
		} else {
			ch.client = client
		}
	}
	return ch
}

func (p *PlivoChannel) Name() string { return "plivo" }

func (p *PlivoChannel) IsConfigured() bool {
	return p.authID != "" && p.authToken != "" && p.from != ""
}

func (p *PlivoChannel) Send(to, message string) Outcome {
	if to == "" {
		return failure(ReasonEmptyRecipient)
	}
	if p.client == nil {
		return failure("PLIVO_SDK_NOT_AVAILABLE")
	}

	resp, err := p.client.Messages.Create(plivo.MessageCreateParams{
		Src:  p.from,
		Dst:  to,
		Text: message,
	})
	if err != nil {
		fmt.Printf("❌ Plivo send to %s failed: %v\n", to, err)
		return failure(ReasonProviderError)
	}

	id := ""
	if len(resp.MessageUUID) > 0 {
		id = resp.MessageUUID[0]
	}
	return success(id)
}
