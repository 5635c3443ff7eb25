package notification

import (
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioChannel sends SMS through the Twilio Messaging API.
type TwilioChannel struct {
	accountSID string
	authToken  string
	from       string
	client     *twilio.RestClient
}

func NewTwilioChannel(accountSID, authToken, from string) *TwilioChannel {
	ch := &TwilioChannel{accountSID: accountSID, authToken: authToken, from: from}
	if ch.IsConfigured() {
		ch.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
	return ch
}

func (t *TwilioChannel) Name() string { return "twilio" }

func (t *TwilioChannel) IsConfigured() bool {
	return t.accountSID != "" && t.authToken != "" && t.from != ""
}

func (t *TwilioChannel) Send(to, message string) Outcome {
	if to == "" {
		return failure(ReasonEmptyRecipient)
	}
	if t.client == nil {
		return failure("TWILIO_SDK_NOT_AVAILABLE")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		fmt.Printf("❌ Twilio send to %s failed: %v\n", to, err)
		return failure(ReasonProviderError)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	return success(sid)
}
