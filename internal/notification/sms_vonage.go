package notification

import (
	"fmt"

	"github.com/vonage/vonage-go-sdk"
)

// VonageChannel sends SMS through the Vonage (formerly Nexmo) SMS API.
type VonageChannel struct {
	apiKey    string
	apiSecret string
	from      string
	client    *vonage.SMSClient
}

func NewVonageChannel(apiKey, apiSecret, from string) *VonageChannel {
	ch := &VonageChannel{apiKey: apiKey, apiSecret: apiSecret, from: from}
	if ch.IsConfigured() {
		auth := vonage.CreateAuthFromKeySecret(apiKey, apiSecret)
		ch.client = vonage.NewSMSClient(auth)
	}
	return ch
}

func (v *VonageChannel) Name() string { return "vonage" }

func (v *VonageChannel) IsConfigured() bool {
	return v.apiKey != "" && v.apiSecret != "" && v.from != ""
}

func (v *VonageChannel) Send(to, message string) Outcome {
	if to == "" {
		return failure(ReasonEmptyRecipient)
	}
	if v.client == nil {
		return failure("VONAGE_SDK_NOT_AVAILABLE")
	}

	resp, errResp, err := v.client.Send(v.from, to, message, vonage.SMSOpts{})
	if err != nil {
		fmt.Printf("❌ Vonage send to %s failed: %v\n", to, err)
		return failure(ReasonProviderError)
	}
	if len(resp.Messages) == 0 {
		fmt.Printf("❌ Vonage send to %s rejected: %+v\n", to, errResp)
		return failure(ReasonProviderError)
	}
	msg := resp.Messages[0]
	if msg.Status != "0" {
		fmt.Printf("❌ Vonage send to %s rejected: status=%s\n", to, msg.Status)
		return failure(ReasonProviderError)
	}
	return success(msg.MessageId)
}
