package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const textbeltEndpoint = "https://textbelt.com/text"

// TextbeltChannel sends SMS through the Textbelt HTTP API. Textbelt has no
// Go SDK; its API is a single form POST.
type TextbeltChannel struct {
	key        string
	httpClient *http.Client
}

func NewTextbeltChannel(key string) *TextbeltChannel {
	return &TextbeltChannel{
		key:        key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TextbeltChannel) Name() string { return "textbelt" }

func (t *TextbeltChannel) IsConfigured() bool {
	return t.key != ""
}

type textbeltResponse struct {
	Success bool        `json:"success"`
	TextID  json.Number `json:"textId"`
	Error   string      `json:"error"`
}

func (t *TextbeltChannel) Send(to, message string) Outcome {
	if to == "" {
		return failure(ReasonEmptyRecipient)
	}
	if !t.IsConfigured() {
		return failure("TEXTBELT_SDK_NOT_AVAILABLE")
	}

	form := url.Values{
		"phone":   {to},
		"message": {message},
		"key":     {t.key},
	}

	resp, err := t.httpClient.Post(textbeltEndpoint,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		fmt.Printf("❌ Textbelt send to %s failed: %v\n", to, err)
		return failure(ReasonProviderError)
	}
	defer resp.Body.Close()

	var body textbeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Printf("❌ Textbelt response decode failed: %v\n", err)
		return failure(ReasonProviderError)
	}
	if !body.Success {
		fmt.Printf("❌ Textbelt send to %s rejected: %s\n", to, body.Error)
		return failure(ReasonProviderError)
	}
	return success(body.TextID.String())
}
