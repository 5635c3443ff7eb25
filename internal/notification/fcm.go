package notification

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"

	"github.com/mithunkr7/event-invite-backend/utils"
)

// SendPush delivers a data-bearing notification to the given device tokens
// through FCM. Returns the number of successful deliveries and the tokens
// FCM reported as permanently invalid so the caller can prune them.
func SendPush(ctx context.Context, tokens []string, title, body string, data map[string]string) (sent int, stale []string) {
	if !utils.IsFCMEnabled() || len(tokens) == 0 {
		return 0, nil
	}
	client := utils.FCMClient()
	if client == nil {
		return 0, nil
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	resp, err := client.SendEachForMulticast(ctx, msg)
	if err != nil {
		log.Printf("❌ FCM multicast failed: %v", err)
		return 0, nil
	}

	for i, r := range resp.Responses {
		if r.Success {
			continue
		}
		if messaging.IsRegistrationTokenNotRegistered(r.Error) {
			stale = append(stale, tokens[i])
		}
	}
	if resp.FailureCount > 0 {
		log.Printf("⚠️ FCM push: %d sent, %d failed", resp.SuccessCount, resp.FailureCount)
	}
	return resp.SuccessCount, stale
}
