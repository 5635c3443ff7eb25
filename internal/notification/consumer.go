package notification

import (
	"context"
	"log"

	"github.com/mithunkr7/event-invite-backend/utils"
)

// StartKafkaConsumer runs the RSVP alert consumer loop until ctx is
// cancelled. Messages are committed after the handling attempt either way:
// a poisoned payload must not wedge the partition.
func StartKafkaConsumer(ctx context.Context, svc *Service) {
	reader := utils.NewAlertReader()
	defer reader.Close()

	log.Println("✅ RSVP alert consumer started")
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("🛑 RSVP alert consumer stopped")
				return
			}
			log.Printf("⚠️ Kafka fetch error: %v", err)
			continue
		}

		if err := svc.HandleAlert(ctx, msg.Value); err != nil {
			log.Printf("❌ Alert handling failed (offset %d): %v", msg.Offset, err)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Printf("⚠️ Kafka commit failed: %v", err)
		}
	}
}
