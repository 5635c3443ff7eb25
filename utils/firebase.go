package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	firebaseApp *firebase.App
	fcmClient   *messaging.Client
	fcmOnce     sync.Once
	fcmInitErr  error
)

// InitFirebase initializes the Firebase Admin SDK and FCM client once.
// A missing credentials file disables push notifications instead of failing
// the boot; the reason is kept for GetInitError.
func InitFirebase() error {
	fcmOnce.Do(func() {
		ctx := context.Background()

		credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsPath == "" {
			credentialsPath = os.Getenv("FCM_CREDENTIALS_PATH")
		}
		projectID := os.Getenv("FCM_PROJECT_ID")

		if credentialsPath == "" {
			fcmInitErr = fmt.Errorf("FCM_CREDENTIALS_PATH not set")
			return
		}
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			fcmInitErr = fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
			return
		}

		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID},
			option.WithCredentialsFile(credentialsPath))
		if err != nil {
			fcmInitErr = fmt.Errorf("firebase app initialization failed: %v", err)
			return
		}
		firebaseApp = app

		client, err := app.Messaging(ctx)
		if err != nil {
			fcmInitErr = fmt.Errorf("fcm client initialization failed: %v", err)
			return
		}
		fcmClient = client
		log.Println("✅ Firebase and FCM initialized for project:", projectID)
	})
	return fcmInitErr
}

// IsFCMEnabled reports whether push notifications can be sent.
func IsFCMEnabled() bool {
	return fcmClient != nil
}

// FCMClient returns the shared messaging client, or nil when FCM is disabled.
func FCMClient() *messaging.Client {
	return fcmClient
}

// GetInitError returns the reason FCM is disabled, if any.
func GetInitError() error {
	return fcmInitErr
}
