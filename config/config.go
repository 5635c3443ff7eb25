package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret    string
	JWTRefreshSecret   string
	JWTAccessTTLHours  int
	JWTRefreshTTLHours int

	// Redis (in-app alert pub/sub)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka (host alert fan-out)
	KafkaBrokers    string
	KafkaAlertTopic string

	// SMTP
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	// SMS providers. The active provider comes from the stored channel
	// settings first; these env values are the fallback for fresh deployments.
	SMSProvider      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	VonageAPIKey     string
	VonageAPISecret  string
	VonageFromNumber string
	PlivoAuthID      string
	PlivoAuthToken   string
	PlivoFromNumber  string
	MessageBirdKey   string
	MessageBirdFrom  string
	TextbeltKey      string

	// FCM
	FCMCredentialsPath string
	FCMProjectID       string

	// Reminder scheduler
	ReminderTickMinutes   int
	ReminderLookaheadDays int

	FrontendURL string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_HOURS"))
	refreshTTL, _ := strconv.Atoi(os.Getenv("JWT_REFRESH_TTL_HOURS"))
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	tick, _ := strconv.Atoi(os.Getenv("REMINDER_TICK_MINUTES"))
	if tick <= 0 {
		tick = 60 // hour-granularity reminder specs need an hourly pass
	}
	lookahead, _ := strconv.Atoi(os.Getenv("REMINDER_LOOKAHEAD_DAYS"))
	if lookahead <= 0 {
		lookahead = 30
	}

	return &Config{
		Port: os.Getenv("PORT"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTAccessSecret:    os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:   os.Getenv("JWT_REFRESH_SECRET"),
		JWTAccessTTLHours:  accessTTL,
		JWTRefreshTTLHours: refreshTTL,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaAlertTopic: os.Getenv("KAFKA_ALERT_TOPIC"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  os.Getenv("SMTP_FROM_NAME"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		SMSProvider:      os.Getenv("SMS_PROVIDER"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		VonageAPIKey:     os.Getenv("VONAGE_API_KEY"),
		VonageAPISecret:  os.Getenv("VONAGE_API_SECRET"),
		VonageFromNumber: os.Getenv("VONAGE_FROM_NUMBER"),
		PlivoAuthID:      os.Getenv("PLIVO_AUTH_ID"),
		PlivoAuthToken:   os.Getenv("PLIVO_AUTH_TOKEN"),
		PlivoFromNumber:  os.Getenv("PLIVO_FROM_NUMBER"),
		MessageBirdKey:   os.Getenv("MESSAGEBIRD_ACCESS_KEY"),
		MessageBirdFrom:  os.Getenv("MESSAGEBIRD_ORIGINATOR"),
		TextbeltKey:      os.Getenv("TEXTBELT_KEY"),

		FCMCredentialsPath: os.Getenv("FCM_CREDENTIALS_PATH"),
		FCMProjectID:       os.Getenv("FCM_PROJECT_ID"),

		ReminderTickMinutes:   tick,
		ReminderLookaheadDays: lookahead,

		FrontendURL: os.Getenv("FRONTEND_URL"),
	}
}
