package notification

import (
	"log"
	"sync"
)

// Provider names accepted in channel settings.
const (
	ProviderTwilio      = "twilio"
	ProviderVonage      = "vonage"
	ProviderPlivo       = "plivo"
	ProviderMessageBird = "messagebird"
	ProviderTextbelt    = "textbelt"
)

// SMSConfig is the assembled provider configuration. It is comparable on
// purpose: the provider cache decides whether to rebuild by structural
// equality against the last-seen config.
type SMSConfig struct {
	Provider   string
	AccountSID string // twilio account sid / plivo auth id
	AuthToken  string // twilio auth token / plivo auth token
	APIKey     string // vonage key / messagebird access key / textbelt key
	APISecret  string // vonage secret
	From       string
}

// noopSMSChannel stands in when no provider is selected or the selected one
// has no credentials. It satisfies the contract without ever erroring.
type noopSMSChannel struct{}

func (noopSMSChannel) Name() string       { return "none" }
func (noopSMSChannel) IsConfigured() bool { return false }
func (noopSMSChannel) Send(_, _ string) Outcome {
	return failure(ReasonSMSNotConfigured)
}

// buildSMSChannel constructs the concrete provider for cfg. Every provider
// is compiled in; missing credentials degrade through IsConfigured.
func buildSMSChannel(cfg SMSConfig) SMSChannel {
	switch cfg.Provider {
	case ProviderTwilio:
		return NewTwilioChannel(cfg.AccountSID, cfg.AuthToken, cfg.From)
	case ProviderVonage:
		return NewVonageChannel(cfg.APIKey, cfg.APISecret, cfg.From)
	case ProviderPlivo:
		return NewPlivoChannel(cfg.AccountSID, cfg.AuthToken, cfg.From)
	case ProviderMessageBird:
		return NewMessageBirdChannel(cfg.APIKey, cfg.From)
	case ProviderTextbelt:
		return NewTextbeltChannel(cfg.APIKey)
	default:
		return noopSMSChannel{}
	}
}

// ProviderCache holds the active SMS provider. Provider construction may set
// up HTTP clients/sessions, so the instance is reused until the stored
// configuration actually changes.
type ProviderCache struct {
	mu       sync.Mutex
	lastCfg  SMSConfig
	active   SMSChannel
	hasValue bool
}

func NewProviderCache() *ProviderCache {
	return &ProviderCache{}
}

// Get returns the provider for cfg, rebuilding only when cfg differs
// structurally from the last-seen configuration.
func (c *ProviderCache) Get(cfg SMSConfig) SMSChannel {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasValue && c.lastCfg == cfg {
		return c.active
	}

	c.active = buildSMSChannel(cfg)
	c.lastCfg = cfg
	c.hasValue = true
	if cfg.Provider != "" {
		log.Printf("📱 SMS provider rebuilt: %s (configured=%v)", c.active.Name(), c.active.IsConfigured())
	}
	return c.active
}
