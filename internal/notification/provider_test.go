package notification

import "testing"

func TestBuildSMSChannel_ProviderSelection(t *testing.T) {
	cases := []struct {
		provider string
		wantName string
	}{
		{ProviderTwilio, "twilio"},
		{ProviderVonage, "vonage"},
		{ProviderPlivo, "plivo"},
		{ProviderMessageBird, "messagebird"},
		{ProviderTextbelt, "textbelt"},
		{"", "none"},
		{"smoke-signals", "none"},
	}

	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			ch := buildSMSChannel(SMSConfig{Provider: tc.provider})
			if ch.Name() != tc.wantName {
				t.Fatalf("provider %q: got channel %q, want %q", tc.provider, ch.Name(), tc.wantName)
			}
		})
	}
}

func TestNoopChannel_ReportsNotConfigured(t *testing.T) {
	ch := buildSMSChannel(SMSConfig{})

	if ch.IsConfigured() {
		t.Fatal("empty config must not report as configured")
	}

	out := ch.Send("+15550001111", "hello")
	if out.Sent {
		t.Fatal("unconfigured channel must not report Sent")
	}
	if out.Reason != ReasonSMSNotConfigured {
		t.Fatalf("got reason %q, want %q", out.Reason, ReasonSMSNotConfigured)
	}
}

func TestChannels_MissingCredentialsNeverError(t *testing.T) {
	cases := []struct {
		name       string
		ch         SMSChannel
		wantReason string
	}{
		{"messagebird", NewMessageBirdChannel("", ""), "MESSAGEBIRD_SDK_NOT_AVAILABLE"},
		{"vonage", NewVonageChannel("", "", ""), "VONAGE_SDK_NOT_AVAILABLE"},
		{"plivo", NewPlivoChannel("", "", ""), "PLIVO_SDK_NOT_AVAILABLE"},
		{"twilio", NewTwilioChannel("", "", ""), "TWILIO_SDK_NOT_AVAILABLE"},
		{"textbelt", NewTextbeltChannel(""), "TEXTBELT_SDK_NOT_AVAILABLE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.ch.IsConfigured() {
				t.Fatal("channel without credentials must not report as configured")
			}
			out := tc.ch.Send("+15550004444", "hello")
			if out.Sent {
				t.Fatal("channel without credentials must not report Sent")
			}
			if out.Reason != tc.wantReason {
				t.Fatalf("got reason %q, want %q", out.Reason, tc.wantReason)
			}
		})
	}
}

func TestProviderCache_ReusesUntilConfigChanges(t *testing.T) {
	cache := NewProviderCache()

	cfg := SMSConfig{Provider: ProviderTextbelt, APIKey: "key-one"}
	first := cache.Get(cfg)
	second := cache.Get(cfg)
	if first != second {
		t.Fatal("identical config must reuse the cached provider instance")
	}

	changed := cache.Get(SMSConfig{Provider: ProviderTextbelt, APIKey: "key-two"})
	if changed == first {
		t.Fatal("changed credentials must rebuild the provider")
	}

	switched := cache.Get(SMSConfig{Provider: ProviderTwilio, AccountSID: "AC1", AuthToken: "tok", From: "+15550002222"})
	if switched.Name() != "twilio" {
		t.Fatalf("provider switch not applied, got %q", switched.Name())
	}

	back := cache.Get(SMSConfig{Provider: ProviderTextbelt, APIKey: "key-two"})
	if back == switched {
		t.Fatal("switching back must rebuild again, not reuse the wrong provider")
	}
}

func TestProviderCache_UnknownProviderFallsBack(t *testing.T) {
	cache := NewProviderCache()

	ch := cache.Get(SMSConfig{Provider: "carrier-pigeon"})
	out := ch.Send("+15550003333", "hello")
	if out.Sent || out.Reason != ReasonSMSNotConfigured {
		t.Fatalf("unknown provider must degrade to the unconfigured outcome, got %+v", out)
	}
}
