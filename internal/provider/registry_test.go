package provider

import (
	"testing"

	"github.com/dropDatabas3/relay/internal/relay"
)

func testConfig() Config {
	creds := &Credentials{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost:4433/v1/x/finalise"}
	return Config{Twitch: creds, YouTube: creds, Kick: creds}
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(testConfig())

	for _, name := range []string{"twitch", "youtube", "kick"} {
		p, err := r.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) err: %v", name, err)
		}
		if p.Platform() != name {
			t.Fatalf("Platform mismatch: got %q want %q", p.Platform(), name)
		}
	}
}

func TestRegistry_Resolve_Normalizes(t *testing.T) {
	r := NewRegistry(testConfig())

	for _, name := range []string{"Twitch", "TWITCH", "  twitch  "} {
		p, err := r.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) err: %v", name, err)
		}
		if p.Platform() != "twitch" {
			t.Fatalf("Platform mismatch for %q: got %q", name, p.Platform())
		}
	}
}

func TestRegistry_Resolve_Unknown(t *testing.T) {
	r := NewRegistry(testConfig())

	_, err := r.Resolve("mixer")
	if relay.KindOf(err) != relay.KindUnknownPlatform {
		t.Fatalf("want unknown_platform, got %v", err)
	}
}

func TestRegistry_List_OnlyEnabled(t *testing.T) {
	creds := &Credentials{ClientID: "id", ClientSecret: "s", RedirectURL: "r"}
	r := NewRegistry(Config{Kick: creds, Twitch: creds})

	got := r.List()
	want := []string{"kick", "twitch"}
	if len(got) != len(want) {
		t.Fatalf("List mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List mismatch: got %v want %v", got, want)
		}
	}

	if _, err := r.Resolve("youtube"); relay.KindOf(err) != relay.KindUnknownPlatform {
		t.Fatalf("disabled platform must resolve as unknown, got %v", err)
	}
}
