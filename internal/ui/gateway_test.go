package ui

import (
	"strings"
	"testing"
)

func TestHeadlessManagerForceOverridesDetection(t *testing.T) {
	t.Parallel()

	hm := NewHeadlessManager()

	hm.ForceHeadless(true)
	if !hm.IsHeadless() {
		t.Error("IsHeadless() = false after ForceHeadless(true)")
	}

	hm.ForceHeadless(false)
	if hm.IsHeadless() {
		t.Error("IsHeadless() = true after ForceHeadless(false)")
	}
}

func TestHeadlessManagerClearForce(t *testing.T) {
	t.Parallel()

	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	hm.ClearForce()

	auto := NewHeadlessManager()
	if hm.IsHeadless() != auto.IsHeadless() {
		t.Error("ClearForce() must revert to automatic detection")
	}
}

func TestDefaultGatewayConfirmReturnsFallback(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	g := &defaultGateway{out: &out}

	got, err := g.Confirm("Delete everything?", false)
	if err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if got {
		t.Error("Confirm() = true, must return the safe fallback")
	}
	if !strings.Contains(out.String(), "no terminal attached") {
		t.Errorf("substituted answer must be noted, got %q", out.String())
	}

	got, err = g.Confirm("Proceed?", true)
	if err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if !got {
		t.Error("Confirm() = false for a true fallback")
	}
}

func TestDefaultGatewaySelectReturnsFallback(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	g := &defaultGateway{out: &out}

	got, err := g.Select("Browser engine", []string{"chromium", "firefox"}, "chromium")
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if got != "chromium" {
		t.Errorf("Select() = %q, want the fallback", got)
	}
}

func TestNewGatewayHeadlessWithoutTTY(t *testing.T) {
	// In a test run stdin is not a terminal, so a forced-headless
	// manager with no controlling tty lands on the default backend.
	hm := NewHeadlessManager()
	hm.ForceHeadless(true)

	var out strings.Builder
	g := NewGateway(hm, &out)

	if _, ok := g.(*formGateway); ok {
		t.Fatal("headless mode must not select the interactive form backend")
	}
}
