package target

import (
	"testing"
)

func TestClaude_BundleID(t *testing.T) {
	app := Claude()
	if app.BundleID != "com.anthropic.claudefordesktop" {
		t.Errorf("expected bundle id 'com.anthropic.claudefordesktop', got '%s'", app.BundleID)
	}
}

func TestClaude_Name(t *testing.T) {
	app := Claude()
	if app.Name != "Claude" {
		t.Errorf("expected Name 'Claude', got '%s'", app.Name)
	}
}

func TestApp_AssertionReason(t *testing.T) {
	reason := Claude().AssertionReason()
	if reason != "keepawake: Keeping system awake for Claude.app" {
		t.Errorf("unexpected reason '%s'", reason)
	}
}

func TestApp_Matches(t *testing.T) {
	app := Claude()

	if !app.Matches(ClaudeBundleID) {
		t.Error("expected target bundle id to match")
	}
	if app.Matches("com.apple.Safari") {
		t.Error("expected other bundle id not to match")
	}
	if app.Matches("") {
		t.Error("expected empty bundle id not to match")
	}
	if (App{}).Matches("") {
		t.Error("expected empty app not to match empty bundle id")
	}
}
