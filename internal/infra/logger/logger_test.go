package logger

import "testing"

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", "api"); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

func TestNewAcceptsMixedCaseLevel(t *testing.T) {
	log, err := New(" WARN ", "api")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Fatalf("debug must be disabled at warn level")
	}
}
