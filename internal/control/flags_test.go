package control

import "testing"

func TestTogglePause(t *testing.T) {
	f := NewFlags()
	if f.Paused() {
		t.Fatal("fresh flags start paused")
	}
	f.TogglePause()
	if !f.Paused() {
		t.Error("first toggle did not pause")
	}
	f.TogglePause()
	if f.Paused() {
		t.Error("second toggle did not resume")
	}
}

func TestStepIgnoredWhileRunning(t *testing.T) {
	f := NewFlags()
	f.RequestStep()
	if f.ConsumeStep() {
		t.Error("step request while running should be a no-op")
	}
}

func TestStepIsOneShot(t *testing.T) {
	f := NewFlags()
	f.TogglePause()
	f.RequestStep()
	if !f.ConsumeStep() {
		t.Fatal("armed step was not consumable")
	}
	if f.ConsumeStep() {
		t.Error("step request survived being consumed")
	}
}

func TestRepeatedStepRequestsCoalesce(t *testing.T) {
	f := NewFlags()
	f.TogglePause()
	f.RequestStep()
	f.RequestStep()
	f.RequestStep()
	if !f.ConsumeStep() {
		t.Fatal("armed step was not consumable")
	}
	if f.ConsumeStep() {
		t.Error("multiple presses within one window should arm a single step")
	}
}
