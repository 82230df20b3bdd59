package tray

import (
	"log/slog"
	"slices"
	"testing"
)

type fakePauser struct {
	paused bool
}

func (p *fakePauser) SetPaused(v bool) { p.paused = v }
func (p *fakePauser) Paused() bool     { return p.paused }

func TestTray_SyncToggleFollowsExternalPause(t *testing.T) {
	p := &fakePauser{}
	tr := New(p, "", func() {}, slog.New(slog.DiscardHandler))
	var titles []string
	tr.setToggleTitle = func(s string) { titles = append(titles, s) }

	tr.syncToggle()
	if len(titles) != 0 {
		t.Errorf("expected no update while unchanged, got %q", titles)
	}

	p.SetPaused(true)
	tr.syncToggle()
	tr.syncToggle()
	p.SetPaused(false)
	tr.syncToggle()

	want := []string{"Start controller input", "Pause controller input"}
	if !slices.Equal(titles, want) {
		t.Errorf("expected %q, got %q", want, titles)
	}
}

func TestToggleLabel(t *testing.T) {
	if got := toggleLabel(true); got != "Start controller input" {
		t.Errorf("expected start label, got %q", got)
	}
	if got := toggleLabel(false); got != "Pause controller input" {
		t.Errorf("expected pause label, got %q", got)
	}
}
