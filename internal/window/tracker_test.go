package window

import (
	"errors"
	"testing"

	"github.com/soar/exilepad/internal/aim"
)

type fakeSource struct {
	title      string
	x, y, w, h int
	err        error
}

func (f *fakeSource) ActiveTitle() string { return f.title }
func (f *fakeSource) ActiveBounds() (int, int, int, int, error) {
	return f.x, f.y, f.w, f.h, f.err
}

var screen = aim.Window{Width: 1920, Height: 1080}

func TestTracker_GameNotActive(t *testing.T) {
	src := &fakeSource{title: "Notepad", x: 10, y: 20, w: 300, h: 200}
	tr := NewTracker(src, "Path of Exile", true, screen)
	tr.Update()
	if tr.GameActive() {
		t.Errorf("expected game inactive")
	}
	if tr.Window() != screen {
		t.Errorf("expected fallback %v, got %v", screen, tr.Window())
	}
}

func TestTracker_FullscreenKeepsSize(t *testing.T) {
	src := &fakeSource{title: "Path of Exile", x: 1920, y: 0, w: 2560, h: 1440}
	tr := NewTracker(src, "path of exile", false, screen)
	tr.Update()
	want := aim.Window{X: 1920, Y: 0, Width: 1920, Height: 1080}
	if !tr.GameActive() || tr.Window() != want {
		t.Errorf("expected %v active, got %v active=%v", want, tr.Window(), tr.GameActive())
	}
}

func TestTracker_WindowedFollowsSize(t *testing.T) {
	src := &fakeSource{title: "Path of Exile 2", x: 100, y: 50, w: 1280, h: 720}
	tr := NewTracker(src, "Path of Exile", true, screen)
	tr.Update()
	want := aim.Window{X: 100, Y: 50, Width: 1280, Height: 720}
	if tr.Window() != want {
		t.Errorf("expected %v, got %v", want, tr.Window())
	}

	src.title = "Browser"
	tr.Update()
	if tr.Window() != screen || tr.GameActive() {
		t.Errorf("expected fallback after focus loss, got %v", tr.Window())
	}
}

func TestTracker_BoundsError(t *testing.T) {
	src := &fakeSource{title: "Path of Exile", err: errors.New("no window")}
	tr := NewTracker(src, "Path of Exile", true, screen)
	tr.Update()
	if tr.GameActive() || tr.Window() != screen {
		t.Errorf("expected fallback on error")
	}
}
