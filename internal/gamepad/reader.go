package gamepad

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/jupiterrider/purego-sdl3/sdl"
)

const pollDelayNS = 16_000_000 // ~60Hz

type joystickInfo struct {
	joystick *sdl.Joystick
	mapping  *DeviceMapping
	name     string
	id       sdl.JoystickID
}

// FrameFunc receives every event drained since the previous frame. It runs
// on the reader's locked OS thread.
type FrameFunc func(events []Event)

// Reader reads the SDL3 joystick API and turns it into a per-frame event batch.
type Reader struct {
	joysticks map[sdl.JoystickID]*joystickInfo
	activeID  sdl.JoystickID // the first connected joystick
	hasActive bool
	pending   []Event
	onInit    func()
	logger    *slog.Logger
}

func NewReader(logger *slog.Logger) *Reader {
	return &Reader{
		joysticks: make(map[sdl.JoystickID]*joystickInfo),
		pending:   make([]Event, 0, 64),
		logger:    logger,
	}
}

// OnInit registers a hook that runs right after SDL initialization.
func (r *Reader) OnInit(fn func()) {
	r.onInit = fn
}

// Run initializes SDL and runs the event loop on the current thread until ctx
// is cancelled. Every iteration drains all pending SDL events before calling
// frame, so a connect or disconnect is never split across frames.
func (r *Reader) Run(ctx context.Context, frame FrameFunc) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("sdl init: %s", sdl.GetError())
	}
	defer sdl.Quit()

	r.logger.Info("SDL3 joystick subsystem initialized")
	if r.onInit != nil {
		r.onInit()
	}

	// Check for already-connected joysticks
	for _, id := range sdl.GetJoysticks() {
		r.openJoystick(id)
	}

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		default:
		}

		r.processEvents()
		batch := r.pending
		frame(batch)
		r.pending = batch[:0]
		sdl.DelayNS(pollDelayNS)
	}
}

func (r *Reader) emit(events ...Event) {
	r.pending = append(r.pending, events...)
}

func (r *Reader) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			r.openJoystick(event.JDevice().Which)

		case sdl.EventJoystickRemoved:
			r.removeJoystick(event.JDevice().Which)

		case sdl.EventJoystickButtonDown, sdl.EventJoystickButtonUp:
			be := event.JButton()
			info, ok := r.active(be.Which)
			if !ok {
				continue
			}
			b, ok := info.mapping.button(int32(be.Button))
			if !ok {
				continue
			}
			v := 0.0
			if event.Type() == sdl.EventJoystickButtonDown {
				v = 1
			}
			r.emit(ButtonChanged(b, v))

		case sdl.EventJoystickAxisMotion:
			ae := event.JAxis()
			info, ok := r.active(ae.Which)
			if !ok {
				continue
			}
			if am, ok := info.mapping.axis(int32(ae.Axis)); ok {
				r.emit(am.Event(ae.Value))
			}

		case sdl.EventJoystickHatMotion:
			he := event.JHat()
			info, ok := r.active(he.Which)
			if !ok || !info.mapping.HasHat || he.Hat != 0 {
				continue
			}
			r.emit(HatEvents(he.Value)...)
		}
	}
}

func (r *Reader) active(id sdl.JoystickID) (*joystickInfo, bool) {
	if !r.hasActive || id != r.activeID {
		return nil, false
	}
	info, ok := r.joysticks[id]
	return info, ok
}

func (r *Reader) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := r.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		r.logger.Warn("Failed to open joystick", "id", instanceID, "error", sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	mapping := GetMapping(vendorID, productID)

	info := &joystickInfo{
		joystick: js,
		mapping:  mapping,
		name:     name,
		id:       jsID,
	}
	r.joysticks[jsID] = info

	r.logger.Info("Joystick connected",
		"name", name,
		"vid", fmt.Sprintf("%04X", vendorID),
		"pid", fmt.Sprintf("%04X", productID),
		"mapping", mapping.Name,
		"axes", sdl.GetNumJoystickAxes(js),
		"buttons", sdl.GetNumJoystickButtons(js),
		"hats", sdl.GetNumJoystickHats(js))

	// Use the first connected joystick as active
	if !r.hasActive {
		r.activate(info)
	}
}

// activate makes info the active joystick and emits Connected followed by a
// baseline of its current buttons and axes.
func (r *Reader) activate(info *joystickInfo) {
	r.activeID = info.id
	r.hasActive = true
	r.logger.Info("Active joystick set", "name", info.name, "id", info.id)

	r.emit(Connected(info.name, info.mapping.Name))
	r.emit(r.baseline(info)...)
}

func (r *Reader) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := r.joysticks[instanceID]
	if !exists {
		return
	}

	r.logger.Info("Joystick disconnected", "name", info.name)
	sdl.CloseJoystick(info.joystick)
	delete(r.joysticks, instanceID)

	if !r.hasActive || r.activeID != instanceID {
		return
	}
	r.hasActive = false
	r.emit(Disconnected())

	// Promote the next available joystick
	for _, js := range r.joysticks {
		if sdl.JoystickConnected(js.joystick) {
			r.activate(js)
			return
		}
	}
}

func (r *Reader) closeAll() {
	for id, info := range r.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(r.joysticks, id)
	}
	r.hasActive = false
}

func (r *Reader) baseline(info *joystickInfo) []Event {
	js := info.joystick
	mapping := info.mapping
	var events []Event

	for _, am := range mapping.Axes {
		events = append(events, am.Event(sdl.GetJoystickAxis(js, am.Index)))
	}

	numButtons := sdl.GetNumJoystickButtons(js)
	for _, bm := range mapping.Buttons {
		if bm.Index >= numButtons {
			continue
		}
		v := 0.0
		if sdl.GetJoystickButton(js, bm.Index) {
			v = 1
		}
		events = append(events, ButtonChanged(bm.Target, v))
	}

	if mapping.HasHat && sdl.GetNumJoystickHats(js) > 0 {
		events = append(events, HatEvents(sdl.GetJoystickHat(js, 0))...)
	}
	return events
}
