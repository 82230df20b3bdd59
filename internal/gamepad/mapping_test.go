package gamepad

import "testing"

func TestGetMapping_FallsBackToGeneric(t *testing.T) {
	if m := GetMapping(0x045E, 0x0B12); m.Name != "xbox" {
		t.Errorf("expected xbox, got %s", m.Name)
	}
	if m := GetMapping(0x054C, 0x0CE6); m.Name != "playstation" {
		t.Errorf("expected playstation, got %s", m.Name)
	}
	if m := GetMapping(0x1234, 0x5678); m.Name != "generic" {
		t.Errorf("expected generic, got %s", m.Name)
	}
}

func TestAxisMapping_Event(t *testing.T) {
	m := GetMapping(0x045E, 0x028E)

	am, ok := m.axis(1)
	if !ok {
		t.Fatal("axis 1 missing")
	}
	ev := am.Event(-32767)
	if ev.Type != EventAxis || ev.Stick != StickLeft || ev.Axis != AxisY || ev.Value != 1 {
		t.Errorf("stick pushed up should read +1 on left y, got %+v", ev)
	}

	am, _ = m.axis(5)
	ev = am.Event(32767)
	if ev.Type != EventButton || ev.Button != ButtonTriggerRight || ev.Value != 1 {
		t.Errorf("full right trigger should be a button event at 1, got %+v", ev)
	}
}

func TestDeviceMapping_PlaystationButtons(t *testing.T) {
	m := GetMapping(0x054C, 0x09CC)
	if b, ok := m.button(9); !ok || b != ButtonBumperLeft {
		t.Errorf("index 9 should be L1, got %v %v", b, ok)
	}
	if _, ok := m.button(5); ok {
		t.Errorf("the PS button has no logical binding")
	}
}

func TestHatEvents(t *testing.T) {
	events := HatEvents(hatUp | hatLeft)
	got := map[Button]float64{}
	for _, ev := range events {
		got[ev.Button] = ev.Value
	}
	want := map[Button]float64{
		ButtonDpadUp:    1,
		ButtonDpadLeft:  1,
		ButtonDpadDown:  0,
		ButtonDpadRight: 0,
	}
	for b, v := range want {
		if got[b] != v {
			t.Errorf("%s: expected %v, got %v", b, v, got[b])
		}
	}
}
