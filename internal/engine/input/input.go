// Package input drains the SDL event queue once per tick and exposes the
// result as plain values, so code above the engine never touches SDL
// directly.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType discriminates processed input events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event is one processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int32
	Height int32
	MouseX int32
	MouseY int32
	Button uint8
	WheelY float32
}

// State polls SDL once per tick and accumulates per-tick deltas on top of
// the raw event list: mouse drag while a button is held, wheel motion, and
// held-key state.
type State struct {
	events []Event

	mouseX, mouseY int32
	leftHeld       bool
	rightHeld      bool

	dragDX, dragDY float32
	wheel          float32

	held map[sdl.Scancode]bool
}

// New creates an empty input state.
func New() *State {
	return &State{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Poll drains the SDL event queue for this tick. Returns true when a quit
// was requested.
func (s *State) Poll() bool {
	s.events = s.events[:0]
	s.dragDX, s.dragDY = 0, 0
	s.wheel = 0

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.events = append(s.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				s.events = append(s.events, Event{
					Type:   EventWindowResize,
					Width:  e.Data1,
					Height: e.Data2,
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				s.held[e.Keysym.Scancode] = true
				s.events = append(s.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			} else if e.Type == sdl.KEYUP {
				delete(s.held, e.Keysym.Scancode)
				s.events = append(s.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseMotionEvent:
			if s.leftHeld || s.rightHeld {
				s.dragDX += float32(e.XRel)
				s.dragDY += float32(e.YRel)
			}
			s.mouseX, s.mouseY = e.X, e.Y
			s.events = append(s.events, Event{Type: EventMouseMove, MouseX: e.X, MouseY: e.Y})

		case *sdl.MouseButtonEvent:
			held := e.Type == sdl.MOUSEBUTTONDOWN
			switch e.Button {
			case sdl.BUTTON_LEFT:
				s.leftHeld = held
			case sdl.BUTTON_RIGHT:
				s.rightHeld = held
			}
			t := EventMouseUp
			if held {
				t = EventMouseDown
			}
			s.events = append(s.events, Event{Type: t, MouseX: e.X, MouseY: e.Y, Button: e.Button})

		case *sdl.MouseWheelEvent:
			s.wheel += float32(e.Y)
			s.events = append(s.events, Event{Type: EventMouseWheel, WheelY: float32(e.Y)})
		}
	}
	return quit
}

// Events returns the events drained by the last Poll.
func (s *State) Events() []Event { return s.events }

// MousePosition returns the last known cursor position.
func (s *State) MousePosition() (int32, int32) { return s.mouseX, s.mouseY }

// DragDelta returns the mouse motion accumulated this tick while a button
// was held.
func (s *State) DragDelta() (dx, dy float32) { return s.dragDX, s.dragDY }

// Dragging reports whether a mouse button is currently held.
func (s *State) Dragging() bool { return s.leftHeld || s.rightHeld }

// WheelDelta returns the wheel motion accumulated this tick.
func (s *State) WheelDelta() float32 { return s.wheel }

// KeyHeld reports whether the key is currently held down.
func (s *State) KeyHeld(sc sdl.Scancode) bool { return s.held[sc] }

// KeyPressed reports whether the key went down this tick.
func (s *State) KeyPressed(sc sdl.Scancode) bool {
	for _, e := range s.events {
		if e.Type == EventKeyDown && e.Key == sc {
			return true
		}
	}
	return false
}
