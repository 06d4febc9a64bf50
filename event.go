package framevk

import "fmt"

// EventType tags the payload of an Event.
type EventType uint8

// Event types.
const (
	EventNone EventType = iota
	EventClosed
	EventFocusChange
	EventCursorEnter
	EventMaximize
	EventIconify
	EventWindowMove
	EventWindowResize
	EventFramebufferResize
	EventCursor
	EventScroll
	EventKey
	EventMouseButton
	EventText
	EventFileDrop
)

var eventTypeNames = [...]string{
	EventNone:              "None",
	EventClosed:            "Closed",
	EventFocusChange:       "FocusChange",
	EventCursorEnter:       "CursorEnter",
	EventMaximize:          "Maximize",
	EventIconify:           "Iconify",
	EventWindowMove:        "WindowMove",
	EventWindowResize:      "WindowResize",
	EventFramebufferResize: "FramebufferResize",
	EventCursor:            "Cursor",
	EventScroll:            "Scroll",
	EventKey:               "Key",
	EventMouseButton:       "MouseButton",
	EventText:              "Text",
	EventFileDrop:          "FileDrop",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// Action is the state change of a key or button.
type Action int32

// Actions, matching GLFW values.
const (
	Release Action = 0
	Press   Action = 1
	Repeat  Action = 2
)

// KeyEvent is the payload of EventKey. Key and Mods use GLFW values.
type KeyEvent struct {
	Key      int32
	Scancode int32
	Action   Action
	Mods     int32
}

// ButtonEvent is the payload of EventMouseButton.
type ButtonEvent struct {
	Button int32
	Action Action
	Mods   int32
}

// Event is a window event. The payload accessors are only valid for the
// matching Type and panic otherwise.
type Event struct {
	typ    EventType
	b      bool
	u32    uint32
	uvec   UVec2
	ivec   IVec2
	dvec   DVec2
	key    KeyEvent
	button ButtonEvent
}

// Type returns the event tag.
func (e Event) Type() EventType { return e.typ }

func (e Event) check(t EventType) {
	if e.typ != t {
		panic(fmt.Sprintf("framevk: %v payload requested from %v event", t, e.typ))
	}
}

// FocusGained is valid for EventFocusChange.
func (e Event) FocusGained() bool { e.check(EventFocusChange); return e.b }

// CursorEntered is valid for EventCursorEnter.
func (e Event) CursorEntered() bool { e.check(EventCursorEnter); return e.b }

// Maximized is valid for EventMaximize.
func (e Event) Maximized() bool { e.check(EventMaximize); return e.b }

// Iconified is valid for EventIconify.
func (e Event) Iconified() bool { e.check(EventIconify); return e.b }

// Position is valid for EventWindowMove.
func (e Event) Position() IVec2 { e.check(EventWindowMove); return e.ivec }

// WindowSize is valid for EventWindowResize.
func (e Event) WindowSize() UVec2 { e.check(EventWindowResize); return e.uvec }

// FramebufferSize is valid for EventFramebufferResize.
func (e Event) FramebufferSize() UVec2 { e.check(EventFramebufferResize); return e.uvec }

// Cursor is valid for EventCursor.
func (e Event) Cursor() DVec2 { e.check(EventCursor); return e.dvec }

// Scroll is valid for EventScroll.
func (e Event) Scroll() DVec2 { e.check(EventScroll); return e.dvec }

// Key is valid for EventKey.
func (e Event) Key() KeyEvent { e.check(EventKey); return e.key }

// MouseButton is valid for EventMouseButton.
func (e Event) MouseButton() ButtonEvent { e.check(EventMouseButton); return e.button }

// Codepoint is valid for EventText.
func (e Event) Codepoint() rune { e.check(EventText); return rune(e.u32) }

// Drop is valid for EventFileDrop. It returns the index of the dropped
// path list in the poll's drop ring; see Poll.Paths.
func (e Event) Drop() int { e.check(EventFileDrop); return int(e.u32) }

// Event constructors, used by windowing backends to bridge native
// callbacks.

func ClosedEvent() Event { return Event{typ: EventClosed} }

func FocusEvent(gained bool) Event { return Event{typ: EventFocusChange, b: gained} }

func CursorEnterEvent(entered bool) Event { return Event{typ: EventCursorEnter, b: entered} }

func MaximizeEvent(maximized bool) Event { return Event{typ: EventMaximize, b: maximized} }

func IconifyEvent(iconified bool) Event { return Event{typ: EventIconify, b: iconified} }

func MoveEvent(x, y int) Event { return Event{typ: EventWindowMove, ivec: IVec2{int32(x), int32(y)}} }

func WindowResizeEvent(width, height int) Event {
	return Event{typ: EventWindowResize, uvec: UVec2{clampSize(width), clampSize(height)}}
}

func FramebufferResizeEvent(width, height int) Event {
	return Event{typ: EventFramebufferResize, uvec: UVec2{clampSize(width), clampSize(height)}}
}

func CursorEvent(x, y float64) Event { return Event{typ: EventCursor, dvec: DVec2{x, y}} }

func ScrollEvent(dx, dy float64) Event { return Event{typ: EventScroll, dvec: DVec2{dx, dy}} }

func KeyPressEvent(k KeyEvent) Event { return Event{typ: EventKey, key: k} }

func MouseButtonEvent(b ButtonEvent) Event { return Event{typ: EventMouseButton, button: b} }

func TextEvent(r rune) Event { return Event{typ: EventText, u32: uint32(r)} }

func clampSize(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
