package input

import "github.com/veandco/go-sdl2/sdl"

// Router dispatches events to viewer actions. Nil handlers are skipped.
type Router struct {
	// Keys maps a key to the action run on its first press. Auto-repeat is ignored.
	Keys map[sdl.Keycode]func()

	// Orbit receives left-button drag motion in pixels.
	Orbit func(dx, dy float32)
	// Pan receives right-button drag motion in pixels.
	Pan func(dx, dy float32)
	// Zoom receives wheel steps, positive away from the user.
	Zoom func(steps float32)

	Resize func(width, height int)
	Quit   func()

	buttons map[uint8]bool
}

// NewRouter creates a router with an empty key map.
func NewRouter() *Router {
	return &Router{
		Keys:    make(map[sdl.Keycode]func()),
		buttons: make(map[uint8]bool),
	}
}

// Bind maps a key to an action, replacing any previous binding.
func (r *Router) Bind(key sdl.Keycode, action func()) {
	r.Keys[key] = action
}

// Dragging reports whether a button is held.
func (r *Router) Dragging(button uint8) bool {
	return r.buttons[button]
}

// Handle dispatches one event.
func (r *Router) Handle(e Event) {
	if r.buttons == nil {
		r.buttons = make(map[uint8]bool)
	}

	switch e.Type {
	case EventQuit:
		if r.Quit != nil {
			r.Quit()
		}

	case EventWindowResize:
		if r.Resize != nil {
			r.Resize(e.Width, e.Height)
		}

	case EventKeyDown:
		if e.Repeat {
			return
		}
		if action, ok := r.Keys[e.Key]; ok && action != nil {
			action()
		}

	case EventMouseDown:
		r.buttons[e.Button] = true

	case EventMouseUp:
		delete(r.buttons, e.Button)

	case EventMouseMove:
		dx, dy := float32(e.RelX), float32(e.RelY)
		switch {
		case r.buttons[sdl.BUTTON_LEFT] && r.Orbit != nil:
			r.Orbit(dx, dy)
		case r.buttons[sdl.BUTTON_RIGHT] && r.Pan != nil:
			r.Pan(dx, dy)
		}

	case EventMouseWheel:
		if r.Zoom != nil && e.Wheel != 0 {
			r.Zoom(e.Wheel)
		}
	}
}
