// Package tooltip positions the floating label shown over map regions.
//
// Placement is a pure function of the pointer, the map container and the
// hovered region; Controller owns the single tooltip state and applies it to
// an Element whenever a hover event arrives.
package tooltip

import (
	"strconv"
	"sync"
)

const (
	// Offset pulls the tooltip up and left of the cursor.
	Offset = 120
	// VisibleOpacity is the opacity of a shown tooltip.
	VisibleOpacity = 0.7
	// HiddenOpacity is the opacity of a hidden tooltip.
	HiddenOpacity = 0
)

// Point is a viewport position in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a bounding client rectangle; only the top-left corner is used.
type Rect struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// State is everything the tooltip element displays.
type State struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Label   string  `json:"label"`
	Opacity float64 `json:"opacity"`
}

// Visible reports whether the tooltip is shown.
func (s State) Visible() bool {
	return s.Opacity > HiddenOpacity
}

// Place computes the tooltip shown when pointer enters region inside container.
func Place(pointer Point, container Rect, regionID string) State {
	x := pointer.X - container.Left
	y := pointer.Y - container.Top
	return State{
		Left:    x - Offset,
		Top:     y - Offset,
		Label:   regionID,
		Opacity: VisibleOpacity,
	}
}

// Hide returns s with only the opacity changed.
func Hide(s State) State {
	s.Opacity = HiddenOpacity
	return s
}

// Element is the rendered tooltip.
type Element interface {
	SetPosition(left, top float64)
	SetLabel(text string)
	SetOpacity(opacity float64)
}

// Container reports the current bounding rectangle of the map.
type Container interface {
	Rect() Rect
}

// Controller drives one tooltip element from region hover events.
type Controller struct {
	mu        sync.Mutex
	state     State
	el        Element
	container Container
}

// NewController returns a controller for el, starting hidden.
func NewController(el Element, container Container) *Controller {
	return &Controller{el: el, container: container}
}

// Enter handles a pointer entering region at pointer.
// Every call recomputes and overwrites the previous state.
func (c *Controller) Enter(regionID string, pointer Point) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := Place(pointer, c.container.Rect(), regionID)
	c.el.SetPosition(next.Left, next.Top)
	c.el.SetLabel(next.Label)
	c.el.SetOpacity(next.Opacity)
	c.state = next
	return next
}

// Leave hides the tooltip, keeping its label and position.
func (c *Controller) Leave() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Hide(c.state)
	c.el.SetOpacity(c.state.Opacity)
	return c.state
}

// State returns the last applied state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Region is an interactive map shape that reports hover events.
type Region interface {
	ID() string
	OnHover(enter func(pointer Point), leave func())
}

// Bind registers enter and leave handlers on each region. Regions added
// later are not picked up.
func (c *Controller) Bind(regions []Region) {
	for _, r := range regions {
		id := r.ID()
		r.OnHover(
			func(p Point) { c.Enter(id, p) },
			func() { c.Leave() },
		)
	}
}

// CSS renders s as the style properties set on the tooltip element.
func (s State) CSS() map[string]string {
	return map[string]string{
		"left":    px(s.Left),
		"top":     px(s.Top),
		"opacity": strconv.FormatFloat(s.Opacity, 'f', -1, 64),
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
