// Package mouse provides the plugin-agnostic hit-testing and gesture
// dispatch the teacher's per-plugin mouse.go files each hand-roll (see
// internal/plugins/worktree/mouse.go's use of mouse.ActionClick,
// mouse.MouseAction, and p.mouseHandler.HandleMouse). Grove's sidebar and
// preview pane share one Handler instance instead of duplicating this
// per plugin.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// doubleClickWindow is how soon a second press on the same region counts as
// a double click.
const doubleClickWindow = 400 * time.Millisecond

// Rect is an axis-aligned hit region: [X, X+W) x [Y, Y+H), half-open so
// adjacent rects never overlap at their shared edge.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) falls inside the rect. A zero width or
// height rect contains nothing.
func (r Rect) Contains(x, y int) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region names one hit-testable area of the last rendered frame, with an
// opaque Data payload the caller attaches (row index, button kind, ...).
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap is the per-frame hit-test table the view layer rebuilds on every
// render and the controller queries on every mouse event.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region.
func (hm *HitMap) Add(id string, r Rect, data any) {
	hm.regions = append(hm.regions, Region{ID: id, Rect: r, Data: data})
}

// AddRect is a convenience wrapper over Add taking the rect fields directly.
func (hm *HitMap) AddRect(id string, x, y, w, h int, data any) {
	hm.Add(id, Rect{X: x, Y: y, W: w, H: h}, data)
}

// Test returns the most recently added region containing (x, y), or nil.
// Later-added regions win on overlap, matching the teacher's draw order
// (last drawn = topmost = highest hit priority).
func (hm *HitMap) Test(x, y int) *Region {
	for i := len(hm.regions) - 1; i >= 0; i-- {
		if hm.regions[i].Rect.Contains(x, y) {
			r := hm.regions[i]
			return &r
		}
	}
	return nil
}

// Clear drops every registered region, ready for the next frame.
func (hm *HitMap) Clear() {
	hm.regions = nil
}

// Regions returns a copy of the registered regions, safe for the caller to
// mutate without affecting the hit map.
func (hm *HitMap) Regions() []Region {
	out := make([]Region, len(hm.regions))
	copy(out, hm.regions)
	return out
}

// ActionType classifies a resolved mouse gesture.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
	ActionHover
)

// MouseAction is the resolved result of one tea.MouseMsg passed through a
// Handler.
type MouseAction struct {
	Type   ActionType
	Region *Region
	Delta  int // scroll amount, signed: negative = up/left, positive = down/right

	DragDX, DragDY int
}

// ClickResult is HandleClick's return value.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler turns raw tea.MouseMsg events into MouseAction values, tracking
// double-click and drag state across calls. HitMap is exported so callers
// populate it directly during their render pass.
type Handler struct {
	HitMap HitMap

	lastClickID   string
	lastClickTime time.Time

	dragging       bool
	dragRegion     string
	dragStartValue int
	dragStartX     int
	dragStartY     int
}

// NewHandler returns a ready-to-use Handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{}
}

// HandleClick resolves a press at (x, y) against HitMap, applying
// double-click detection: a second click on the same region within
// doubleClickWindow is a double click, which then resets — a third click
// starts a fresh pair rather than continuing to report double clicks.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	now := time.Now()

	if region == nil {
		h.lastClickID = ""
		return ClickResult{}
	}

	isDouble := h.lastClickID != "" && h.lastClickID == region.ID && now.Sub(h.lastClickTime) < doubleClickWindow
	if isDouble {
		h.lastClickID = ""
		return ClickResult{Region: region, IsDoubleClick: true}
	}

	h.lastClickID = region.ID
	h.lastClickTime = now
	return ClickResult{Region: region}
}

// StartDrag begins tracking a drag gesture anchored at (x, y), naming the
// dragged region and recording whatever value (e.g. sidebar ratio) the drag
// will adjust.
func (h *Handler) StartDrag(x, y int, region string, startValue int) {
	h.dragging = true
	h.dragRegion = region
	h.dragStartValue = startValue
	h.dragStartX = x
	h.dragStartY = y
}

// IsDragging reports whether a drag is in progress.
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion returns the name passed to StartDrag, or "" once EndDrag has
// been called.
func (h *Handler) DragRegion() string { return h.dragRegion }

// DragStartValue returns the value passed to StartDrag.
func (h *Handler) DragStartValue() int { return h.dragStartValue }

// DragDelta returns the offset of (x, y) from the drag's anchor point.
func (h *Handler) DragDelta(x, y int) (dx, dy int) {
	return x - h.dragStartX, y - h.dragStartY
}

// EndDrag stops tracking the current drag.
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
	h.dragStartValue = 0
}

// Clear resets the hit map and any in-progress click/drag tracking.
func (h *Handler) Clear() {
	h.HitMap.Clear()
	h.lastClickID = ""
	h.dragging = false
	h.dragRegion = ""
}

// HandleMouse resolves one tea.MouseMsg into a MouseAction: clicks (with
// double-click detection) hit-test the HitMap; scroll wheel events report a
// direction without a region; motion either updates an in-progress drag or reports a hover; release
// ends a drag if one was active.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			region := h.HitMap.Test(msg.X, msg.Y)
			if region == nil {
				h.lastClickID = ""
				return MouseAction{Type: ActionNone}
			}
			result := h.HandleClick(msg.X, msg.Y)
			if result.IsDoubleClick {
				return MouseAction{Type: ActionDoubleClick, Region: result.Region}
			}
			return MouseAction{Type: ActionClick, Region: result.Region}

		case tea.MouseButtonWheelUp:
			if msg.Shift {
				return MouseAction{Type: ActionScrollLeft}
			}
			return MouseAction{Type: ActionScrollUp, Delta: -3}

		case tea.MouseButtonWheelDown:
			if msg.Shift {
				return MouseAction{Type: ActionScrollRight}
			}
			return MouseAction{Type: ActionScrollDown, Delta: 3}

		case tea.MouseButtonWheelLeft:
			return MouseAction{Type: ActionScrollRight}

		case tea.MouseButtonWheelRight:
			return MouseAction{Type: ActionScrollLeft}
		}

	case tea.MouseActionMotion:
		if h.dragging {
			dx, dy := h.DragDelta(msg.X, msg.Y)
			return MouseAction{Type: ActionDrag, DragDX: dx, DragDY: dy}
		}
		return MouseAction{Type: ActionHover, Region: h.HitMap.Test(msg.X, msg.Y)}

	case tea.MouseActionRelease:
		if h.dragging {
			h.EndDrag()
			return MouseAction{Type: ActionDragEnd}
		}
	}

	return MouseAction{Type: ActionNone}
}
