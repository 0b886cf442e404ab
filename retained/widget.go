package retained

import (
	"sync"
	"sync/atomic"
)

// WidgetID uniquely identifies a widget.
type WidgetID uint64

var nextWidgetID atomic.Uint64

// Group gates interaction for a widget and its descendants. A group with
// Interactable false blocks every widget below it; IgnoreParentGroups stops
// ancestors' groups from being consulted.
type Group struct {
	Interactable       bool
	IgnoreParentGroups bool
}

// Widget is a node in the retained tree. It carries the hierarchy state that
// interaction gating depends on: whether it and its ancestors are active,
// whether it has been destroyed, and any interaction group.
type Widget struct {
	mu sync.RWMutex

	id       WidgetID
	name     string
	parent   *Widget
	children []*Widget

	activeSelf bool
	destroyed  bool
	group      *Group
	bounds     Bounds

	onActiveChange []func(active bool)
	onDestroy      []func()
}

// NewWidget creates an active, parentless widget.
func NewWidget(name string) *Widget {
	return &Widget{
		id:         WidgetID(nextWidgetID.Add(1)),
		name:       name,
		activeSelf: true,
	}
}

// ID returns the widget's unique identifier.
func (w *Widget) ID() WidgetID {
	return w.id
}

// Name returns the widget's name.
func (w *Widget) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// Parent returns the widget's parent, or nil for a root.
func (w *Widget) Parent() *Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.parent
}

// Children returns a copy of the widget's children.
func (w *Widget) Children() []*Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Widget, len(w.children))
	copy(out, w.children)
	return out
}

// AddChild attaches child, detaching it from any previous parent. It refuses
// w itself and any of w's ancestors, and reports whether child was attached.
func (w *Widget) AddChild(child *Widget) bool {
	if child == nil {
		return false
	}
	for p := w; p != nil; p = p.Parent() {
		if p == child {
			logger().Warn("refusing to add ancestor as child", "parent", w.ID(), "child", child.ID())
			return false
		}
	}
	if old := child.Parent(); old != nil {
		old.RemoveChild(child)
	}
	w.mu.Lock()
	w.children = append(w.children, child)
	w.mu.Unlock()

	child.mu.Lock()
	child.parent = w
	child.mu.Unlock()
	return true
}

// RemoveChild detaches child. It reports whether child was found.
func (w *Widget) RemoveChild(child *Widget) bool {
	w.mu.Lock()
	found := false
	for i, c := range w.children {
		if c == child {
			w.children = append(w.children[:i], w.children[i+1:]...)
			found = true
			break
		}
	}
	w.mu.Unlock()

	if found {
		child.mu.Lock()
		child.parent = nil
		child.mu.Unlock()
	}
	return found
}

// ActiveSelf returns the widget's own active flag, ignoring ancestors.
func (w *Widget) ActiveSelf() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeSelf
}

// IsActiveInHierarchy reports whether the widget and all its ancestors are
// active and the widget has not been destroyed.
func (w *Widget) IsActiveInHierarchy() bool {
	for n := w; n != nil; {
		n.mu.RLock()
		ok := n.activeSelf && !n.destroyed
		parent := n.parent
		n.mu.RUnlock()
		if !ok {
			return false
		}
		n = parent
	}
	return true
}

// SetActive sets the widget's own active flag. Active-change hooks fire on
// the widget and every descendant whose effective activity changed.
func (w *Widget) SetActive(active bool) {
	w.mu.Lock()
	if w.activeSelf == active || w.destroyed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	// Snapshot effective activity below w before and after the flip
	before := acquireActivitySet()
	defer releaseActivitySet(before)
	w.subtreeActivity(before)

	w.mu.Lock()
	w.activeSelf = active
	w.mu.Unlock()

	after := acquireActivitySet()
	defer releaseActivitySet(after)
	w.subtreeActivity(after)

	for n, was := range before {
		if now := after[n]; now != was {
			n.fireActiveChange(now)
		}
	}
}

// subtreeActivity records IsActiveInHierarchy for w and every descendant.
func (w *Widget) subtreeActivity(out map[*Widget]bool) {
	out[w] = w.IsActiveInHierarchy()

	w.mu.RLock()
	children := acquireWidgetSlice(len(w.children))
	copy(children, w.children)
	w.mu.RUnlock()

	for _, c := range children {
		c.subtreeActivity(out)
	}
	releaseWidgetSlice(children)
}

func (w *Widget) fireActiveChange(active bool) {
	w.mu.RLock()
	hooks := make([]func(bool), len(w.onActiveChange))
	copy(hooks, w.onActiveChange)
	w.mu.RUnlock()

	for _, fn := range hooks {
		fn(active)
	}
}

// OnActiveChange registers fn to run when the widget's effective activity changes.
func (w *Widget) OnActiveChange(fn func(active bool)) {
	w.mu.Lock()
	w.onActiveChange = append(w.onActiveChange, fn)
	w.mu.Unlock()
}

// OnDestroy registers fn to run once when the widget is destroyed.
func (w *Widget) OnDestroy(fn func()) {
	w.mu.Lock()
	w.onDestroy = append(w.onDestroy, fn)
	w.mu.Unlock()
}

// Destroy tears down the widget and its descendants. Destroyed widgets are
// never active again. Destroying twice is a no-op.
func (w *Widget) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	children := w.children
	w.children = nil
	parent := w.parent
	hooks := w.onDestroy
	w.onDestroy = nil
	w.onActiveChange = nil
	w.mu.Unlock()

	for _, c := range children {
		c.mu.Lock()
		c.parent = nil
		c.mu.Unlock()
		c.Destroy()
	}
	if parent != nil {
		parent.RemoveChild(w)
	}
	for _, fn := range hooks {
		fn()
	}
}

// IsDestroyed reports whether Destroy has been called.
func (w *Widget) IsDestroyed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.destroyed
}

// SetGroup attaches an interaction group to the widget. Nil removes it.
func (w *Widget) SetGroup(g *Group) {
	var cp *Group
	if g != nil {
		c := *g
		cp = &c
	}
	w.mu.Lock()
	w.group = cp
	w.mu.Unlock()
}

// Group returns a copy of the widget's interaction group and whether it has one.
func (w *Widget) Group() (Group, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.group == nil {
		return Group{}, false
	}
	return *w.group, true
}

// GroupsAllowInteraction walks from the widget towards the root and reports
// whether every group it passes allows interaction. The walk stops after the
// first group that ignores its parents.
func (w *Widget) GroupsAllowInteraction() bool {
	for n := w; n != nil; {
		n.mu.RLock()
		g := n.group
		parent := n.parent
		n.mu.RUnlock()

		if g != nil {
			if !g.Interactable {
				return false
			}
			if g.IgnoreParentGroups {
				return true
			}
		}
		n = parent
	}
	return true
}

// Bounds returns the widget's screen bounds.
func (w *Widget) Bounds() Bounds {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.bounds
}

// SetBounds sets the widget's screen bounds.
func (w *Widget) SetBounds(b Bounds) {
	w.mu.Lock()
	w.bounds = b
	w.mu.Unlock()
}

// HitTest returns true if the screen point lies within the widget's bounds.
func (w *Widget) HitTest(x, y float32) bool {
	return w.Bounds().Contains(x, y)
}

// CanReceiveEvents returns true for active, undestroyed widgets.
func (w *Widget) CanReceiveEvents() bool {
	return w.IsActiveInHierarchy()
}
