package retained

import "sync"

// ============================================================================
// Widget Slice Pooling
// ============================================================================
//
// SetActive walks the whole subtree twice, copying children under each
// node's read lock. These pools keep that walk from allocating per node.
//
// Usage:
//   children := acquireWidgetSlice(len(w.children))
//   copy(children, w.children)
//   ... use children ...
//   releaseWidgetSlice(children)

var widgetSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]*Widget, 0, 16)
	},
}

// acquireWidgetSlice gets a widget slice from the pool with len == n.
// Caller must call releaseWidgetSlice when done.
func acquireWidgetSlice(n int) []*Widget {
	slice := widgetSlicePool.Get().([]*Widget)
	if cap(slice) < n {
		widgetSlicePool.Put(slice[:0])
		return make([]*Widget, n, n*2)
	}
	return slice[:n]
}

// releaseWidgetSlice returns a widget slice to the pool.
// The slice should not be used after calling this.
func releaseWidgetSlice(slice []*Widget) {
	if slice == nil {
		return
	}
	clear(slice)
	if cap(slice) <= 256 {
		widgetSlicePool.Put(slice[:0])
	}
}

// ============================================================================
// Activity Snapshot Pooling
// ============================================================================

var activitySetPool = sync.Pool{
	New: func() interface{} {
		return make(map[*Widget]bool, 32)
	},
}

// acquireActivitySet gets an empty map for a subtree activity snapshot.
func acquireActivitySet() map[*Widget]bool {
	return activitySetPool.Get().(map[*Widget]bool)
}

// releaseActivitySet clears m and returns it to the pool.
func releaseActivitySet(m map[*Widget]bool) {
	if m == nil {
		return
	}
	clear(m)
	activitySetPool.Put(m)
}
