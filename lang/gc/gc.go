// Package gc implements a non-moving mark-and-sweep heap, grounded
// directly on original_source/crates/gc/src/lib.rs's GarbageCollector:
// a slot table plus a free list for reuse (ObjectHeader -> slot,
// free_slots -> freeList), an explicit grey stack for marking rather than
// recursion, HEAP_GROW_FACTOR growth of the collection threshold, and a
// starting threshold of 1024 bytes. The slot/free-list bookkeeping style
// is cross-grounded on
// _examples/jcorbin-gothird/internal/mem/core.go's PagedCore, which reuses
// freed page slots the same way, adapted here from a paged byte store to
// a typed object-slot table.
//
// Where Rust's borrow checker forced collect_garbage's blacken step to
// temporarily "take" an object out of its slot before tracing it, Go has
// no such restriction: Heap.blacken calls Object.Trace directly against
// the live slot.
package gc

// Object is implemented by every heap-allocated value. Trace must call
// Heap.Mark on every Handle the object directly holds, so the collector
// can follow the reachability graph.
type Object interface {
	Trace(h *Heap)
}

// Handle is an opaque, typed-at-the-call-site reference to a heap object,
// grounded on the original's Ref<T> (an index plus a phantom type). Go has
// no phantom types, so Handle carries no static type; Deref does a
// dynamic type assertion instead, panicking on a mismatch the way
// Rust's downcast_ref().unwrap() would.
type Handle struct {
	index uint32
	valid bool
}

func (h Handle) String() string {
	if !h.valid {
		return "<nil>"
	}
	return "handle"
}

type slot struct {
	obj    Object
	marked bool
	size   int
}

// Heap owns every allocated Object.
type Heap struct {
	objects      []*slot
	freeList     []uint32
	grey         []uint32
	allocated    int
	nextGC       int
	growthFactor int
}

// DefaultInitialThreshold and DefaultGrowthFactor match the original's
// constants (1024 bytes, factor 2).
const (
	DefaultInitialThreshold = 1024
	DefaultGrowthFactor     = 2
)

// New returns a Heap with the given starting collection threshold and
// growth factor. Passing 0 for either uses the defaults.
func New(initialThreshold, growthFactor int) *Heap {
	if initialThreshold <= 0 {
		initialThreshold = DefaultInitialThreshold
	}
	if growthFactor <= 0 {
		growthFactor = DefaultGrowthFactor
	}
	return &Heap{nextGC: initialThreshold, growthFactor: growthFactor}
}

// objectSize charges every object the same fixed 40 bytes (a 24-byte
// stand-in for the slot header plus 16 for the object itself), whatever
// its kind or contents: o is not inspected, and nothing an object points
// to is counted.
func objectSize(o Object) int {
	const headerOverhead = 24 // rough stand-in for ObjectHeader's own fields
	return headerOverhead + 16
}

// Alloc stores v on the heap and returns a Handle to it.
func Alloc[T Object](h *Heap, v T) Handle {
	size := objectSize(v)
	h.allocated += size
	s := &slot{obj: v, size: size}

	var idx uint32
	if n := len(h.freeList); n > 0 {
		idx = h.freeList[n-1]
		h.freeList = h.freeList[:n-1]
		h.objects[idx] = s
	} else {
		idx = uint32(len(h.objects))
		h.objects = append(h.objects, s)
	}
	return Handle{index: idx, valid: true}
}

// Deref returns the object behind han, asserted to be of type T. It
// panics if han does not refer to a live object of that type.
func Deref[T Object](h *Heap, han Handle) T {
	if !han.valid || int(han.index) >= len(h.objects) || h.objects[han.index] == nil {
		panic("gc: dereference of invalid handle")
	}
	obj, ok := h.objects[han.index].obj.(T)
	if !ok {
		panic("gc: handle type mismatch")
	}
	return obj
}

// Mark marks han's object reachable, pushing it onto the grey stack for
// later tracing if it was not already marked.
func (h *Heap) Mark(han Handle) {
	if !han.valid {
		return
	}
	s := h.objects[han.index]
	if s == nil || s.marked {
		return
	}
	s.marked = true
	h.grey = append(h.grey, han.index)
}

func (h *Heap) blacken(idx uint32) {
	s := h.objects[idx]
	if s == nil {
		return
	}
	s.obj.Trace(h)
}

func (h *Heap) traceReferences() {
	for len(h.grey) > 0 {
		idx := h.grey[len(h.grey)-1]
		h.grey = h.grey[:len(h.grey)-1]
		h.blacken(idx)
	}
}

func (h *Heap) free(idx uint32) {
	s := h.objects[idx]
	h.allocated -= s.size
	h.objects[idx] = nil
	h.freeList = append(h.freeList, idx)
}

func (h *Heap) sweep() {
	for idx := range h.objects {
		s := h.objects[idx]
		if s == nil {
			continue
		}
		if s.marked {
			s.marked = false
		} else {
			h.free(uint32(idx))
		}
	}
}

// ShouldCollect reports whether allocated bytes have exceeded the current
// threshold.
func (h *Heap) ShouldCollect() bool { return h.allocated > h.nextGC }

// Collect marks every root via markRoots, traces from the grey stack,
// sweeps unmarked objects, then grows the threshold by the growth factor -
// the same five-step shape as original_source's collect_garbage, with
// root-marking made an explicit parameter since the heap itself has no
// notion of a VM's stack or globals.
func (h *Heap) Collect(markRoots func(*Heap)) {
	markRoots(h)
	h.traceReferences()
	h.sweep()
	h.nextGC = h.allocated * h.growthFactor
}

// CollectIfNeeded calls Collect only if ShouldCollect reports true.
func (h *Heap) CollectIfNeeded(markRoots func(*Heap)) {
	if h.ShouldCollect() {
		h.Collect(markRoots)
	}
}

// Allocated returns the number of bytes currently attributed to live
// objects, for tests and diagnostics.
func (h *Heap) Allocated() int { return h.allocated }
