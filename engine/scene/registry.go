package scene

import (
	"sync"

	"github.com/Carmen-Shannon/penguin-paradise/engine/game_object"
)

type registry struct {
	mu       sync.RWMutex
	objects  []game_object.GameObject
	slots    map[int]struct{}
	capacity int
}

// Registry is an append-only collection of animated objects with at most one object per slot.
// There is no removal; objects live until the scene is torn down.
type Registry interface {
	// Register appends obj unless its slot is already filled or the registry is full.
	//
	// Parameters:
	//   - obj: the object to register
	//
	// Returns:
	//   - bool: true if obj was added
	Register(obj game_object.GameObject) bool

	// ForEach visits the objects registered at call time in insertion order.
	// Objects registered during the traversal are not visited.
	//
	// Parameters:
	//   - visit: called once per object
	ForEach(visit func(game_object.GameObject))

	// Len returns the number of registered objects.
	Len() int

	// Capacity returns the maximum number of objects, 0 when unbounded.
	Capacity() int

	// HasSlot reports whether an object is registered for slot.
	HasSlot(slot int) bool

	// Get returns the object registered for slot, or nil.
	Get(slot int) game_object.GameObject
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry holding at most capacity objects.
// A capacity below 1 leaves it unbounded.
//
// Parameters:
//   - capacity: the maximum object count
//
// Returns:
//   - Registry: the new registry
func NewRegistry(capacity int) Registry {
	return &registry{
		slots:    make(map[int]struct{}),
		capacity: max(capacity, 0),
	}
}

func (r *registry) Register(obj game_object.GameObject) bool {
	if obj == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.slots[obj.Slot()]; taken {
		return false
	}
	if r.capacity > 0 && len(r.objects) >= r.capacity {
		return false
	}
	r.slots[obj.Slot()] = struct{}{}
	r.objects = append(r.objects, obj)
	return true
}

func (r *registry) ForEach(visit func(game_object.GameObject)) {
	r.mu.RLock()
	// append-only: the prefix never changes, so the slice header is a stable snapshot
	snapshot := r.objects[:len(r.objects):len(r.objects)]
	r.mu.RUnlock()

	for _, obj := range snapshot {
		visit(obj)
	}
}

func (r *registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

func (r *registry) Capacity() int {
	return r.capacity
}

func (r *registry) HasSlot(slot int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.slots[slot]
	return ok
}

func (r *registry) Get(slot int) game_object.GameObject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, obj := range r.objects {
		if obj.Slot() == slot {
			return obj
		}
	}
	return nil
}
