package choreo

import (
	"fmt"
	"sort"

	"github.com/Faultbox/pourglass/internal/anim"
	"github.com/Faultbox/pourglass/internal/engine/mesh"
	"github.com/Faultbox/pourglass/internal/scene"
	"github.com/Faultbox/pourglass/pkg/math"
)

// ID identifies an inclusion. IDs are never reused.
type ID uint64

// Kind of inclusion.
type Kind uint8

const (
	KindIce Kind = iota
	KindGarnish
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIce:
		return "ice"
	case KindGarnish:
		return "garnish"
	default:
		return "unknown"
	}
}

// State of an inclusion.
type State uint8

const (
	StateHiddenAbove State = iota
	StateFalling
	StateSettled
	StateSettledBobbing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateHiddenAbove:
		return "hidden-above"
	case StateFalling:
		return "falling"
	case StateSettled:
		return "settled"
	case StateSettledBobbing:
		return "settled-bobbing"
	default:
		return "unknown"
	}
}

// Item describes an inclusion to stage.
type Item struct {
	Name       string
	Kind       Kind
	Attachment string
	Mesh       *mesh.Mesh
	Color      [4]float32
	Scale      float32
	Rotation   math.Quat
}

// Inclusion is a staged solid object. Position is in the vessel frame.
type Inclusion struct {
	ID       ID
	Name     string
	Kind     Kind
	Owner    anim.Owner
	Position math.Vec3
	Rest     math.Vec3
	Scale    float32
	Rotation math.Quat
	State    State
	Node     *scene.Node
}

// Key is the inclusion's name qualified by its vessel lifetime.
func (i *Inclusion) Key() string {
	return key(i.Owner, i.Name)
}

func key(owner anim.Owner, name string) string {
	return fmt.Sprintf("%s@%d", name, owner)
}

// move sets the position and mirrors it onto the node.
func (i *Inclusion) move(p math.Vec3) {
	i.Position = p
	if i.Node != nil {
		i.Node.Position = p
	}
}

// Registry owns live inclusions by ID.
type Registry struct {
	items map[ID]*Inclusion
	byKey map[string]ID
	next  ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		items: make(map[ID]*Inclusion),
		byKey: make(map[string]ID),
	}
}

// Add assigns inc a fresh ID and stores it.
func (r *Registry) Add(inc *Inclusion) ID {
	r.next++
	inc.ID = r.next
	r.items[inc.ID] = inc
	r.byKey[inc.Key()] = inc.ID
	return inc.ID
}

// Get returns a live inclusion.
func (r *Registry) Get(id ID) (*Inclusion, bool) {
	inc, ok := r.items[id]
	return inc, ok
}

// Lookup returns a live inclusion by its key.
func (r *Registry) Lookup(key string) (*Inclusion, bool) {
	id, ok := r.byKey[key]
	if !ok {
		return nil, false
	}
	return r.Get(id)
}

// Remove deletes an inclusion and returns it.
func (r *Registry) Remove(id ID) (*Inclusion, bool) {
	inc, ok := r.items[id]
	if !ok {
		return nil, false
	}
	delete(r.items, id)
	if r.byKey[inc.Key()] == id {
		delete(r.byKey, inc.Key())
	}
	return inc, true
}

// Owned returns the live inclusions of owner ordered by ID.
func (r *Registry) Owned(owner anim.Owner) []*Inclusion {
	var out []*Inclusion
	for _, inc := range r.items {
		if inc.Owner == owner {
			out = append(out, inc)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// All returns every live inclusion ordered by ID.
func (r *Registry) All() []*Inclusion {
	out := make([]*Inclusion, 0, len(r.items))
	for _, inc := range r.items {
		out = append(out, inc)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Len returns the number of live inclusions.
func (r *Registry) Len() int {
	return len(r.items)
}
