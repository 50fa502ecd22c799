package ast

import (
	"fmt"

	"github.com/cwrap/cwrap/internal/cursor"
)

// NodeID addresses a node in an Arena. The zero value is NoNode.
type NodeID int

// NoNode is the absent node.
const NoNode NodeID = 0

// TypeRef points at a type or declaration node. While a tree is being built
// it may instead hold the cursor identity of a declaration that has not been
// constructed yet.
type TypeRef struct {
	id      NodeID
	pending cursor.ID
}

// Ref returns a resolved reference to id.
func Ref(id NodeID) TypeRef { return TypeRef{id: id} }

// Pending returns a reference awaiting the node registered under key.
func Pending(key cursor.ID) TypeRef { return TypeRef{pending: key} }

// ID returns the referenced node, NoNode when the reference is pending or
// empty.
func (r TypeRef) ID() NodeID { return r.id }

// Key returns the awaited identity of a pending reference.
func (r TypeRef) Key() cursor.ID { return r.pending }

func (r TypeRef) IsPending() bool { return r.pending != "" }

// IsZero reports whether the reference points nowhere.
func (r TypeRef) IsZero() bool { return r.id == NoNode && r.pending == "" }

func (r TypeRef) String() string {
	switch {
	case r.IsPending():
		return fmt.Sprintf("pending(%s)", r.pending)
	case r.id == NoNode:
		return "none"
	default:
		return fmt.Sprintf("#%d", int(r.id))
	}
}

// Arena owns every node of one build together with the registry mapping
// cursor identities to nodes.
type Arena struct {
	nodes   []Node
	index   map[cursor.ID]NodeID
	unknown NodeID
	// reports holds problems found while building, before the fixup pass.
	reports []Unresolved
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{index: make(map[cursor.ID]NodeID)}
}

// Add stores a node that has no cursor identity (types, arguments).
func (a *Arena) Add(n Node) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes))
}

// Register stores n under key. If key is already registered nothing is
// stored and the existing node is returned with false.
func (a *Arena) Register(key cursor.ID, n Node) (NodeID, bool) {
	if id, ok := a.index[key]; ok {
		return id, false
	}
	id := a.Add(n)
	a.index[key] = id
	return id, true
}

// Alias makes key another identity of id. An already registered key keeps
// its node.
func (a *Arena) Alias(key cursor.ID, id NodeID) {
	if _, ok := a.index[key]; !ok {
		a.index[key] = id
	}
}

// Lookup returns the node registered under key.
func (a *Arena) Lookup(key cursor.ID) (NodeID, bool) {
	id, ok := a.index[key]
	return id, ok
}

// Node returns the node for id, nil for NoNode or an out of range id.
func (a *Arena) Node(id NodeID) Node {
	if id <= NoNode || int(id) > len(a.nodes) {
		return nil
	}
	return a.nodes[id-1]
}

// Len returns the number of nodes.
func (a *Arena) Len() int { return len(a.nodes) }

// Unknown returns the shared sentinel for types that could not be mapped.
func (a *Arena) Unknown() NodeID {
	if a.unknown == NoNode {
		a.unknown = a.Add(&FundamentalType{Common: Common{Name: UnknownTypeName}, Unknown: true})
	}
	return a.unknown
}

// Report records a problem found while building. Resolve returns it ahead
// of the problems found by the fixup pass.
func (a *Arena) Report(u Unresolved) {
	a.reports = append(a.reports, u)
}

// SetContext records the enclosing scope of id. A context that is already
// set is never replaced; the return value reports whether ctx was stored.
func (a *Arena) SetContext(id, ctx NodeID) bool {
	n := a.Node(id)
	if n == nil || n.Meta().Context != NoNode {
		return false
	}
	n.Meta().Context = ctx
	return true
}

// AddMember appends child to the member list of a scope node.
func (a *Arena) AddMember(scope, child NodeID) error {
	switch s := a.Node(scope).(type) {
	case *File:
		s.Children = append(s.Children, child)
	case *Namespace:
		s.Members = append(s.Members, child)
	case *Struct:
		s.Members = append(s.Members, child)
	case *Union:
		s.Members = append(s.Members, child)
	case *Enumeration:
		s.Values = append(s.Values, child)
	case *Ignored:
		s.Children = append(s.Children, child)
	default:
		return &ScopeError{Scope: scope, Kind: kindOf(s)}
	}
	return nil
}

// Elide detaches an anonymous record or enumeration from its enclosing
// scope's member list and marks it elided.
func (a *Arena) Elide(id NodeID) {
	n := a.Node(id)
	switch t := n.(type) {
	case *Struct:
		t.Elided = true
	case *Union:
		t.Elided = true
	case *Enumeration:
		t.Elided = true
	default:
		return
	}
	ctx := n.Meta().Context
	switch s := a.Node(ctx).(type) {
	case *File:
		s.Children = remove(s.Children, id)
	case *Namespace:
		s.Members = remove(s.Members, id)
	case *Struct:
		s.Members = remove(s.Members, id)
	case *Union:
		s.Members = remove(s.Members, id)
	case *Ignored:
		s.Children = remove(s.Children, id)
	}
}

func remove(ids []NodeID, id NodeID) []NodeID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

func kindOf(n Node) Kind {
	if n == nil {
		return KindInvalid
	}
	return n.Kind()
}

// ScopeError is returned when a node that cannot own members is used as a
// scope.
type ScopeError struct {
	Scope NodeID
	Kind  Kind
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("node #%d of kind %s is not a scope", int(e.Scope), e.Kind)
}
