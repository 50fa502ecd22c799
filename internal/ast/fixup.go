package ast

import (
	"fmt"

	"github.com/cwrap/cwrap/internal/cursor"
)

// Unresolved describes a problem found by the fixup pass.
type Unresolved struct {
	Node NodeID
	Kind Kind
	Name string
	// Key is the identity that had no registered node. Empty when the node
	// itself has no fixup rule.
	Key    cursor.ID
	Reason string
}

func (u Unresolved) String() string {
	if u.Key != "" {
		return fmt.Sprintf("%s %q (#%d): %s: %s", u.Kind, u.Name, int(u.Node), u.Reason, u.Key)
	}
	return fmt.Sprintf("%s %q (#%d): %s", u.Kind, u.Name, int(u.Node), u.Reason)
}

const (
	reasonMissingTarget = "no declaration registered for identity"
	reasonNoRule        = "no fixup rule for node kind"

	// ReasonTooDeep reports a type cut off at the maximum nesting depth.
	ReasonTooDeep = "type nesting exceeds maximum depth"
)

// Tree is a resolved arena. No TypeRef reachable from a Tree is pending.
type Tree struct {
	arena      *Arena
	excluded   map[NodeID]bool
	unresolved []Unresolved
}

// Resolve runs the fixup pass: every pending TypeRef is replaced by the node
// registered under its identity. A missing type target becomes the unknown
// sentinel, a missing typedef link is cleared, and a node of a kind without
// a fixup rule is excluded from the tree. Missing targets and excluded nodes
// are reported after anything passed to Report.
//
// Resolve is idempotent; calling it again yields the same node graph.
func (a *Arena) Resolve() *Tree {
	t := &Tree{arena: a, excluded: make(map[NodeID]bool)}
	t.unresolved = append(t.unresolved, a.reports...)
	for i := 0; i < len(a.nodes); i++ {
		id := NodeID(i + 1)
		if !t.fixup(id, a.nodes[i]) {
			t.excluded[id] = true
			t.report(id, a.nodes[i], "", reasonNoRule)
		}
	}
	return t
}

// fixup applies the rule for n's kind and reports whether one exists.
func (t *Tree) fixup(id NodeID, n Node) bool {
	switch n := n.(type) {
	case *File, *Namespace, *Enumeration, *EnumValue, *Macro, *Alias, *Ignored:
	case *Struct:
		t.fixBases(id, n, n.Bases)
	case *Union:
		t.fixBases(id, n, n.Bases)
	case *Field:
		n.Type = t.fixType(id, n, n.Type)
	case *Typedef:
		n.Type = t.fixType(id, n, n.Type)
	case *Function:
		n.Returns = t.fixType(id, n, n.Returns)
	case *Argument:
		n.Type = t.fixType(id, n, n.Type)
	case *FunctionType:
		n.Returns = t.fixType(id, n, n.Returns)
	case *Variable:
		n.Type = t.fixType(id, n, n.Type)
	case *PointerType:
		n.Type = t.fixType(id, n, n.Type)
	case *ArrayType:
		n.Type = t.fixType(id, n, n.Type)
	case *CvQualifiedType:
		n.Type = t.fixType(id, n, n.Type)
	case *FundamentalType:
		if n.Decl.IsPending() {
			if target, ok := t.arena.Lookup(n.Decl.Key()); ok {
				n.Decl = Ref(target)
			} else {
				n.Decl = TypeRef{}
			}
		}
	default:
		return false
	}
	return true
}

func (t *Tree) fixBases(id NodeID, n Node, bases []TypeRef) {
	for i, b := range bases {
		bases[i] = t.fixType(id, n, b)
	}
}

func (t *Tree) fixType(id NodeID, n Node, r TypeRef) TypeRef {
	if !r.IsPending() {
		return r
	}
	if target, ok := t.arena.Lookup(r.Key()); ok {
		return Ref(target)
	}
	t.report(id, n, r.Key(), reasonMissingTarget)
	return Ref(t.arena.Unknown())
}

func (t *Tree) report(id NodeID, n Node, key cursor.ID, reason string) {
	t.unresolved = append(t.unresolved, Unresolved{
		Node:   id,
		Kind:   kindOf(n),
		Name:   n.Meta().Name,
		Key:    key,
		Reason: reason,
	})
}

// Node returns the node for id. Nodes excluded by the fixup pass are still
// returned; use Excluded to filter them.
func (t *Tree) Node(id NodeID) Node { return t.arena.Node(id) }

// Type returns the node a resolved reference points at.
func (t *Tree) Type(r TypeRef) Node { return t.arena.Node(r.ID()) }

// Lookup returns the node registered under key.
func (t *Tree) Lookup(key cursor.ID) (NodeID, bool) { return t.arena.Lookup(key) }

// Len returns the number of nodes.
func (t *Tree) Len() int { return t.arena.Len() }

// Excluded reports whether id had no fixup rule.
func (t *Tree) Excluded(id NodeID) bool { return t.excluded[id] }

// Unresolved returns the problems found by the fixup pass.
func (t *Tree) Unresolved() []Unresolved { return t.unresolved }

// Each calls fn for every node that was not excluded, in insertion order.
func (t *Tree) Each(fn func(NodeID, Node)) {
	for i, n := range t.arena.nodes {
		id := NodeID(i + 1)
		if t.excluded[id] {
			continue
		}
		fn(id, n)
	}
}
