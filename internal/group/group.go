// Package group resolves cross-zone drag compatibility.
//
// Every zone belongs to a named group. A group's pull rule governs whether
// its items may leave for another group, and in what mode (move or clone);
// its put rule governs which groups it accepts items from. The resolver is
// pure: it holds no state beyond the rules it was built with.
package group

import (
	"errors"
	"fmt"
	"slices"
)

// ErrIncompatible is returned when a pull mode is requested for a pair of
// groups that cannot exchange items. Callers must test compatibility first.
var ErrIncompatible = errors.New("groups are not compatible")

// PullMode describes how content leaves its origin zone.
type PullMode uint8

const (
	// Move removes the item from the origin and inserts it at the target.
	Move PullMode = iota
	// Clone inserts a copy at the target and leaves the origin intact.
	Clone
)

// String returns the pull mode name.
func (m PullMode) String() string {
	if m == Clone {
		return "clone"
	}
	return "move"
}

// PullKind tags the variants of a pull rule.
type PullKind uint8

const (
	// PullDefault permits pulls only into a zone with the identical group
	// name. This is deliberately narrower than PullAlways: a default-pull
	// zone never exchanges items across group names even when the target
	// would accept them.
	PullDefault PullKind = iota
	// PullAlways permits pulls into any group whose put rule accepts this one.
	PullAlways
	// PullNever forbids items from leaving the zone.
	PullNever
	// PullClone behaves like PullAlways but the operation is always a clone.
	PullClone
	// PullAllow permits pulls only into the listed group names.
	PullAllow
)

// PullRule is the tagged pull variant of a group config.
type PullRule struct {
	Kind PullKind

	// Allow lists permitted target group names when Kind is PullAllow.
	Allow []string
}

// PutKind tags the variants of a put rule.
type PutKind uint8

const (
	// PutAlways accepts items from any compatible group.
	PutAlways PutKind = iota
	// PutNever accepts no incoming items.
	PutNever
	// PutAllow accepts items only from the listed group names.
	PutAllow
)

// PutRule is the tagged put variant of a group config.
type PutRule struct {
	Kind PutKind

	// Allow lists accepted source group names when Kind is PutAllow.
	Allow []string
}

// Policy is one zone's resolved group configuration. The zero value is a
// nameless group with default pull and put rules.
type Policy struct {
	// Name is the compatibility domain. Zones sharing a name always
	// exchange items regardless of pull and put rules.
	Name string

	// Pull governs whether items may leave this group.
	Pull PullRule

	// Put governs which groups this one accepts items from.
	Put PutRule

	// RevertClone, with a clone pull, leaves a copy holding the dragged
	// item's place in the origin while the original moves to the target.
	RevertClone bool
}

// Named returns a policy with the given name and default rules.
func Named(name string) Policy {
	return Policy{Name: name}
}

// CanPull returns true if items may leave this group at all.
func (p Policy) CanPull() bool {
	return p.Pull.Kind != PullNever
}

// CanPullTo returns true if this group's pull rule permits moving content
// toward the named target group. It does not consult the target's put rule.
func (p Policy) CanPullTo(target string) bool {
	switch p.Pull.Kind {
	case PullDefault:
		return p.Name == target
	case PullAlways, PullClone:
		return true
	case PullAllow:
		return slices.Contains(p.Pull.Allow, target)
	default:
		return false
	}
}

// CanPutFrom returns true if this group's put rule accepts content from the
// named source group.
func (p Policy) CanPutFrom(source string) bool {
	switch p.Put.Kind {
	case PutAlways:
		return true
	case PutAllow:
		return slices.Contains(p.Put.Allow, source)
	default:
		return false
	}
}

// PullModeTo returns the pull mode for moving content from this group into
// the target. It fails with ErrIncompatible when the pair cannot exchange
// items; compatibility must be checked before asking for a mode.
func (p Policy) PullModeTo(target Policy) (PullMode, error) {
	if !Compatible(p, target) {
		return Move, fmt.Errorf("%w: %q -> %q", ErrIncompatible, p.Name, target.Name)
	}
	if p.Pull.Kind == PullClone {
		return Clone, nil
	}
	return Move, nil
}

// Compatible reports whether content may travel from source to target.
// Zones with the identical group name are always compatible; otherwise the
// source must be able to pull to the target and the target must accept puts
// from the source.
func Compatible(source, target Policy) bool {
	if source.Name == target.Name {
		return true
	}
	return source.CanPullTo(target.Name) && target.CanPutFrom(source.Name)
}
