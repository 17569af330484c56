// Package ghost manages the transient visual proxies of a drag: the
// cursor-following clone of the dragged item and the placeholder marking
// the prospective drop location.
//
// A Manager owns at most one ghost and one placeholder. Creating a new one
// implicitly destroys its predecessor, and destroying the manager removes
// both, so a session can never leak proxies into the tree regardless of how
// it ends.
package ghost

import (
	"strconv"

	"github.com/dshills/dragstorm/internal/dom"
)

// PlaceholderOpacity is the reduced opacity of the drop-location marker.
const PlaceholderOpacity = 0.4

// PlaceholderAttr marks placeholder elements in the tree, so item queries
// can exclude them without knowing which manager owns them.
const PlaceholderAttr = "data-placeholder"

// GhostOpacity is the working opacity of the cursor-following clone.
const GhostOpacity = 0.8

// Manager owns one zone's drag proxies.
type Manager struct {
	doc         *dom.Document
	ghost       *dom.Element
	placeholder *dom.Element

	// source is the element carrying the drag marker class while the
	// ghost exists.
	source      *dom.Element
	sourceClass string

	// grabOffset is the pointer position relative to the source's origin
	// at ghost creation, so the ghost tracks the grab point rather than
	// snapping its corner to the cursor.
	grabOffset dom.Point
}

// NewManager creates a proxy manager for the given document.
func NewManager(doc *dom.Document) *Manager {
	return &Manager{doc: doc}
}

// CreateGhost clones the dragged items into a cursor-following proxy on the
// document overlay and applies the drag marker class to the primary source.
// For a multi-drag, the first item is cloned and the proxy carries a
// data-count attribute folding the rest into one composite visual. Any
// prior ghost is destroyed first.
func (m *Manager) CreateGhost(items []*dom.Element, pointer dom.Point, ghostClass, dragClass string) *dom.Element {
	if len(items) == 0 {
		return nil
	}
	m.DestroyGhost()

	src := items[0]
	origin := src.BoundingRect().Origin()
	m.grabOffset = pointer.Sub(origin)

	g := src.Clone()
	// Only the allow-listed visual properties survive onto the detached
	// clone; transforms and transition state never do.
	g.ClearTransform()
	g.Style.Opacity = GhostOpacity
	g.Style.Absolute = true
	g.Style.Left = origin.X
	g.Style.Top = origin.Y
	g.AddClass(ghostClass)
	if len(items) > 1 {
		g.SetAttr("data-count", strconv.Itoa(len(items)))
	}
	m.doc.Overlay().AppendChild(g)

	src.AddClass(dragClass)
	m.ghost = g
	m.source = src
	m.sourceClass = dragClass
	return g
}

// UpdateGhostPosition moves the ghost so the grab point stays under the
// pointer. It is a no-op without a ghost.
func (m *Manager) UpdateGhostPosition(x, y float64) {
	if m.ghost == nil {
		return
	}
	m.ghost.Style.Left = x - m.grabOffset.X
	m.ghost.Style.Top = y - m.grabOffset.Y
	if m.ghost.Document() != nil {
		m.ghost.Document().Reflow()
	}
}

// Ghost returns the current ghost element, or nil.
func (m *Manager) Ghost() *dom.Element {
	return m.ghost
}

// CreatePlaceholder builds a drop-location marker with the reference
// element's footprint, reduced opacity, and the given class. Any prior
// placeholder is destroyed first. The placeholder starts detached; position
// it with UpdatePlaceholder.
func (m *Manager) CreatePlaceholder(ref *dom.Element, class string) *dom.Element {
	m.DestroyPlaceholder()

	w, h := ref.Size()
	p := dom.NewElement(w, h)
	p.Style.Opacity = PlaceholderOpacity
	p.AddClass(class)
	p.SetAttr(PlaceholderAttr, "true")
	m.placeholder = p
	return p
}

// UpdatePlaceholder inserts the placeholder into container before the given
// sibling; a nil before appends. It is a no-op without a placeholder.
func (m *Manager) UpdatePlaceholder(container, before *dom.Element) {
	if m.placeholder == nil {
		return
	}
	container.InsertBefore(m.placeholder, before)
}

// Placeholder returns the current placeholder element, or nil.
func (m *Manager) Placeholder() *dom.Element {
	return m.placeholder
}

// DestroyGhost removes the ghost and the drag marker class from its source.
func (m *Manager) DestroyGhost() {
	if m.ghost != nil {
		m.ghost.Remove()
		m.ghost = nil
	}
	if m.source != nil {
		m.source.RemoveClass(m.sourceClass)
		m.source = nil
		m.sourceClass = ""
	}
	m.grabOffset = dom.Point{}
}

// DestroyPlaceholder removes the placeholder from the tree.
func (m *Manager) DestroyPlaceholder() {
	if m.placeholder != nil {
		m.placeholder.Remove()
		m.placeholder = nil
	}
}

// Destroy removes both proxies. Safe to call repeatedly and in any session
// teardown path.
func (m *Manager) Destroy() {
	m.DestroyGhost()
	m.DestroyPlaceholder()
}
