package dom

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Style is an element's inline presentation state.
type Style struct {
	// Opacity in [0, 1]. New elements start fully opaque.
	Opacity float64

	// TranslateX and TranslateY offset the painted rectangle without
	// affecting flow layout.
	TranslateX float64
	TranslateY float64

	// Transitioning marks the element as having an in-flight animated
	// transform. Renderers may interpolate; layout ignores it.
	Transitioning bool

	// Absolute removes the element from flow layout. Left and Top then
	// position it directly in document coordinates.
	Absolute bool
	Left     float64
	Top      float64

	// Hidden elements occupy no space and are skipped by layout.
	Hidden bool
}

// Element is one node of the presentation tree.
type Element struct {
	id      string
	classes map[string]struct{}
	attrs   map[string]string

	// Style is the element's inline style. Mutating transform or opacity
	// fields does not require a reflow.
	Style Style

	// Intrinsic content size, used by flow layout.
	width  float64
	height float64

	// Layout direction and spacing for this element's children.
	axis Axis
	gap  float64

	parent   *Element
	children []*Element
	doc      *Document

	// layout is the flow rectangle assigned by the last reflow.
	layout Rect
}

// NewElement creates a detached element with the given intrinsic size.
func NewElement(width, height float64) *Element {
	return &Element{
		id:      uuid.NewString(),
		classes: make(map[string]struct{}),
		attrs:   make(map[string]string),
		Style:   Style{Opacity: 1},
		width:   width,
		height:  height,
	}
}

// ID returns the element's generated identifier.
func (e *Element) ID() string {
	return e.id
}

// Size returns the element's intrinsic width and height.
func (e *Element) Size() (w, h float64) {
	return e.width, e.height
}

// SetSize changes the element's intrinsic size and reflows the document.
func (e *Element) SetSize(w, h float64) {
	e.width = w
	e.height = h
	e.reflow()
}

// Axis returns the layout direction for this element's children.
func (e *Element) Axis() Axis {
	return e.axis
}

// SetAxis sets the layout direction for this element's children.
func (e *Element) SetAxis(axis Axis) {
	e.axis = axis
	e.reflow()
}

// SetGap sets the spacing between flowed children.
func (e *Element) SetGap(gap float64) {
	e.gap = gap
	e.reflow()
}

// Parent returns the element's parent, or nil for a root or detached element.
func (e *Element) Parent() *Element {
	return e.parent
}

// Document returns the owning document, or nil while detached.
func (e *Element) Document() *Document {
	return e.doc
}

// Children returns the element's children in tree order. The returned slice
// is a copy; mutating it does not change the tree.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int {
	return len(e.children)
}

// Index returns the element's position among its siblings, or -1 if detached.
func (e *Element) Index() int {
	if e.parent == nil {
		return -1
	}
	for i, c := range e.parent.children {
		if c == e {
			return i
		}
	}
	return -1
}

// AppendChild adds child as the last child of e, detaching it from any
// previous parent first.
func (e *Element) AppendChild(child *Element) {
	e.InsertBefore(child, nil)
}

// InsertBefore inserts child immediately before ref among e's children.
// A nil ref appends. Inserting an element before itself is a no-op.
func (e *Element) InsertBefore(child, ref *Element) {
	if child == ref {
		return
	}
	child.detach()
	idx := len(e.children)
	if ref != nil {
		if i := ref.Index(); ref.parent == e && i >= 0 {
			idx = i
		}
	}
	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = child
	child.parent = e
	child.adopt(e.doc)
	e.reflow()
}

// RemoveChild removes child from e. It is a no-op if child is not a child
// of e.
func (e *Element) RemoveChild(child *Element) {
	if child.parent != e {
		return
	}
	child.detach()
	e.reflow()
}

// Remove detaches the element from its parent, if any.
func (e *Element) Remove() {
	parent := e.parent
	e.detach()
	if parent != nil {
		parent.reflow()
	}
}

func (e *Element) detach() {
	if e.parent == nil {
		return
	}
	sibs := e.parent.children
	for i, c := range sibs {
		if c == e {
			e.parent.children = append(sibs[:i], sibs[i+1:]...)
			break
		}
	}
	e.parent = nil
	e.adopt(nil)
}

func (e *Element) adopt(doc *Document) {
	e.doc = doc
	for _, c := range e.children {
		c.adopt(doc)
	}
}

// Clone returns a deep copy of the element with fresh identifiers. The copy
// is detached and carries the original's classes, attributes, style, and
// intrinsic sizes.
func (e *Element) Clone() *Element {
	c := NewElement(e.width, e.height)
	c.axis = e.axis
	c.gap = e.gap
	c.Style = e.Style
	for class := range e.classes {
		c.classes[class] = struct{}{}
	}
	for k, v := range e.attrs {
		c.attrs[k] = v
	}
	for _, child := range e.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// AddClass adds a style class to the element.
func (e *Element) AddClass(class string) {
	if class != "" {
		e.classes[class] = struct{}{}
	}
}

// RemoveClass removes a style class from the element.
func (e *Element) RemoveClass(class string) {
	delete(e.classes, class)
}

// HasClass returns true if the element carries the class.
func (e *Element) HasClass(class string) bool {
	_, ok := e.classes[class]
	return ok
}

// Classes returns the element's classes in sorted order.
func (e *Element) Classes() []string {
	out := make([]string, 0, len(e.classes))
	for c := range e.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Attr returns the named attribute, or "" if unset.
func (e *Element) Attr(name string) string {
	return e.attrs[name]
}

// SetAttr sets the named attribute. An empty value removes it.
func (e *Element) SetAttr(name, value string) {
	if value == "" {
		delete(e.attrs, name)
		return
	}
	e.attrs[name] = value
}

// Matches returns true if the element satisfies the selector. Selectors are
// a comma-separated list of class names (".handle") or attribute presence
// tests ("[data-fixed]"); an empty selector matches nothing.
func (e *Element) Matches(selector string) bool {
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
			continue
		case strings.HasPrefix(part, "."):
			if e.HasClass(part[1:]) {
				return true
			}
		case strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]"):
			if _, ok := e.attrs[part[1:len(part)-1]]; ok {
				return true
			}
		}
	}
	return false
}

// Closest walks from the element up through its ancestors, stopping at
// limit (exclusive), and returns the first element matching the selector,
// or nil.
func (e *Element) Closest(selector string, limit *Element) *Element {
	for cur := e; cur != nil && cur != limit; cur = cur.parent {
		if cur.Matches(selector) {
			return cur
		}
	}
	return nil
}

// Contains returns true if other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

// LayoutRect returns the flow rectangle assigned by the last reflow,
// without any transform applied.
func (e *Element) LayoutRect() Rect {
	if e.Style.Absolute {
		return Rect{X: e.Style.Left, Y: e.Style.Top, W: e.width, H: e.height}
	}
	return e.layout
}

// BoundingRect returns the painted rectangle: the flow rectangle offset by
// the element's translate transform.
func (e *Element) BoundingRect() Rect {
	return e.LayoutRect().Translate(e.Style.TranslateX, e.Style.TranslateY)
}

// ClearTransform resets the element's transform and transition state.
func (e *Element) ClearTransform() {
	e.Style.TranslateX = 0
	e.Style.TranslateY = 0
	e.Style.Transitioning = false
}

func (e *Element) reflow() {
	if e.doc != nil {
		e.doc.Reflow()
	}
}
