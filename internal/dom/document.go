package dom

// Document owns a presentation tree and assigns flow rectangles to it.
type Document struct {
	root *Element

	// overlay hosts absolutely positioned elements (ghosts) so they never
	// participate in any container's flow.
	overlay *Element
}

// NewDocument creates a document with an empty root of the given size.
func NewDocument(width, height float64) *Document {
	d := &Document{}
	d.root = NewElement(width, height)
	d.root.doc = d
	d.overlay = NewElement(0, 0)
	d.overlay.AddClass("overlay")
	d.root.AppendChild(d.overlay)
	return d
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return d.root
}

// Reflow recomputes flow rectangles for the whole tree. Mutating methods on
// Element call this automatically; callers only need it after batch edits
// made through the raw style fields.
func (d *Document) Reflow() {
	d.layout(d.root, d.root.LayoutRect().Origin())
}

func (d *Document) layout(e *Element, origin Point) {
	e.layout = Rect{X: origin.X, Y: origin.Y, W: e.width, H: e.height}
	if e.Style.Absolute {
		e.layout = Rect{X: e.Style.Left, Y: e.Style.Top, W: e.width, H: e.height}
		origin = e.layout.Origin()
	}
	cursor := origin
	for _, c := range e.children {
		if c.Style.Hidden {
			continue
		}
		if c.Style.Absolute {
			d.layout(c, Point{X: c.Style.Left, Y: c.Style.Top})
			continue
		}
		d.layout(c, cursor)
		if e.axis == Horizontal {
			cursor.X += c.width + e.gap
		} else {
			cursor.Y += c.height + e.gap
		}
	}
}

// ElementAt returns the deepest non-hidden element whose painted rectangle
// contains the point, preferring later siblings (painted on top). The
// overlay layer is skipped so hit testing sees through ghosts.
func (d *Document) ElementAt(p Point) *Element {
	return d.hit(d.root, p)
}

func (d *Document) hit(e *Element, p Point) *Element {
	for i := len(e.children) - 1; i >= 0; i-- {
		c := e.children[i]
		if c == d.overlay || c.Style.Hidden {
			continue
		}
		if found := d.hit(c, p); found != nil {
			return found
		}
	}
	if e != d.root && e.BoundingRect().Contains(p) {
		return e
	}
	return nil
}

// Overlay returns the document's overlay layer for absolutely positioned
// proxies.
func (d *Document) Overlay() *Element {
	return d.overlay
}
