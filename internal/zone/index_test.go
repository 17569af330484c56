package zone

import (
	"testing"

	"github.com/dshills/dragstorm/internal/dom"
)

// stack builds a document with n items of the given size stacked along the
// axis and returns the visible items.
func stack(n int, w, h float64, axis dom.Axis) []*dom.Element {
	doc := dom.NewDocument(500, 500)
	container := dom.NewElement(w*4, h*float64(n))
	container.SetAxis(axis)
	doc.Root().AppendChild(container)
	items := make([]*dom.Element, n)
	for i := range items {
		items[i] = dom.NewElement(w, h)
		container.AppendChild(items[i])
	}
	return items
}

func TestInsertionIndexMidpoint(t *testing.T) {
	// Three 10-tall items at y ranges [0,10), [10,20), [20,30).
	items := stack(3, 100, 10, dom.Vertical)

	tests := []struct {
		name string
		y    float64
		want int
	}{
		{"above first", -5, 0},
		{"upper half of first", 2, 0},
		{"lower half of first", 8, 1},
		{"upper half of second", 12, 1},
		{"lower half of second", 18, 2},
		{"lower half of last", 27, 3},
		{"below last", 40, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := insertionIndex(dom.Point{X: 50, Y: tt.y}, items, dom.Vertical, 1, false)
			if got != tt.want {
				t.Errorf("insertionIndex(y=%v) = %d, want %d", tt.y, got, tt.want)
			}
		})
	}
}

func TestInsertionIndexHorizontal(t *testing.T) {
	items := stack(3, 10, 100, dom.Horizontal)

	got := insertionIndex(dom.Point{X: 27, Y: 50}, items, dom.Horizontal, 1, false)
	if got != 3 {
		t.Errorf("insertionIndex(x=27) = %d, want 3", got)
	}
	got = insertionIndex(dom.Point{X: 12, Y: 50}, items, dom.Horizontal, 1, false)
	if got != 1 {
		t.Errorf("insertionIndex(x=12) = %d, want 1", got)
	}
}

func TestInsertionIndexSwapThreshold(t *testing.T) {
	// With a 0.5 threshold the decisive band is the middle half of each
	// item; the outer quarters resolve to the nearer edge outright.
	items := stack(2, 100, 20, dom.Vertical)

	tests := []struct {
		name string
		y    float64
		want int
	}{
		{"outer top quarter", 2, 0},
		{"inner upper band", 8, 0},
		{"inner lower band", 12, 1},
		{"outer bottom quarter", 18, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := insertionIndex(dom.Point{X: 50, Y: tt.y}, items, dom.Vertical, 0.5, false)
			if got != tt.want {
				t.Errorf("insertionIndex(y=%v) = %d, want %d", tt.y, got, tt.want)
			}
		})
	}
}

func TestInsertionIndexInvertSwap(t *testing.T) {
	// Inverted bands decide only at the item edges; the middle keeps the
	// current candidate.
	items := stack(2, 100, 20, dom.Vertical)

	tests := []struct {
		name string
		y    float64
		want int
	}{
		{"top edge band", 3, 0},
		{"dead band middle", 10, keepCurrent},
		{"bottom edge band", 17, 1},
		{"second item dead band", 30, keepCurrent},
		{"second item bottom edge", 38, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := insertionIndex(dom.Point{X: 50, Y: tt.y}, items, dom.Vertical, 0.5, true)
			if got != tt.want {
				t.Errorf("insertionIndex(y=%v) = %d, want %d", tt.y, got, tt.want)
			}
		})
	}
}

func TestInsertionIndexEmpty(t *testing.T) {
	if got := insertionIndex(dom.Point{X: 1, Y: 1}, nil, dom.Vertical, 1, false); got != 0 {
		t.Errorf("insertionIndex(no items) = %d, want 0", got)
	}
}
