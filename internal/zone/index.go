package zone

import "github.com/dshills/dragstorm/internal/dom"

// keepCurrent is returned by insertionIndex when the pointer sits in a
// collision dead band and the previous candidate should be kept.
const keepCurrent = -1

// insertionIndex computes where the pointer would insert among items, which
// must be the zone's visible items in order (placeholder and dragged items
// excluded). The flow rectangle, not the painted one, is measured so
// in-flight FLIP transforms cannot make the answer oscillate.
//
// With swapThreshold 1 and no inversion this degenerates to the classic
// sibling-midpoint rule. A smaller threshold narrows the band around each
// item's midpoint where the before/after decision is made; outside the band
// the nearer edge wins outright. invertSwap moves the decisive bands to the
// item's outer edges, keeping the current candidate across the middle.
func insertionIndex(p dom.Point, items []*dom.Element, axis dom.Axis, swapThreshold float64, invertSwap bool) int {
	if len(items) == 0 {
		return 0
	}
	coord := p.Y
	if axis == dom.Horizontal {
		coord = p.X
	}

	for i, it := range items {
		start, size := extent(it, axis)
		end := start + size
		if coord < start {
			// In the gap before this item.
			return i
		}
		if coord >= end {
			continue
		}
		rel := 0.5
		if size > 0 {
			rel = (coord - start) / size
		}
		if invertSwap {
			half := swapThreshold / 2
			switch {
			case rel < half:
				return i
			case rel > 1-half:
				return i + 1
			default:
				return keepCurrent
			}
		}
		margin := (1 - swapThreshold) / 2
		switch {
		case rel < margin:
			return i
		case rel > 1-margin:
			return i + 1
		case rel < 0.5:
			return i
		default:
			return i + 1
		}
	}
	return len(items)
}

func extent(el *dom.Element, axis dom.Axis) (start, size float64) {
	r := el.LayoutRect()
	if axis == dom.Horizontal {
		return r.X, r.W
	}
	return r.Y, r.H
}
