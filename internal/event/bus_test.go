package event

import "testing"

func TestBus_EmitDeliversInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var order []int
	b.On(Sort, func(Event) { order = append(order, 1) })
	b.On(Sort, func(Event) { order = append(order, 2) })
	b.On(Sort, func(Event) { order = append(order, 3) })

	b.Emit(Event{Type: Sort})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestBus_EmitOnlyMatchingType(t *testing.T) {
	b := NewBus()
	sorts, adds := 0, 0
	b.On(Sort, func(Event) { sorts++ })
	b.On(Add, func(Event) { adds++ })

	b.Emit(Event{Type: Sort})

	if sorts != 1 || adds != 0 {
		t.Errorf("sorts = %d adds = %d, want 1 and 0", sorts, adds)
	}
}

func TestBus_UnsubscribeDuringEmit(t *testing.T) {
	b := NewBus()
	var got []string

	var offB func()
	b.On(Sort, func(Event) {
		got = append(got, "a")
		offB() // remove the next handler mid-emission
	})
	offB = b.On(Sort, func(Event) { got = append(got, "b") })
	b.On(Sort, func(Event) { got = append(got, "c") })

	// The snapshot taken at Emit still includes b for this delivery.
	b.Emit(Event{Type: Sort})
	if len(got) != 3 {
		t.Fatalf("got = %v, want all three handlers for the first emit", got)
	}

	got = nil
	b.Emit(Event{Type: Sort})
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("got = %v, want [a c] after unsubscribe", got)
	}
}

func TestBus_UnsubscribeIdempotent(t *testing.T) {
	b := NewBus()
	off := b.On(End, func(Event) {})
	off()
	off()
	if n := b.HandlerCount(End); n != 0 {
		t.Errorf("handlers = %d, want 0", n)
	}
}

func TestBus_OffByFunction(t *testing.T) {
	b := NewBus()
	calls := 0
	h := Handler(func(Event) { calls++ })
	b.On(Start, h)
	b.Off(Start, h)

	b.Emit(Event{Type: Start})
	if calls != 0 {
		t.Errorf("calls = %d, want 0 after Off", calls)
	}
}

func TestBus_NilHandlerIgnored(t *testing.T) {
	b := NewBus()
	off := b.On(Start, nil)
	off()
	if n := b.HandlerCount(Start); n != 0 {
		t.Errorf("handlers = %d, want 0", n)
	}
}

func TestBus_Clear(t *testing.T) {
	b := NewBus()
	calls := 0
	b.On(Start, func(Event) { calls++ })
	b.Clear()
	b.Emit(Event{Type: Start})
	if calls != 0 {
		t.Errorf("calls = %d, want 0 after Clear", calls)
	}
}

func TestType_String(t *testing.T) {
	names := map[Type]string{
		Choose: "choose", Unchoose: "unchoose", Start: "start", Move: "move",
		Sort: "sort", Update: "update", Add: "add", Remove: "remove",
		End: "end", Clone: "clone", Filter: "filter",
		Select: "select", Deselect: "deselect",
	}
	for typ, want := range names {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}
