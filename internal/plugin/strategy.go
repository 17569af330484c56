package plugin

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/ghost"
	"github.com/dshills/dragstorm/internal/zone"
)

// Strategy adapts the script's registered placement function to the zone's
// strategy interface. The script decides, the engine mutates: the callback
// receives a read-only description of the drop and returns either a number
// (insert at that item index), the string "swap" (exchange with the
// occupant), or nil (keep the engine's computed position).
func (h *Host) Strategy() (zone.PlacementStrategy, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateLoaded {
		return nil, ErrNotLoaded
	}
	if h.strategyFn == nil {
		return nil, ErrNoStrategy
	}
	return &luaStrategy{host: h, name: h.strategyName, fn: h.strategyFn}, nil
}

type luaStrategy struct {
	host *Host
	name string
	fn   *lua.LFunction
}

// Name implements zone.PlacementStrategy.
func (s *luaStrategy) Name() string { return s.name }

// Place implements zone.PlacementStrategy. Script failures fall back to
// the default insert so a broken plugin degrades instead of dropping items.
func (s *luaStrategy) Place(p zone.Placement) {
	verdict, ok := s.decide(p)
	if !ok {
		zone.InsertPlacement{}.Place(p)
		return
	}
	switch v := verdict.(type) {
	case lua.LNumber:
		items := flowItems(p.Target)
		idx := int(v)
		if idx < 0 {
			idx = 0
		}
		if idx > len(items) {
			idx = len(items)
		}
		var before *dom.Element
		if idx < len(items) {
			before = items[idx]
		}
		zone.InsertPlacement{}.Place(zone.Placement{
			Session: p.Session,
			Source:  p.Source,
			Target:  p.Target,
			Items:   p.Items,
			Before:  before,
			Index:   idx,
		})
	case lua.LString:
		if string(v) == "swap" {
			zone.SwapPlacement{}.Place(p)
			return
		}
		zone.InsertPlacement{}.Place(p)
	default:
		zone.InsertPlacement{}.Place(p)
	}
}

// decide runs the scripted callback and returns its verdict.
func (s *luaStrategy) decide(p zone.Placement) (lua.LValue, bool) {
	h := s.host
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateLoaded {
		return lua.LNil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.SetContext(context.Background())

	err := h.L.CallByParam(
		lua.P{Fn: s.fn, NRet: 1, Protect: true},
		placementTable(h.L, p),
	)
	if err != nil {
		h.log.Error().
			Err(err).
			Str("plugin", h.manifest.Name).
			Str("strategy", s.name).
			Msg("plugin strategy failed")
		return lua.LNil, false
	}
	ret := h.L.Get(-1)
	h.L.Pop(1)
	return ret, true
}

// placementTable converts a placement into the table shape scripts see.
func placementTable(L *lua.LState, p zone.Placement) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "index", lua.LNumber(p.Index))
	L.SetField(t, "count", lua.LNumber(len(flowItems(p.Target))))
	L.SetField(t, "same_zone", lua.LBool(p.Source == p.Target))
	items := L.NewTable()
	for i, it := range p.Items {
		items.RawSetInt(i+1, lua.LString(it.ID()))
	}
	L.SetField(t, "items", items)
	return t
}

// flowItems lists a container's droppable items: visible flow children
// that are not drag proxies.
func flowItems(container *dom.Element) []*dom.Element {
	var out []*dom.Element
	for _, child := range container.Children() {
		if child.Style.Hidden || child.Attr(ghost.PlaceholderAttr) != "" {
			continue
		}
		out = append(out, child)
	}
	return out
}
