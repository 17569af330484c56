package plugin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dragstorm/internal/event"
)

// DefaultCallTimeout bounds a single scripted callback. gopher-lua checks
// the context between instructions, so runaway scripts are interrupted on
// a best-effort basis.
const DefaultCallTimeout = time.Second

// eventNames maps the wire names scripts subscribe with to engine types.
var eventNames = map[string]event.Type{
	"choose":   event.Choose,
	"unchoose": event.Unchoose,
	"start":    event.Start,
	"move":     event.Move,
	"sort":     event.Sort,
	"update":   event.Update,
	"add":      event.Add,
	"remove":   event.Remove,
	"end":      event.End,
	"clone":    event.Clone,
	"filter":   event.Filter,
	"select":   event.Select,
	"deselect": event.Deselect,
}

// Host runs one plugin's Lua interpreter.
type Host struct {
	mu       sync.Mutex
	manifest *Manifest
	log      zerolog.Logger
	timeout  time.Duration

	L     *lua.LState
	state State
	err   error

	strategyName string
	strategyFn   *lua.LFunction
	handlers     map[event.Type][]*lua.LFunction
	unsubs       []func()
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithCallTimeout bounds each scripted callback.
func WithCallTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithHostLogger sets the host's logger.
func WithHostLogger(log zerolog.Logger) HostOption {
	return func(h *Host) {
		h.log = log
	}
}

// NewHost creates an unloaded host for the manifest.
func NewHost(manifest *Manifest, opts ...HostOption) (*Host, error) {
	if manifest == nil {
		return nil, ErrNilManifest
	}
	h := &Host{
		manifest: manifest,
		log:      zerolog.Nop(),
		timeout:  DefaultCallTimeout,
		handlers: make(map[event.Type][]*lua.LFunction),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Name returns the plugin name.
func (h *Host) Name() string { return h.manifest.Name }

// Manifest returns the plugin's manifest.
func (h *Host) Manifest() *Manifest { return h.manifest }

// State returns the host's lifecycle phase.
func (h *Host) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Err returns the error that moved the host into StateError, or nil.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Load creates the interpreter, injects the dragstorm table, and runs the
// entry script. The script's top level typically registers a strategy and
// event handlers and returns.
func (h *Host) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case StateLoaded:
		return ErrAlreadyLoaded
	case StateClosed:
		return ErrClosed
	}

	L := lua.NewState()
	sandbox(L)
	L.SetGlobal("dragstorm", h.apiTable(L))

	cctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	L.SetContext(cctx)

	if err := L.DoFile(h.manifest.MainPath()); err != nil {
		L.Close()
		h.state = StateError
		h.err = fmt.Errorf("plugin %s: %w", h.manifest.Name, err)
		return h.err
	}
	L.SetContext(context.Background())

	h.L = L
	h.state = StateLoaded
	h.err = nil
	return nil
}

// sandbox strips the ambient capabilities scripts must not have. Plugins
// compute over placement tables; they never touch the host system.
func sandbox(L *lua.LState) {
	for _, name := range []string{"io", "os", "debug", "dofile", "loadfile", "load"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// apiTable builds the dragstorm table handed to the script.
func (h *Host) apiTable(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "strategy", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		h.strategyName = name
		h.strategyFn = fn
		return 0
	}))
	L.SetField(t, "on", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		typ, ok := eventNames[name]
		if !ok {
			L.RaiseError("unknown event %q", name)
			return 0
		}
		h.handlers[typ] = append(h.handlers[typ], fn)
		return 0
	}))
	L.SetField(t, "log", L.NewFunction(func(L *lua.LState) int {
		h.log.Info().Str("plugin", h.manifest.Name).Msg(L.CheckString(1))
		return 0
	}))
	return t
}

// BindBus delivers the script's subscribed events from the bus until the
// host is closed. Manifest Events, when non-empty, further restrict what
// is delivered.
func (h *Host) BindBus(bus *event.Bus) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == StateClosed {
		return ErrClosed
	}
	if h.state != StateLoaded {
		return ErrNotLoaded
	}

	allowed := make(map[event.Type]bool)
	for _, name := range h.manifest.Events {
		typ, ok := eventNames[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownEvent, name)
		}
		allowed[typ] = true
	}

	for typ, fns := range h.handlers {
		if len(allowed) > 0 && !allowed[typ] {
			continue
		}
		fns := fns
		unsub := bus.On(typ, func(e event.Event) {
			for _, fn := range fns {
				h.call(fn, e)
			}
		})
		h.unsubs = append(h.unsubs, unsub)
	}
	return nil
}

// call invokes one scripted handler with the event as a table. Script
// errors are logged and swallowed; a plugin must not break a drop.
func (h *Host) call(fn *lua.LFunction, e event.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateLoaded {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.SetContext(context.Background())

	err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, eventTable(h.L, e))
	if err != nil {
		h.log.Error().
			Err(err).
			Str("plugin", h.manifest.Name).
			Str("event", e.Type.String()).
			Msg("plugin handler failed")
	}
}

// eventTable converts an engine event into the table shape scripts see.
func eventTable(L *lua.LState, e event.Event) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "type", lua.LString(e.Type.String()))
	L.SetField(t, "zone", lua.LString(e.Zone))
	L.SetField(t, "from", lua.LString(e.From))
	L.SetField(t, "to", lua.LString(e.To))
	L.SetField(t, "old_index", lua.LNumber(e.OldIndex))
	L.SetField(t, "new_index", lua.LNumber(e.NewIndex))
	L.SetField(t, "pull_mode", lua.LString(e.PullMode))
	if e.Item != nil {
		L.SetField(t, "item", lua.LString(e.Item.ID()))
	}
	if e.CloneItem != nil {
		L.SetField(t, "clone", lua.LString(e.CloneItem.ID()))
	}
	items := L.NewTable()
	for i, it := range e.Items {
		items.RawSetInt(i+1, lua.LString(it.ID()))
	}
	L.SetField(t, "items", items)
	return t
}

// Global reads a global from the plugin's interpreter, for inspection and
// tests. Returns lua.LNil when the host is not loaded.
func (h *Host) Global(name string) lua.LValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateLoaded {
		return lua.LNil
	}
	return h.L.GetGlobal(name)
}

// Close shuts the interpreter down and detaches every bus subscription.
// Safe to call repeatedly.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == StateClosed {
		return
	}
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
	if h.L != nil {
		h.L.Close()
		h.L = nil
	}
	h.state = StateClosed
}
