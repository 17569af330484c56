// Package plugin hosts Lua extensions that customize drag behavior.
//
// A plugin is a directory holding a plugin.json manifest and a Lua entry
// script. The script runs in its own sandboxed interpreter state and talks
// to the engine through the injected dragstorm table: it may register a
// placement strategy that decides where dragged items land, and subscribe
// to lifecycle events of the zones it is attached to.
//
// Lua states are not goroutine-safe; a Host serializes every call into its
// interpreter behind one mutex.
package plugin
