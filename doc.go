// Package dragstorm is a headless drag-and-drop orchestration engine.
//
// An Engine owns one document, a shared drag coordinator, and any number
// of sortable zones created over container elements in that document.
// Pointer input is fed to the engine, which routes it to the controller
// that owns the gesture; keyboard input goes through a per-zone driver.
// Zones negotiate cross-zone transfers through group policies, reorder
// with FLIP animation, and report everything on per-zone event buses.
//
// The package deliberately knows nothing about rendering. Integrations
// read element geometry (including transient animation offsets) each
// frame and draw however they like; cmd/dragstorm does it with a
// terminal UI.
package dragstorm
