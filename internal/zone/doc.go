// Package zone implements the per-zone drag controller.
//
// A Controller attaches to one container element and classifies pointer
// input into drag session transitions: idle, chosen, dragging, hovering a
// candidate target, then dropped or cancelled. It computes insertion
// indices from pointer position, consults the process-wide coordinator for
// cross-zone compatibility, performs structural moves inside the FLIP
// animator's measured callback, and reports every transition on the zone's
// event bus.
//
// Controllers never reference each other. All cross-zone coordination goes
// through the coordinator's narrow contract, which is what lets
// independently created zones exchange items safely.
package zone
