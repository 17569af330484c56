// Package a11y makes drag interactions accessible: an Announcer renders
// lifecycle events as short text messages for assistive output, and a
// Keyboard drives the same zone operations as pointer input from discrete
// commands, so every reorder a pointer can do has a keyboard path.
package a11y
