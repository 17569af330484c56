// Package dom provides the presentation tree that the drag engine mutates.
//
// The tree is a lightweight, headless analog of a document: elements carry
// classes, attributes, and an inline style (opacity plus a translate
// transform), and a Document lays out flowed children with a simple box
// model so every element has a measurable bounding rectangle. Renderers
// read the tree; the engine is its only writer.
//
// Structural mutations (append, insert, remove) reflow the owning document
// synchronously, so item order and layout never disagree between two reads.
// Transform and opacity changes do not reflow; like CSS transforms, they
// offset the painted rectangle without moving neighbors.
package dom
