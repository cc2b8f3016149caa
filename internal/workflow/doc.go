// Package workflow owns the project state machine: the ordered workflow
// steps, the single mutable project snapshot, and the transitions that move
// it forward. Every transition persists the full snapshot through the store;
// batch image generation delegates to the batch runner with per-item
// failure isolation.
package workflow
