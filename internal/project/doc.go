// Package project defines the storyboard domain model: scenes and character
// profiles produced by script analysis, the visual style catalog, the
// workflow step enumeration, and the persisted project snapshot that ties
// them together.
package project
