// Package services holds the shared error taxonomy for storyboard's
// collaborating services and the mapping from classified errors to the
// generic messages surfaced to users.
package services
