// Package services holds the error markers and context annotations shared by
// the scanners, the history store and the CLI.
//
// Errors are tagged with one of the exported markers through Wrap so callers
// can classify a failure with errors.Is without parsing messages. Context
// helpers stamp the device under inspection and a correlation identifier that
// the logging package turns into structured fields.
package services
