// Package ripping decides which sector ranges of a scanned disc are ripped.
//
// Plan turns disc geometry and the user's preferences into a Strategy: one
// range per TOC track, passed through unchanged, plus the hidden track that
// may sit in the pregap before track 1. The hidden track is only offered
// when the preferences enable it and the gap is at least the configured
// minimum length.
package ripping
