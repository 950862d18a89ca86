// Package discid derives freedb and MusicBrainz disc identifiers from a
// scanned TOC and renders xmcd records for freedb submissions.
//
// The calculators only consume toc.Geometry, so they can be fed by any of the
// disc scanners. Metadata is the neutral album description shared with the
// CD-TEXT reader.
package discid
