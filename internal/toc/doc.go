// Package toc models compact disc geometry: Redbook constants, MSF address
// conversion, and the immutable track layout produced by a TOC scan.
//
// A Geometry is built once per scan and never mutated afterwards. Track
// lengths, playing times and the size of the WAV file a rip will produce are
// all derived from sector counts here, so every scanner renders them the same
// way.
package toc
