// Package wave edits ripped CD audio stored in WAV files.
//
// A Buffer loads the PCM payload of one file and presents it through a
// corrected view: the drive read offset shifts the audio by whole sample
// frames, and sectors re-read after a bad first pass can be spliced in.
// Nothing touches the disk until Save, which replaces the file atomically.
package wave
