package ripping

import (
	"errors"
	"fmt"

	"cdrip/internal/toc"
)

// ErrHiddenTrackUnavailable is returned when the hidden track is requested
// from a strategy that does not offer one.
var ErrHiddenTrackUnavailable = errors.New("hidden track unavailable")

// Preferences are the user settings that shape a strategy.
type Preferences struct {
	RipHiddenAudio              bool    `json:"rip_hidden_audio"`
	MinLengthHiddenTrackSeconds float64 `json:"min_length_hidden_track_seconds"`
}

// Range is a contiguous run of sectors.
type Range struct {
	StartSector  int `json:"start_sector"`
	LengthSector int `json:"length_sector"`
}

// Strategy holds the ranges to rip for one disc.
type Strategy struct {
	tracks map[int]Range
	order  []int
	hidden *Range
}

// Plan derives the strategy for g.
func Plan(g *toc.Geometry, prefs Preferences) (*Strategy, error) {
	if g == nil {
		return nil, errors.New("plan rip strategy: nil geometry")
	}
	if prefs.MinLengthHiddenTrackSeconds < 0 {
		return nil, fmt.Errorf("plan rip strategy: negative minimum hidden track length %v", prefs.MinLengthHiddenTrackSeconds)
	}

	s := &Strategy{tracks: make(map[int]Range, g.NumTracks())}
	for _, track := range g.Tracks() {
		s.tracks[track.Number] = Range{StartSector: track.StartSector, LengthSector: track.LengthSector}
		s.order = append(s.order, track.Number)
	}

	if first, ok := g.Track(1); ok && prefs.RipHiddenAudio {
		gap := first.StartSector
		if gap > 0 && float64(gap)/toc.SectorsPerSecond >= prefs.MinLengthHiddenTrackSeconds {
			s.hidden = &Range{StartSector: 0, LengthSector: gap}
		}
	}
	return s, nil
}

// TrackNumbers lists the track numbers in TOC order.
func (s *Strategy) TrackNumbers() []int {
	return append([]int(nil), s.order...)
}

// TrackRanges returns the range of every track keyed by track number.
func (s *Strategy) TrackRanges() map[int]Range {
	out := make(map[int]Range, len(s.tracks))
	for number, r := range s.tracks {
		out[number] = r
	}
	return out
}

// Track returns the range of one track.
func (s *Strategy) Track(number int) (Range, error) {
	r, ok := s.tracks[number]
	if !ok {
		return Range{}, fmt.Errorf("Track: track %d: %w", number, toc.ErrNoSuchTrack)
	}
	return r, nil
}

// HiddenTrackAvailable reports whether a hidden track will be ripped.
func (s *Strategy) HiddenTrackAvailable() bool {
	return s.hidden != nil
}

// HiddenTrack returns the pregap range before track 1. It fails with
// ErrHiddenTrackUnavailable unless HiddenTrackAvailable reports true.
func (s *Strategy) HiddenTrack() (Range, error) {
	if s.hidden == nil {
		return Range{}, fmt.Errorf("HiddenTrack: %w", ErrHiddenTrackUnavailable)
	}
	return *s.hidden, nil
}
