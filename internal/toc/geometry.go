package toc

import (
	"errors"
	"fmt"
)

// ErrNoSuchTrack is returned when a track number is not part of the geometry.
var ErrNoSuchTrack = errors.New("no such track")

// ImageTrack selects the whole disc as a single image in track lookups.
const ImageTrack = -1

// Track describes one TOC entry.
type Track struct {
	Number       int  `json:"number"`
	StartSector  int  `json:"start_sector"`
	LengthSector int  `json:"length_sector"`
	IsData       bool `json:"is_data"`
}

// EndSector is the first sector after the track.
func (t Track) EndSector() int {
	return t.StartSector + t.LengthSector
}

// Geometry is the immutable track layout of one scanned disc.
type Geometry struct {
	tracks       []Track
	totalSectors int
}

// NewGeometry validates tracks and returns a Geometry. Tracks must be
// consecutively numbered in ascending order with non-negative starts and
// positive lengths. A geometry without tracks is allowed.
func NewGeometry(tracks []Track, totalSectors int) (*Geometry, error) {
	if totalSectors < 0 {
		return nil, fmt.Errorf("total sectors must be non-negative, got %d", totalSectors)
	}
	copied := make([]Track, len(tracks))
	copy(copied, tracks)
	for i, track := range copied {
		if track.Number <= 0 {
			return nil, fmt.Errorf("track %d: number must be positive", track.Number)
		}
		if i > 0 && track.Number != copied[i-1].Number+1 {
			return nil, fmt.Errorf("track %d: follows track %d, numbering must be consecutive", track.Number, copied[i-1].Number)
		}
		if track.StartSector < 0 {
			return nil, fmt.Errorf("track %d: start sector must be non-negative, got %d", track.Number, track.StartSector)
		}
		if track.LengthSector <= 0 {
			return nil, fmt.Errorf("track %d: length must be positive, got %d", track.Number, track.LengthSector)
		}
	}
	return &Geometry{tracks: copied, totalSectors: totalSectors}, nil
}

// Tracks returns a copy of the TOC entries in track order.
func (g *Geometry) Tracks() []Track {
	out := make([]Track, len(g.tracks))
	copy(out, g.tracks)
	return out
}

// NumTracks counts every TOC entry, audio and data.
func (g *Geometry) NumTracks() int {
	return len(g.tracks)
}

// TotalSectors is the lead-out start sector.
func (g *Geometry) TotalSectors() int {
	return g.totalSectors
}

// Track returns the entry for number, or the whole-disc image for ImageTrack.
func (g *Geometry) Track(number int) (Track, bool) {
	if number == ImageTrack {
		return g.Image(), true
	}
	for _, track := range g.tracks {
		if track.Number == number {
			return track, true
		}
	}
	return Track{}, false
}

// Image spans from the first track's start to the lead-out.
func (g *Geometry) Image() Track {
	start := 0
	if len(g.tracks) > 0 {
		start = g.tracks[0].StartSector
	}
	return Track{StartSector: start, LengthSector: g.totalSectors - start}
}

// AudioTracks counts the tracks that are not data tracks.
func (g *Geometry) AudioTracks() int {
	count := 0
	for _, track := range g.tracks {
		if !track.IsData {
			count++
		}
	}
	return count
}

// DataTracks lists data track numbers in order. The result is never nil.
func (g *Geometry) DataTracks() []int {
	out := []int{}
	for _, track := range g.tracks {
		if track.IsData {
			out = append(out, track.Number)
		}
	}
	return out
}

// FirstAudioTrack reports the lowest-numbered audio track.
func (g *Geometry) FirstAudioTrack() (int, bool) {
	for _, track := range g.tracks {
		if !track.IsData {
			return track.Number, true
		}
	}
	return 0, false
}

// Playtime renders the total disc length as mm:ss.
func (g *Geometry) Playtime() string {
	return FormatDuration(g.totalSectors)
}
