package discid

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"cdrip/internal/toc"
)

const (
	// dataSessionGap is the lead-out, lead-in and pregap of the second
	// session on an enhanced CD, which MusicBrainz excludes from the audio
	// session's lead-out.
	dataSessionGap = 11400
	maxTracks      = 99
)

// MusicbrainzID is the MusicBrainz disc id and the TOC it was computed from.
type MusicbrainzID struct {
	DiscID     string `json:"disc_id"`
	LookupPath string `json:"lookup_path"`
	FirstTrack int    `json:"first_track"`
	LastTrack  int    `json:"last_track"`
	Leadout    int    `json:"leadout"`
	Offsets    []int  `json:"offsets"`
}

// MusicbrainzCalculator computes MusicBrainz disc ids over the audio session.
type MusicbrainzCalculator struct{}

// Calculate derives the MusicBrainz id of g. Trailing data tracks are
// dropped and the lead-out moved to the end of the audio session.
func (MusicbrainzCalculator) Calculate(g *toc.Geometry) (MusicbrainzID, error) {
	if g == nil || g.NumTracks() == 0 {
		return MusicbrainzID{}, fmt.Errorf("musicbrainz id: %w", ErrEmptyTOC)
	}
	tracks := g.Tracks()
	leadout := g.TotalSectors() + toc.LeadInSectors

	last := len(tracks) - 1
	for last > 0 && tracks[last].IsData {
		leadout = tracks[last].StartSector + toc.LeadInSectors - dataSessionGap
		last--
	}
	tracks = tracks[:last+1]
	if len(tracks) > maxTracks {
		return MusicbrainzID{}, fmt.Errorf("musicbrainz id: %d tracks exceed the %d track limit", len(tracks), maxTracks)
	}

	first := tracks[0].Number
	lastNumber := tracks[len(tracks)-1].Number
	if lastNumber > maxTracks {
		return MusicbrainzID{}, fmt.Errorf("musicbrainz id: track number %d out of range", lastNumber)
	}
	offsets := make([]int, len(tracks))
	slots := make([]int, maxTracks+1)
	slots[0] = leadout
	for i, track := range tracks {
		offsets[i] = track.StartSector + toc.LeadInSectors
		slots[track.Number] = offsets[i]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%02X%02X", first, lastNumber)
	for _, value := range slots {
		fmt.Fprintf(&b, "%08X", value)
	}
	sum := sha1.Sum([]byte(b.String()))
	encoded := base64.StdEncoding.EncodeToString(sum[:])
	discID := strings.NewReplacer("+", ".", "/", "_", "=", "-").Replace(encoded)

	parts := []string{strconv.Itoa(first), strconv.Itoa(lastNumber), strconv.Itoa(leadout)}
	for _, offset := range offsets {
		parts = append(parts, strconv.Itoa(offset))
	}

	return MusicbrainzID{
		DiscID:     discID,
		LookupPath: fmt.Sprintf("/ws/2/discid/%s?toc=%s", discID, strings.Join(parts, "+")),
		FirstTrack: first,
		LastTrack:  lastNumber,
		Leadout:    leadout,
		Offsets:    offsets,
	}, nil
}
