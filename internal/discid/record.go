package discid

import (
	"fmt"
	"strings"

	"cdrip/internal/toc"
)

// Record renders the xmcd record freedb expects for a submission. Only audio
// tracks are listed; revision counts edits of an existing record.
func Record(g *toc.Geometry, discID string, md *Metadata, revision int, submitter string) (string, error) {
	if g == nil || g.AudioTracks() == 0 {
		return "", fmt.Errorf("xmcd record: %w", ErrEmptyTOC)
	}
	if md == nil {
		md = &Metadata{}
	}
	var audio []toc.Track
	for _, track := range g.Tracks() {
		if !track.IsData {
			audio = append(audio, track)
		}
	}
	last := audio[len(audio)-1]

	var b strings.Builder
	b.WriteString("# xmcd\n#\n# Track frame offsets:\n")
	for _, track := range audio {
		fmt.Fprintf(&b, "#        %d\n", track.StartSector+toc.LeadInSectors)
	}
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# Disc length: %d seconds\n", (last.EndSector()+toc.LeadInSectors)/toc.SectorsPerSecond)
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# Revision: %d\n", revision)
	fmt.Fprintf(&b, "# Submitted via: %s\n", submitter)
	b.WriteString("#\n")

	fmt.Fprintf(&b, "DISCID=%s\n", discID)
	fmt.Fprintf(&b, "DTITLE=%s / %s\n", md.Artist, md.Album)
	fmt.Fprintf(&b, "DYEAR=%s\n", md.Year)
	fmt.Fprintf(&b, "DGENRE=%s\n", md.Genre)
	various := md.Various()
	for i, track := range audio {
		if various {
			fmt.Fprintf(&b, "TTITLE%d=%s / %s\n", i, md.VarArtist(track.Number), md.TrackName(track.Number))
		} else {
			fmt.Fprintf(&b, "TTITLE%d=%s\n", i, md.TrackName(track.Number))
		}
	}
	b.WriteString("EXTD=\n")
	for i := range audio {
		fmt.Fprintf(&b, "EXTT%d=\n", i)
	}
	b.WriteString("PLAYORDER=\n")
	return b.String(), nil
}
