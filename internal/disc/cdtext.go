package disc

import (
	"context"

	"cdrip/internal/discid"
)

// CDTextProvider is a MetadataProvider that reads CD-TEXT with cdrdao.
type CDTextProvider struct {
	Cdrdao *Cdrdao
}

// Get runs cdrdao against the disc's device. A disc without CD-TEXT yields
// empty metadata rather than an error.
func (p CDTextProvider) Get(ctx context.Context, d *Disc) (*discid.Metadata, error) {
	status, _ := p.Cdrdao.Scan(ctx, d.Device())
	if !status.OK() {
		return nil, status.Err()
	}
	return p.Cdrdao.Metadata(), nil
}

// Metadata assembles the CD-TEXT of the latest analysis.
func (c *Cdrdao) Metadata() *discid.Metadata {
	md := &discid.Metadata{
		Artist:     c.info.artist,
		Album:      c.info.album,
		TrackNames: map[int]string{},
		VarArtists: map[int]string{},
	}
	for _, number := range c.info.order {
		tr := c.info.tracks[number]
		if tr.title != "" {
			md.TrackNames[number] = tr.title
		}
		if tr.performer != "" {
			md.VarArtists[number] = tr.performer
		}
	}
	return md
}
