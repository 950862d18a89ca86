package discid

// Metadata describes an album as far as cdrip knows it.
type Metadata struct {
	Artist     string         `json:"artist,omitempty"`
	Album      string         `json:"album,omitempty"`
	Year       string         `json:"year,omitempty"`
	Genre      string         `json:"genre,omitempty"`
	TrackNames map[int]string `json:"track_names,omitempty"`
	VarArtists map[int]string `json:"var_artists,omitempty"`
}

// TrackName returns the title of track, empty when unknown.
func (m *Metadata) TrackName(track int) string {
	if m == nil {
		return ""
	}
	return m.TrackNames[track]
}

// VarArtist returns the per-track artist, empty when unknown.
func (m *Metadata) VarArtist(track int) string {
	if m == nil {
		return ""
	}
	return m.VarArtists[track]
}

// Various reports whether any track carries its own artist.
func (m *Metadata) Various() bool {
	if m == nil {
		return false
	}
	for _, artist := range m.VarArtists {
		if artist != "" {
			return true
		}
	}
	return false
}
