package discid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdrip/internal/discid"
	"cdrip/internal/toc"
)

// zyryabOffsets are the freedb frame offsets of an eight track album.
var zyryabOffsets = []int{182, 34382, 57195, 74167, 97852, 126040, 145605, 165730}

func zyryabGeometry(t *testing.T, extra ...toc.Track) *toc.Geometry {
	t.Helper()
	tracks := make([]toc.Track, 0, len(zyryabOffsets)+len(extra))
	for i, offset := range zyryabOffsets {
		start := offset - toc.LeadInSectors
		length := 24822
		if i+1 < len(zyryabOffsets) {
			length = zyryabOffsets[i+1] - offset
		}
		tracks = append(tracks, toc.Track{Number: i + 1, StartSector: start, LengthSector: length})
	}
	tracks = append(tracks, extra...)
	total := tracks[len(tracks)-1].EndSector()
	g, err := toc.NewGeometry(tracks, total)
	require.NoError(t, err)
	return g
}

func TestFreedbCalculator(t *testing.T) {
	id, err := discid.FreedbCalculator{}.Calculate(zyryabGeometry(t))
	require.NoError(t, err)

	assert.Equal(t, "6e09ea08", id.DiscID)
	assert.Equal(t, 2540, id.DiscLength)
	assert.Equal(t, zyryabOffsets, id.Offsets)
	assert.Equal(t, "6e09ea08 8 182 34382 57195 74167 97852 126040 145605 165730 2540", id.Query)
}

func TestFreedbCalculatorCdparanoiaLayout(t *testing.T) {
	starts := []int{0, 13209, 25959, 40059, 53640, 68680, 80600, 95300, 108680, 124080}
	tracks := make([]toc.Track, len(starts))
	for i, start := range starts {
		end := 162919
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		tracks[i] = toc.Track{Number: i + 1, StartSector: start, LengthSector: end - start}
	}
	g, err := toc.NewGeometry(tracks, 162919)
	require.NoError(t, err)

	id, err := discid.FreedbCalculator{}.Calculate(g)
	require.NoError(t, err)
	assert.Equal(t, "86087c0a", id.DiscID)
	assert.Equal(t, 2174, id.DiscLength)

	mb, err := discid.MusicbrainzCalculator{}.Calculate(g)
	require.NoError(t, err)
	assert.Equal(t, "E3LoTQX.1.nPRJWl8qvo_lx8_Ko-", mb.DiscID)
}

func TestCalculatorsRejectEmptyTOC(t *testing.T) {
	empty, err := toc.NewGeometry(nil, 0)
	require.NoError(t, err)

	_, err = discid.FreedbCalculator{}.Calculate(empty)
	assert.ErrorIs(t, err, discid.ErrEmptyTOC)
	_, err = discid.MusicbrainzCalculator{}.Calculate(nil)
	assert.ErrorIs(t, err, discid.ErrEmptyTOC)
}

func TestMusicbrainzCalculator(t *testing.T) {
	id, err := discid.MusicbrainzCalculator{}.Calculate(zyryabGeometry(t))
	require.NoError(t, err)

	assert.Equal(t, "GFyi4vYBq_mQj9kvA0p.EqXOiSc-", id.DiscID)
	assert.Equal(t, 1, id.FirstTrack)
	assert.Equal(t, 8, id.LastTrack)
	assert.Equal(t, 190552, id.Leadout)
	assert.Equal(t,
		"/ws/2/discid/GFyi4vYBq_mQj9kvA0p.EqXOiSc-?toc=1+8+190552+182+34382+57195+74167+97852+126040+145605+165730",
		id.LookupPath)
}

func TestMusicbrainzIgnoresTrailingDataSession(t *testing.T) {
	data := toc.Track{Number: 9, StartSector: 190402 + 11400, LengthSector: 20000, IsData: true}
	// The audio session of the enhanced CD must hash like the plain album.
	id, err := discid.MusicbrainzCalculator{}.Calculate(zyryabGeometry(t, data))
	require.NoError(t, err)

	assert.Equal(t, "GFyi4vYBq_mQj9kvA0p.EqXOiSc-", id.DiscID)
	assert.Equal(t, 8, id.LastTrack)
	assert.Equal(t, 190552, id.Leadout)
	assert.Len(t, id.Offsets, 8)
}

func TestRecordStandardAlbum(t *testing.T) {
	md := &discid.Metadata{
		Artist: "Paco de Lucia",
		Album:  "Zyryab",
		Year:   "1990",
		Genre:  "Folk",
		TrackNames: map[int]string{
			1: "Soniquete (Bulerias)",
			2: "Tio Sabas (Tarantas)",
			3: "Chick",
			4: "Compadres (Bulerias)",
			5: "Zyryab",
			6: "Cancion de Amor",
			7: "Playa del Carmen (Rumba)",
			8: "Almonte (Fandangos)",
		},
	}

	record, err := discid.Record(zyryabGeometry(t), "6e09ea08", md, 5, "cdrip test")
	require.NoError(t, err)

	expected := "# xmcd\n" +
		"#\n" +
		"# Track frame offsets:\n" +
		"#        182\n" +
		"#        34382\n" +
		"#        57195\n" +
		"#        74167\n" +
		"#        97852\n" +
		"#        126040\n" +
		"#        145605\n" +
		"#        165730\n" +
		"#\n" +
		"# Disc length: 2540 seconds\n" +
		"#\n" +
		"# Revision: 5\n" +
		"# Submitted via: cdrip test\n" +
		"#\n" +
		"DISCID=6e09ea08\n" +
		"DTITLE=Paco de Lucia / Zyryab\n" +
		"DYEAR=1990\n" +
		"DGENRE=Folk\n" +
		"TTITLE0=Soniquete (Bulerias)\n" +
		"TTITLE1=Tio Sabas (Tarantas)\n" +
		"TTITLE2=Chick\n" +
		"TTITLE3=Compadres (Bulerias)\n" +
		"TTITLE4=Zyryab\n" +
		"TTITLE5=Cancion de Amor\n" +
		"TTITLE6=Playa del Carmen (Rumba)\n" +
		"TTITLE7=Almonte (Fandangos)\n" +
		"EXTD=\n" +
		"EXTT0=\n" +
		"EXTT1=\n" +
		"EXTT2=\n" +
		"EXTT3=\n" +
		"EXTT4=\n" +
		"EXTT5=\n" +
		"EXTT6=\n" +
		"EXTT7=\n" +
		"PLAYORDER=\n"
	assert.Equal(t, expected, record)
}

func TestRecordVariousArtists(t *testing.T) {
	md := &discid.Metadata{
		Artist:     "Various Artists",
		Album:      "Zyryab",
		TrackNames: map[int]string{1: "Soniquete (Bulerias)", 2: "Tio Sabas (Tarantas)"},
		VarArtists: map[int]string{1: "Paco de Lucia", 2: "Paco"},
	}
	require.True(t, md.Various())

	record, err := discid.Record(zyryabGeometry(t), "6e09ea08", md, 1, "cdrip")
	require.NoError(t, err)

	assert.Contains(t, record, "DTITLE=Various Artists / Zyryab\n")
	assert.Contains(t, record, "TTITLE0=Paco de Lucia / Soniquete (Bulerias)\n")
	assert.Contains(t, record, "TTITLE1=Paco / Tio Sabas (Tarantas)\n")
	assert.Contains(t, record, "TTITLE2= / \n")
}

func TestRecordSkipsDataTracks(t *testing.T) {
	data := toc.Track{Number: 9, StartSector: 201802, LengthSector: 20000, IsData: true}
	record, err := discid.Record(zyryabGeometry(t, data), "6e09ea08", nil, 1, "cdrip")
	require.NoError(t, err)

	assert.Contains(t, record, "# Disc length: 2540 seconds\n")
	assert.NotContains(t, record, "TTITLE8=")
	assert.NotContains(t, record, "#        201952\n")
}

func TestMetadataNilSafe(t *testing.T) {
	var md *discid.Metadata
	assert.False(t, md.Various())
	assert.Empty(t, md.TrackName(1))
	assert.Empty(t, md.VarArtist(1))
}
