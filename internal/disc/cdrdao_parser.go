package disc

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"cdrip/internal/toc"
)

var (
	cdrdaoTrackComment = regexp.MustCompile(`^//\s*Track\s+(\d+)`)
	cdrdaoQuoted       = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

// cdrdaoTitleSeparator splits "ARTIST   ALBUM" disc titles.
const cdrdaoTitleSeparator = "   "

// parseCdrdaoTOC classifies each line of a cdrdao TOC file. Unknown lines
// are ignored.
func parseCdrdaoTOC(content string) cdrdaoTOC {
	var (
		info    cdrdaoTOC
		current *cdrdaoTrack
		number  int
	)

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := cdrdaoTrackComment.FindStringSubmatch(line); m != nil {
			number, _ = strconv.Atoi(m[1])
			current = info.open(number)
			continue
		}

		keyword, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		switch keyword {
		case "CD_DA", "CD_ROM", "CD_ROM_XA", "CD_I":
			info.discType = keyword
		case "TRACK":
			if current == nil {
				number = info.highest + 1
				current = info.open(number)
			}
			mode, _, _ := strings.Cut(rest, " ")
			current.data = mode != "AUDIO"
		case "PRE_EMPHASIS":
			if current != nil && rest == "" {
				current.preEmphasis = true
			}
		case "ISRC":
			if current != nil {
				current.isrc = quotedValue(rest)
			}
		case "SILENCE":
			sectors := lastMSF(rest)
			if current == nil || number == firstTrackNumber(&info) {
				info.silence = sectors
			}
			if current != nil {
				current.length += sectors
			}
		case "ZERO":
			if current != nil {
				current.length += lastMSF(rest)
			}
		case "FILE", "AUDIOFILE":
			if current != nil {
				current.length += fileLength(rest)
			}
		case "DATAFILE":
			if current != nil {
				current.length += dataFileLength(rest)
			}
		case "START":
			if current != nil {
				current.pregap = lastMSF(rest)
			}
		case "TITLE":
			value := quotedValue(rest)
			if current == nil {
				info.artist, info.album = splitDiscTitle(value)
			} else {
				current.title = value
			}
		case "PERFORMER":
			value := quotedValue(rest)
			if current == nil {
				if value != "" {
					info.artist = value
				}
			} else {
				current.performer = value
			}
		}
	}
	return info
}

func firstTrackNumber(info *cdrdaoTOC) int {
	if len(info.order) == 0 {
		return 0
	}
	return info.order[0]
}

func splitDiscTitle(title string) (artist, album string) {
	if before, after, ok := strings.Cut(title, cdrdaoTitleSeparator); ok {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return "", title
}

// fileLength reads `"name" <start> [<length>]`; without an explicit length
// the track runs to the end of the file, which the TOC does not record.
func fileLength(rest string) int {
	fields := strings.Fields(afterQuoted(rest))
	if len(fields) < 2 {
		return 0
	}
	sectors, err := toc.ParseMSF(fields[1])
	if err != nil {
		return 0
	}
	return sectors
}

// dataFileLength reads `"name" <length>` followed by an optional comment.
func dataFileLength(rest string) int {
	fields := strings.Fields(afterQuoted(rest))
	if len(fields) == 0 {
		return 0
	}
	sectors, err := toc.ParseMSF(fields[0])
	if err != nil {
		return 0
	}
	return sectors
}

func afterQuoted(rest string) string {
	loc := cdrdaoQuoted.FindStringIndex(rest)
	if loc == nil {
		return rest
	}
	tail := rest[loc[1]:]
	if idx := strings.Index(tail, "//"); idx >= 0 {
		tail = tail[:idx]
	}
	return tail
}

func lastMSF(rest string) int {
	if idx := strings.Index(rest, "//"); idx >= 0 {
		rest = rest[:idx]
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0
	}
	sectors, err := toc.ParseMSF(fields[len(fields)-1])
	if err != nil {
		return 0
	}
	return sectors
}

// quotedValue extracts the first quoted string and decodes cdrdao's escapes.
// CD-TEXT is Latin-1; non-ASCII bytes arrive as octal escapes.
func quotedValue(rest string) string {
	m := cdrdaoQuoted.FindStringSubmatch(rest)
	if m == nil {
		return ""
	}
	raw := unescapeCdrdao(m[1])
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

func unescapeCdrdao(value string) []byte {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch != '\\' || i+1 >= len(value) {
			out = append(out, ch)
			continue
		}
		if i+3 < len(value) && isOctal(value[i+1]) && isOctal(value[i+2]) && isOctal(value[i+3]) {
			n, _ := strconv.ParseUint(value[i+1:i+4], 8, 8)
			out = append(out, byte(n))
			i += 3
			continue
		}
		out = append(out, value[i+1])
		i++
	}
	return out
}

func isOctal(ch byte) bool {
	return ch >= '0' && ch <= '7'
}
