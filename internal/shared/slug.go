package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxAlbumNameLen = 255

// SafeAlbumName derives an album slug from an arbitrary name the same way the
// server derives folder names from uploaded archives. The server response is
// authoritative; this is a best-effort fallback used only when the upload
// response omits album_name.
//
// Transformation: NFKD-normalize and strip combining marks, replace characters
// other than letters, digits and underscore with "-", collapse runs of dashes
// and whitespace into a single "-", trim leading/trailing dashes, cap at 255
// characters. An empty result becomes "unnamed".
func SafeAlbumName(name string) string {
	if name == "" {
		return "unnamed"
	}

	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	var out strings.Builder
	dash := false
	for _, r := range b.String() {
		if r == '-' || unicode.IsSpace(r) {
			dash = true
			continue
		}
		if dash && out.Len() > 0 {
			out.WriteRune('-')
		}
		dash = false
		out.WriteRune(r)
	}

	slug := strings.Trim(out.String(), "-")
	if len(slug) > maxAlbumNameLen {
		slug = slug[:maxAlbumNameLen]
		slug = strings.Trim(slug, "-")
	}
	if slug == "" {
		return "unnamed"
	}
	return slug
}

// AlbumNameFromArchive strips the .zip extension (case-insensitive) from an
// archive filename and slugifies the remainder.
func AlbumNameFromArchive(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if strings.HasSuffix(strings.ToLower(base), ".zip") {
		base = base[:len(base)-4]
	}
	return SafeAlbumName(base)
}
