package normalize

import "strings"

// addressPunctuation is the punctuation stripped before abbreviation
// expansion, matching the set used by the spreadsheet-side script.
const addressPunctuation = ".,/#!$%^&*;:{}=-_`~()"

// Header maps a raw CSV header to its canonical field name. Unknown headers
// fall back to the lowercased original with spaces replaced by underscores.
func (t *Tables) Header(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := t.Headers[h]; ok {
		return canonical
	}
	return strings.ReplaceAll(h, " ", "_")
}

// Value cleans a raw CSV cell: trims whitespace and strips one surrounding
// pair of double quotes.
func Value(raw string) string {
	v := strings.TrimSpace(raw)
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		v = v[1 : len(v)-1]
	}
	return v
}

// MLS normalizes a listing identifier. Spreadsheet exports of numeric-looking
// columns grow a synthetic ".0" suffix; strip it.
func MLS(raw string) string {
	mls := strings.TrimSpace(raw)
	return strings.TrimSuffix(mls, ".0")
}

// Email lowercases and trims an email address for consistent lookups.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Address normalizes a free-text address into a matching key: lowercase,
// punctuation removed, street-type and direction abbreviations expanded,
// tokens rejoined with single spaces. Idempotent.
func (t *Tables) Address(raw string) string {
	if raw == "" {
		return ""
	}

	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.Map(func(r rune) rune {
		if strings.ContainsRune(addressPunctuation, r) {
			return -1
		}
		return r
	}, cleaned)

	parts := strings.Fields(cleaned)
	for i, part := range parts {
		if expanded, ok := t.Abbreviations[part]; ok {
			parts[i] = expanded
		}
	}
	return strings.Join(parts, " ")
}

// BrandInFilename reports whether the vendor's brand token appears in a photo
// filename. ListerPros stamps its name into every delivered photo, so a hit
// is a definitive attribution signal.
func (t *Tables) BrandInFilename(filename string) bool {
	if filename == "" {
		return false
	}
	return strings.Contains(strings.ToLower(filename), t.BrandToken)
}

// ValidCamera reports whether a "make model" camera string is consistent
// with a ListerPros shoot. Blank or "-" means metadata was stripped and the
// shot is presumed vendor; otherwise the string must contain the vendor's
// camera model token. Any other camera fails the gate.
func (t *Tables) ValidCamera(camera string) bool {
	c := strings.TrimSpace(camera)
	if c == "" || c == "-" {
		return true
	}
	return strings.Contains(strings.ToLower(c), strings.ToLower(t.CameraModelToken))
}
