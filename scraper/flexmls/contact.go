package flexmls

import (
	"regexp"
	"strings"
)

var (
	phoneRegexp = regexp.MustCompile(`^\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Contact holds the parsed pieces of an agent or office grid cell.
type Contact struct {
	Name    string
	Phone   string
	Email   string
	Website string
}

// parseContact classifies the text lines of a contact cell. The grid renders
// name, phone, email, and website as separate lines in no fixed order; the
// first line that is not a phone, email, or URL becomes the name.
func parseContact(cellText string) Contact {
	var c Contact

	for _, line := range strings.Split(cellText, "\n") {
		part := strings.TrimSpace(line)
		if part == "" {
			continue
		}
		switch {
		case phoneRegexp.MatchString(part):
			if c.Phone == "" {
				c.Phone = part
			}
		case emailRegexp.MatchString(part):
			if c.Email == "" {
				c.Email = strings.ToLower(part)
			}
		case strings.HasPrefix(part, "http://") || strings.HasPrefix(part, "https://") || strings.HasPrefix(part, "www."):
			if c.Website == "" {
				c.Website = part
			}
		default:
			if c.Name == "" && len(part) > 2 {
				c.Name = part
			}
		}
	}

	return c
}

// firstName returns the leading word of a full name.
func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var nonWordRegexp = regexp.MustCompile(`[^\w\s]`)

// formatAddress derives the matching-oriented formatted_address field from a
// display address: lowercase, punctuation to spaces, collapsed whitespace.
func formatAddress(display string) string {
	s := nonWordRegexp.ReplaceAllString(strings.ToLower(display), " ")
	return strings.Join(strings.Fields(s), " ")
}
