package models

import "strings"

// VendorFlag is the tri-state ListerPros attribution signal on a listing.
// Unset means no signal has been recorded yet; No means an explicit
// non-affirmative value was present in the source data; Yes is final and is
// never downgraded once set.
type VendorFlag int

const (
	VendorUnset VendorFlag = iota
	VendorNo
	VendorYes
)

// ParseVendorFlag converts the raw spreadsheet value ("Yes", "true", "1",
// "no", "") into the typed flag.
func ParseVendorFlag(raw string) VendorFlag {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return VendorUnset
	case "yes", "true", "1":
		return VendorYes
	default:
		return VendorNo
	}
}

// IsSet reports whether the flag is affirmative.
func (f VendorFlag) IsSet() bool { return f == VendorYes }

// String renders the flag back into its CSV representation.
func (f VendorFlag) String() string {
	switch f {
	case VendorYes:
		return "Yes"
	case VendorNo:
		return "No"
	default:
		return ""
	}
}

// Listing is the canonical record shape for one MLS listing row after header
// normalization and value cleaning. Field order mirrors the canonical CSV
// column order.
type Listing struct {
	Timestamp             string
	MLSNumber             string
	Price                 string
	ListingAddress        string
	Status                string
	AgentName             string
	AgentFirstName        string
	AgentPhone            string
	AgentEmail            string
	AgentWebsite          string
	OfficeName            string
	OfficePhone           string
	OfficeEmail           string
	OfficeWebsite         string
	FormattedAddress      string
	ImageFilename         string
	ExifArtist            string
	ExifCopyright         string
	ExifMake              string
	ExifModel             string
	ExifLensModel         string
	ExifBodySerialNumber  string
	ExifDateTimeDigitized string
	ScrapedImageFilename  string
	VendorFlag            VendorFlag
	Cleaned               string
	PreferredPhotographer string
}

// Camera builds the "make model" string used by the camera-validity gate and
// the photographer analytics. Empty when both EXIF fields are blank.
func (l *Listing) Camera() string {
	return strings.TrimSpace(strings.TrimSpace(l.ExifMake) + " " + strings.TrimSpace(l.ExifModel))
}

// CanonicalColumns is the canonical CSV header, in write order.
var CanonicalColumns = []string{
	"timestamp", "mls_number", "price", "listing_address", "status",
	"agent_name", "agent_first_name", "agent_phone", "agent_email", "agent_website",
	"office_name", "office_phone", "office_email", "office_website",
	"formatted_address", "image_filename",
	"exif_artist", "exif_copyright", "exif_make", "exif_model",
	"exif_lens_model", "exif_body_serial_number", "exif_date_time_digitized",
	"scraped_image_filename", "lp_flag", "cleaned", "preferred_photographer",
}

// Field returns the value for a canonical column name. Unknown columns
// return the empty string.
func (l *Listing) Field(column string) string {
	switch column {
	case "timestamp":
		return l.Timestamp
	case "mls_number":
		return l.MLSNumber
	case "price":
		return l.Price
	case "listing_address":
		return l.ListingAddress
	case "status":
		return l.Status
	case "agent_name":
		return l.AgentName
	case "agent_first_name":
		return l.AgentFirstName
	case "agent_phone":
		return l.AgentPhone
	case "agent_email":
		return l.AgentEmail
	case "agent_website":
		return l.AgentWebsite
	case "office_name":
		return l.OfficeName
	case "office_phone":
		return l.OfficePhone
	case "office_email":
		return l.OfficeEmail
	case "office_website":
		return l.OfficeWebsite
	case "formatted_address":
		return l.FormattedAddress
	case "image_filename":
		return l.ImageFilename
	case "exif_artist":
		return l.ExifArtist
	case "exif_copyright":
		return l.ExifCopyright
	case "exif_make":
		return l.ExifMake
	case "exif_model":
		return l.ExifModel
	case "exif_lens_model":
		return l.ExifLensModel
	case "exif_body_serial_number":
		return l.ExifBodySerialNumber
	case "exif_date_time_digitized":
		return l.ExifDateTimeDigitized
	case "scraped_image_filename":
		return l.ScrapedImageFilename
	case "lp_flag":
		return l.VendorFlag.String()
	case "cleaned":
		return l.Cleaned
	case "preferred_photographer":
		return l.PreferredPhotographer
	}
	return ""
}

// SetField assigns a cleaned value to the field named by a canonical column.
// Values for unknown columns are dropped.
func (l *Listing) SetField(column, value string) {
	switch column {
	case "timestamp":
		l.Timestamp = value
	case "mls_number":
		l.MLSNumber = value
	case "price":
		l.Price = value
	case "listing_address":
		l.ListingAddress = value
	case "status":
		l.Status = value
	case "agent_name":
		l.AgentName = value
	case "agent_first_name":
		l.AgentFirstName = value
	case "agent_phone":
		l.AgentPhone = value
	case "agent_email":
		l.AgentEmail = value
	case "agent_website":
		l.AgentWebsite = value
	case "office_name":
		l.OfficeName = value
	case "office_phone":
		l.OfficePhone = value
	case "office_email":
		l.OfficeEmail = value
	case "office_website":
		l.OfficeWebsite = value
	case "formatted_address":
		l.FormattedAddress = value
	case "image_filename":
		l.ImageFilename = value
	case "exif_artist":
		l.ExifArtist = value
	case "exif_copyright":
		l.ExifCopyright = value
	case "exif_make":
		l.ExifMake = value
	case "exif_model":
		l.ExifModel = value
	case "exif_lens_model":
		l.ExifLensModel = value
	case "exif_body_serial_number":
		l.ExifBodySerialNumber = value
	case "exif_date_time_digitized":
		l.ExifDateTimeDigitized = value
	case "scraped_image_filename":
		l.ScrapedImageFilename = value
	case "lp_flag":
		l.VendorFlag = ParseVendorFlag(value)
	case "cleaned":
		l.Cleaned = value
	case "preferred_photographer":
		l.PreferredPhotographer = value
	}
}

// Row serializes the listing into a canonical CSV row.
func (l *Listing) Row() []string {
	row := make([]string, len(CanonicalColumns))
	for i, col := range CanonicalColumns {
		row[i] = l.Field(col)
	}
	return row
}
