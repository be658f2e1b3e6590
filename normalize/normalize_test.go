package normalize

import "testing"

func TestHeaderVariants(t *testing.T) {
	tables := MustLoadTables()

	tests := []struct {
		raw  string
		want string
	}{
		{"MLS Number", "mls_number"},
		{"  Agent Email  ", "agent_email"},
		{"Date", "timestamp"},
		{"date_time", "timestamp"},
		{"What Is", "timestamp"}, // typo carried in the Tucson archive export
		{"LP?", "lp_flag"},
		{"Preferred Photographer", "preferred_photographer"},
		{"Exif Body Serial Number", "exif_body_serial_number"},
		{"Some Unknown Column", "some_unknown_column"},
		{"already_canonical", "already_canonical"},
	}

	for _, tt := range tests {
		got := tables.Header(tt.raw)
		if got != tt.want {
			t.Errorf("Header(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestHeaderDeterministic(t *testing.T) {
	tables := MustLoadTables()
	for i := 0; i < 3; i++ {
		if got := tables.Header("Listing Address"); got != "listing_address" {
			t.Fatalf("Header not stable across calls: got %q", got)
		}
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  plain  ", "plain"},
		{`"quoted"`, "quoted"},
		{`  "quoted with space" `, "quoted with space"},
		{`"`, `"`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Value(tt.raw); got != tt.want {
			t.Errorf("Value(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestMLS(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"6723451.0", "6723451"},
		{" 6723451 ", "6723451"},
		{"6723451", "6723451"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MLS(tt.raw); got != tt.want {
			t.Errorf("MLS(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestEmail(t *testing.T) {
	if got := Email("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("Email() = %q", got)
	}
}

func TestAddress(t *testing.T) {
	tables := MustLoadTables()

	tests := []struct {
		raw  string
		want string
	}{
		{"123 N. Main St.", "123 north main street"},
		{"456 E Camelback Rd, Phoenix", "456 east camelback road phoenix"},
		{"789 SW Desert Blvd", "789 southwest desert boulevard"},
		{"", ""},
		{"10 Saguaro Way", "10 saguaro way"},
	}

	for _, tt := range tests {
		if got := tables.Address(tt.raw); got != tt.want {
			t.Errorf("Address(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAddressIdempotent(t *testing.T) {
	tables := MustLoadTables()

	inputs := []string{
		"123 N. Main St.",
		"456 E Camelback Rd, Phoenix",
		"already normalized street",
		"",
	}
	for _, in := range inputs {
		once := tables.Address(in)
		twice := tables.Address(once)
		if once != twice {
			t.Errorf("Address not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestBrandInFilename(t *testing.T) {
	tables := MustLoadTables()

	tests := []struct {
		filename string
		want     bool
	}{
		{"Listing_ListerPros_9912.jpg", true},
		{"listerpros-final.jpg", true},
		{"IMG_2041.jpg", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tables.BrandInFilename(tt.filename); got != tt.want {
			t.Errorf("BrandInFilename(%q) = %v; want %v", tt.filename, got, tt.want)
		}
	}
}

func TestValidCamera(t *testing.T) {
	tables := MustLoadTables()

	tests := []struct {
		camera string
		want   bool
	}{
		{"", true},
		{"-", true},
		{"SONY ILCE-7M4", true},
		{"Sony ILCE-7M4", true},
		{"ILCE-7M4", true},
		{"sony ilce-7m4", true},
		{"Canon EOS R5", false},
		{"Apple iPhone 14 Pro", false},
		{"DJI FC3582", false},
	}

	for _, tt := range tests {
		if got := tables.ValidCamera(tt.camera); got != tt.want {
			t.Errorf("ValidCamera(%q) = %v; want %v", tt.camera, got, tt.want)
		}
	}
}
