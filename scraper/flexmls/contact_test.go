package flexmls

import "testing"

func TestParseContact(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want Contact
	}{
		{
			name: "full cell in usual order",
			cell: "Jane Doe\n(602) 555-0101\nJane.Doe@Example.com\nwww.janedoe.com",
			want: Contact{Name: "Jane Doe", Phone: "(602) 555-0101", Email: "jane.doe@example.com", Website: "www.janedoe.com"},
		},
		{
			name: "phone before name",
			cell: "602-555-0101\nJane Doe",
			want: Contact{Name: "Jane Doe", Phone: "602-555-0101"},
		},
		{
			name: "office cell with https website",
			cell: "Desert Realty Group\n480.555.0199\nhttps://desertrealty.example.com",
			want: Contact{Name: "Desert Realty Group", Phone: "480.555.0199", Website: "https://desertrealty.example.com"},
		},
		{
			name: "blank lines and padding ignored",
			cell: "\n  Jane Doe  \n\n (602) 555-0101 \n",
			want: Contact{Name: "Jane Doe", Phone: "(602) 555-0101"},
		},
		{
			name: "first of each kind wins",
			cell: "Jane Doe\nJohn Roe\n602-555-0101\n602-555-0202",
			want: Contact{Name: "Jane Doe", Phone: "602-555-0101"},
		},
		{
			name: "empty cell",
			cell: "",
			want: Contact{},
		},
	}

	for _, tt := range tests {
		got := parseContact(tt.cell)
		if got != tt.want {
			t.Errorf("%s: parseContact = %+v; want %+v", tt.name, got, tt.want)
		}
	}
}

func TestParseContactShortLineIsNotName(t *testing.T) {
	// Grid cells sometimes carry stray one- or two-character fragments.
	c := parseContact("Jr\nJane Doe")
	if c.Name != "Jane Doe" {
		t.Errorf("Name = %q; fragments under 3 chars should be skipped", c.Name)
	}
}

func TestFirstName(t *testing.T) {
	tests := []struct {
		full string
		want string
	}{
		{"Jane Doe", "Jane"},
		{"  Jane  ", "Jane"},
		{"Jane", "Jane"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := firstName(tt.full); got != tt.want {
			t.Errorf("firstName(%q) = %q; want %q", tt.full, got, tt.want)
		}
	}
}

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"123 N. Main St., Phoenix, AZ 85001", "123 n main st phoenix az 85001"},
		{"456 E Camelback Rd #12", "456 e camelback rd 12"},
		{"  789   Desert   Blvd  ", "789 desert blvd"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := formatAddress(tt.display); got != tt.want {
			t.Errorf("formatAddress(%q) = %q; want %q", tt.display, got, tt.want)
		}
	}
}

func TestFormatAddressIdempotent(t *testing.T) {
	inputs := []string{"123 N. Main St., Phoenix", "already formatted street"}
	for _, in := range inputs {
		once := formatAddress(in)
		if twice := formatAddress(once); once != twice {
			t.Errorf("formatAddress not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
