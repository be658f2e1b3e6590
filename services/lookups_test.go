package services

import (
	"os"
	"path/filepath"
	"testing"

	"listings-feed-store/normalize"
	"listings-feed-store/utils"
)

func newTestLoader() *LookupLoader {
	return NewLookupLoader(normalize.MustLoadTables(), utils.NewLogger())
}

func TestVendorAddressesNormalized(t *testing.T) {
	ll := newTestLoader()
	path := filepath.Join(t.TempDir(), "orders.csv")
	content := "Order ID,Formatted Address\n" +
		"1,123 N. Main St.\n" +
		"2,456 E Camelback Rd\n" +
		"3,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	addrs, err := ll.VendorAddresses(path)
	if err != nil {
		t.Fatalf("VendorAddresses: %v", err)
	}
	if len(addrs) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(addrs))
	}
	if _, ok := addrs["123 north main street"]; !ok {
		t.Error("expected normalized address key for 123 N. Main St.")
	}
}

func TestVendorAddressesAcceptsPlainAddressColumn(t *testing.T) {
	ll := newTestLoader()
	path := filepath.Join(t.TempDir(), "orders.csv")
	if err := os.WriteFile(path, []byte("Address\n789 SW Desert Blvd\n"), 0644); err != nil {
		t.Fatal(err)
	}

	addrs, err := ll.VendorAddresses(path)
	if err != nil {
		t.Fatalf("VendorAddresses: %v", err)
	}
	if _, ok := addrs["789 southwest desert boulevard"]; !ok {
		t.Errorf("expected address from plain Address column, got %v", addrs)
	}
}

func TestVendorAddressesMissingColumnIsEmpty(t *testing.T) {
	ll := newTestLoader()
	path := filepath.Join(t.TempDir(), "orders.csv")
	if err := os.WriteFile(path, []byte("Order ID,City\n1,Phoenix\n"), 0644); err != nil {
		t.Fatal(err)
	}

	addrs, err := ll.VendorAddresses(path)
	if err != nil {
		t.Fatalf("VendorAddresses: %v", err)
	}
	if len(addrs) != 0 {
		t.Errorf("expected empty set without address column, got %d", len(addrs))
	}
}

func TestVendorAddressesMissingFileIsEmpty(t *testing.T) {
	ll := newTestLoader()
	addrs, err := ll.VendorAddresses(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(addrs) != 0 {
		t.Errorf("expected empty set, got %d", len(addrs))
	}
}

func TestPreferredPhotographers(t *testing.T) {
	ll := newTestLoader()
	path := filepath.Join(t.TempDir(), "photographers.csv")
	content := "Agent Email,Preferred Photographer\n" +
		"Jane.Doe@Example.com,Alex Rivera\n" +
		",Nobody\n" +
		"empty@example.com,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	mapping, err := ll.PreferredPhotographers(path)
	if err != nil {
		t.Fatalf("PreferredPhotographers: %v", err)
	}
	if len(mapping) != 1 {
		t.Fatalf("expected 1 mapping, got %d", len(mapping))
	}
	if mapping["jane.doe@example.com"] != "Alex Rivera" {
		t.Errorf("mapping = %v; want lowercased email key", mapping)
	}
}

func TestPreferredPhotographersMissingColumns(t *testing.T) {
	ll := newTestLoader()
	path := filepath.Join(t.TempDir(), "photographers.csv")
	if err := os.WriteFile(path, []byte("Email,Name\na@b.com,X\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mapping, err := ll.PreferredPhotographers(path)
	if err != nil {
		t.Fatalf("PreferredPhotographers: %v", err)
	}
	if len(mapping) != 0 {
		t.Errorf("expected empty mapping without required columns, got %d", len(mapping))
	}
}
