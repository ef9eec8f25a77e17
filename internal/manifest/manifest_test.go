package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fulfill/internal/config"
	"fulfill/internal/services"
)

const sampleManifest = `<?xml version="1.0" encoding="UTF-8"?>
<order>
  <header>
    <vendorIndicator>ACME</vendorIndicator>
    <details>
      <orderId>AB12CD34</orderId>
    </details>
  </header>
  <recipients>
    <recipient>
      <mailadr1>999 Elm St</mailadr1>
      <sku>AIB_0200</sku>
      <DOCID>D-1</DOCID>
      <region_cd>R9</region_cd>
    </recipient>
    <recipient>
      <mailadr1>123 Main St Apt 4B</mailadr1>
      <sku>AIA_0300</sku>
      <DOCID>D-42</DOCID>
      <region_cd>R1</region_cd>
    </recipient>
    <recipient>
      <mailadr1>123M Other Rd</mailadr1>
      <sku>AIB_0200</sku>
      <DOCID>D-43</DOCID>
    </recipient>
  </recipients>
</order>`

func newReader() *Reader {
	cfg := config.Default()
	return NewReader(cfg.Manifest)
}

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "order.xml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestReadMatchesFirstRecipientByPrefix(t *testing.T) {
	got, err := newReader().Read(writeManifest(t, sampleManifest), "123 Main St")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := Result{
		OrderID:         "AB12CD34",
		AnyOrderID:      "AB12CD34",
		SKU:             "AIA_0300",
		Description:     "Audio CD, D-42",
		DOCID:           "D-42",
		Region:          "R1",
		VendorIndicator: "ACME",
		Matched:         true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Read mismatch (-want +got):\n%s", diff)
	}
}

func TestReadNoMatchKeepsOnlyOrderID(t *testing.T) {
	got, err := newReader().Read(writeManifest(t, sampleManifest), "77 Harbor Rd")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := Result{OrderID: "AB12CD34", AnyOrderID: "AB12CD34", VendorIndicator: "ACME"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Read mismatch (-want +got):\n%s", diff)
	}
}

func TestReadEmptyHintMatchesFirstRecipient(t *testing.T) {
	got, err := newReader().Parse(strings.NewReader(sampleManifest), "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.DOCID != "D-1" || got.Description != "Braille, D-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestReadMissingOrderID(t *testing.T) {
	body := `<order><recipient><mailadr1>1 A St</mailadr1></recipient></order>`
	got, err := newReader().Parse(strings.NewReader(body), "1 A St")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.OrderID != NoOrderID {
		t.Fatalf("OrderID = %q, want %q", got.OrderID, NoOrderID)
	}
	if got.Description != "" {
		t.Fatalf("description without sku/docid should be empty, got %q", got.Description)
	}
}

func TestReadOrderIDOutsideDetails(t *testing.T) {
	body := `<order><meta><orderId>ZZ000009</orderId></meta><recipient><mailadr1>1 A St</mailadr1></recipient></order>`
	got, err := newReader().Parse(strings.NewReader(body), "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.OrderID != NoOrderID || got.AnyOrderID != "ZZ000009" {
		t.Fatalf("OrderID = %q, AnyOrderID = %q", got.OrderID, got.AnyOrderID)
	}
}

func TestDescribe(t *testing.T) {
	reader := newReader()
	tests := []struct {
		sku  string
		want string
	}{
		{sku: "AIA_0300", want: "Audio CD, X1"},
		{sku: "AIB_0200", want: "Braille, X1"},
		{sku: "ZZZ_9999", want: "Unknown Description"},
	}
	for _, tt := range tests {
		if got := reader.Describe(tt.sku, "X1"); got != tt.want {
			t.Errorf("Describe(%q) = %q, want %q", tt.sku, got, tt.want)
		}
	}
}

func TestDescribeUsesConfiguredTable(t *testing.T) {
	reader := NewReader(config.Manifest{
		SKUs:               []config.SKU{{Code: "LP_01", Template: "Large Print {DOCID}"}},
		UnknownDescription: "n/a",
	})
	if got := reader.Describe("LP_01", "Q7"); got != "Large Print Q7" {
		t.Fatalf("Describe = %q", got)
	}
	if got := reader.Describe("AIA_0300", "Q7"); got != "n/a" {
		t.Fatalf("Describe = %q", got)
	}
}

func TestReadMalformedXML(t *testing.T) {
	_, err := newReader().Read(writeManifest(t, "<order><details>"), "x")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := newReader().Read(filepath.Join(t.TempDir(), "absent.xml"), "x")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
