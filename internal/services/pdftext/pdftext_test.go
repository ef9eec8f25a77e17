package pdftext

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fulfill/internal/testsupport"
)

func TestStreamLines(t *testing.T) {
	stream := []byte(`BT
/F1 10 Tf
72 720 Td
(RETURN SERVICE REQUESTED) Tj
0 -12 Td
(Jane Q ) Tj
(Public) Tj
0 -12 Td
[(123 Main) -250 ( St Apt 4B)] TJ
T*
(Springfield, IL 62704) Tj
(Member \(primary\)) '
ET
`)
	want := []string{
		"RETURN SERVICE REQUESTED",
		"Jane Q Public",
		"123 Main St Apt 4B",
		"Springfield, IL 62704",
		"Member (primary)",
	}
	if diff := cmp.Diff(want, streamLines(stream)); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`plain`, "plain"},
		{`a\(b\)`, "a(b)"},
		{`back\\slash`, `back\slash`},
		{`sp\040ace`, "sp ace"},
		{`tab\there`, "tab here"},
	}
	for _, tc := range tests {
		if got := decodeString([]byte(tc.raw)); got != tc.want {
			t.Errorf("decodeString(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestExtractPagesRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	testsupport.WriteText(t, path, "not a pdf")

	if _, err := New().ExtractPages(context.Background(), path); err == nil {
		t.Fatal("expected error for corrupt document")
	}
}

func TestExtractPagesMissingFile(t *testing.T) {
	if _, err := New().ExtractPages(context.Background(), filepath.Join(t.TempDir(), "none.pdf")); err == nil {
		t.Fatal("expected error for missing document")
	}
}
