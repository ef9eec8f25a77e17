package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteAndReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "extracted.xlsx")
	headers := []string{"Order ID", "First Name", "City"}
	rows := []map[string]string{
		{"Order ID": "AB123456", "First Name": "Jane", "City": "Springfield", "Ignored": "x"},
		{"Order ID": "CD987654"},
	}

	if err := NewSink("Orders").Write(path, headers, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}

	gotHeaders, gotRows, err := ReadRows(path, "Orders")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if diff := cmp.Diff(headers, gotHeaders); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	want := []map[string]string{
		{"Order ID": "AB123456", "First Name": "Jane", "City": "Springfield"},
		{"Order ID": "CD987654", "First Name": "", "City": ""},
	}
	if diff := cmp.Diff(want, gotRows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracted.xlsx")
	sink := NewSink("")
	headers := []string{"Order ID"}

	if err := sink.Write(path, headers, []map[string]string{{"Order ID": "old"}}); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := sink.Write(path, headers, nil); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	_, rows, err := ReadRows(path, "")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected header-only workbook, got %v", rows)
	}
}

func TestWriteRequiresHeaders(t *testing.T) {
	if err := NewSink("").Write(filepath.Join(t.TempDir(), "x.xlsx"), nil, nil); err == nil {
		t.Fatal("expected error without headers")
	}
}
