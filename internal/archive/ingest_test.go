package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fulfill/internal/config"
	"fulfill/internal/services"
	"fulfill/internal/testsupport"
)

func newIngestor(deleteSources bool) *Ingestor {
	cfg := config.Default()
	cfg.Archive.DeleteSources = deleteSources
	return NewIngestor(cfg.Archive, nil)
}

func seedArchives(t *testing.T, main string) {
	t.Helper()
	testsupport.WriteZip(t, filepath.Join(main, "AB123456_1.zip"),
		testsupport.ZipEntry{Name: "label1.pdf", Body: "pdf-one"},
		testsupport.ZipEntry{Name: "order.xml", Body: "<order/>"},
	)
	testsupport.WriteZip(t, filepath.Join(main, "AB123456_2.zip"),
		testsupport.ZipEntry{Name: "label2.pdf", Body: "pdf-two"},
	)
	testsupport.WriteZip(t, filepath.Join(main, "CD987654_1.zip"),
		testsupport.ZipEntry{Name: "scan.pdf", Body: "pdf-three"},
		testsupport.ZipEntry{Name: "manifest.xml", Body: "<order/>"},
	)
	testsupport.WriteText(t, filepath.Join(main, "notes.txt"), "ignore me")
}

func TestMirrorCopiesEveryArchiveOnce(t *testing.T) {
	main := t.TempDir()
	seedArchives(t, main)
	testsupport.WriteZip(t, filepath.Join(main, "misc.zip"), testsupport.ZipEntry{Name: "a", Body: "b"})
	ingestor := newIngestor(true)

	copied, err := ingestor.Mirror(context.Background(), main)
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if copied != 4 {
		t.Fatalf("copied = %d, want 4", copied)
	}
	want := []string{"AB123456_1.zip", "AB123456_2.zip", "CD987654_1.zip", "misc.zip"}
	if diff := cmp.Diff(want, testsupport.ListNames(t, ingestor.CompleteDir(main))); diff != "" {
		t.Fatalf("mirror contents mismatch (-want +got):\n%s", diff)
	}

	copied, err = ingestor.Mirror(context.Background(), main)
	if err != nil {
		t.Fatalf("second Mirror: %v", err)
	}
	if copied != 0 {
		t.Fatalf("second mirror copied %d archives, want 0", copied)
	}
}

func TestIngestExtractsGroupsAndRemovesSources(t *testing.T) {
	main := t.TempDir()
	seedArchives(t, main)
	ingestor := newIngestor(true)

	result, err := ingestor.Ingest(context.Background(), main, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if diff := cmp.Diff([]string{"AB123456", "CD987654"}, result.Orders); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
	if result.Extracted != 5 || result.Removed != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	want := []string{"label1.pdf", "label2.pdf", "order.xml"}
	if diff := cmp.Diff(want, testsupport.ListNames(t, filepath.Join(main, "AB123456"))); diff != "" {
		t.Fatalf("order dir mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(main, "AB123456_1.zip")); !os.IsNotExist(err) {
		t.Fatalf("expected source archive removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(main, "notes.txt")); err != nil {
		t.Fatalf("unrelated file should remain: %v", err)
	}
}

func TestIngestAcceptsUppercaseExtension(t *testing.T) {
	main := t.TempDir()
	testsupport.WriteZip(t, filepath.Join(main, "EF555555_A.ZIP"),
		testsupport.ZipEntry{Name: "label.pdf", Body: "%PDF"},
	)

	result, err := newIngestor(true).Ingest(context.Background(), main, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if diff := cmp.Diff([]string{"EF555555"}, result.Orders); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"label.pdf"}, testsupport.ListNames(t, filepath.Join(main, "EF555555"))); diff != "" {
		t.Fatalf("order dir mismatch (-want +got):\n%s", diff)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	main := t.TempDir()
	seedArchives(t, main)
	ingestor := newIngestor(false)

	if _, err := ingestor.Ingest(context.Background(), main, nil); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	labelPath := filepath.Join(main, "AB123456", "label1.pdf")
	before, err := os.Stat(labelPath)
	if err != nil {
		t.Fatal(err)
	}

	result, err := ingestor.Ingest(context.Background(), main, nil)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if result.Extracted != 0 || result.Skipped != 5 {
		t.Fatalf("expected every entry skipped, got %+v", result)
	}
	after, err := os.Stat(labelPath)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatal("existing entry was rewritten")
	}
	if got := testsupport.ListNames(t, filepath.Join(main, "AB123456")); len(got) != 3 {
		t.Fatalf("expected 3 members, got %v", got)
	}
}

func TestIngestRewritesTruncatedEntry(t *testing.T) {
	main := t.TempDir()
	seedArchives(t, main)
	testsupport.WriteText(t, filepath.Join(main, "CD987654", "scan.pdf"), "pdf")

	result, err := newIngestor(false).Ingest(context.Background(), main, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Extracted != 5 {
		t.Fatalf("expected truncated entry re-extracted, got %+v", result)
	}
	body, err := os.ReadFile(filepath.Join(main, "CD987654", "scan.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "pdf-three" {
		t.Fatalf("scan.pdf = %q", body)
	}
}

func TestIngestHonorsSkip(t *testing.T) {
	main := t.TempDir()
	seedArchives(t, main)

	result, err := newIngestor(true).Ingest(context.Background(), main, func(id string) bool { return id == "AB123456" })
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if diff := cmp.Diff([]string{"CD987654"}, result.Orders); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(main, "AB123456")); !os.IsNotExist(err) {
		t.Fatalf("skipped order dir should not exist, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(main, "AB123456_1.zip")); err != nil {
		t.Fatalf("skipped archive should remain: %v", err)
	}
}

func TestIngestRejectsUnsafeEntries(t *testing.T) {
	main := t.TempDir()
	testsupport.WriteZip(t, filepath.Join(main, "EF000111_1.zip"),
		testsupport.ZipEntry{Name: "../escape.pdf", Body: "bad"},
	)

	_, err := newIngestor(true).Ingest(context.Background(), main, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(main, "escape.pdf")); !os.IsNotExist(statErr) {
		t.Fatal("entry escaped the order directory")
	}
	if _, statErr := os.Stat(filepath.Join(main, "EF000111_1.zip")); statErr != nil {
		t.Fatalf("archive should be preserved after a failed extraction: %v", statErr)
	}
}

func TestIngestCorruptArchive(t *testing.T) {
	main := t.TempDir()
	testsupport.WriteText(t, filepath.Join(main, "EF000111_1.zip"), "not a zip")

	_, err := newIngestor(true).Ingest(context.Background(), main, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
