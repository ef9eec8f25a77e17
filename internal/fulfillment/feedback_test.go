package fulfillment

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fulfill/internal/testsupport"
)

func TestEmitFeedback(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := cfg.Paths.MainDir
	testsupport.WriteZip(t, filepath.Join(dir, "batch_done_1.zip"),
		testsupport.ZipEntry{Name: "a.xml", Body: testsupport.ManifestXML("ZZ000001", "ACME", testsupport.Recipient{Address: "1 A St"})},
		testsupport.ZipEntry{Name: "a.dtl", Body: "detail"},
		testsupport.ZipEntry{Name: "b.xml", Body: testsupport.ManifestXML("", "", testsupport.Recipient{Address: "2 B St"})},
	)
	testsupport.WriteZip(t, filepath.Join(dir, "AB123456_1.zip"),
		testsupport.ZipEntry{Name: "c.xml", Body: testsupport.ManifestXML("AB123456", "ACME")},
	)

	docs, err := NewBuilder(cfg, &testsupport.FakeExtractor{}, nil).EmitFeedback(context.Background(), dir, receivedAt)
	if err != nil {
		t.Fatalf("EmitFeedback: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 status documents, got %d", len(docs))
	}
	if docs[0].VendorID != "ACME" || docs[0].OrderID != "ZZ000001" {
		t.Fatalf("unexpected first document: %#v", docs[0])
	}
	if docs[1].VendorID != "Unknown" || docs[1].OrderID != "Unknown" {
		t.Fatalf("unexpected fallback document: %#v", docs[1])
	}
	want := []string{"order_Unknown.xml", "order_ZZ000001.xml"}
	if diff := cmp.Diff(want, testsupport.ListNames(t, filepath.Join(dir, "XML"))); diff != "" {
		t.Fatalf("XML dir mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitFeedbackKeepsEveryUnknownOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := cfg.Paths.MainDir
	testsupport.WriteZip(t, filepath.Join(dir, "batch_done_1.zip"),
		testsupport.ZipEntry{Name: "a.xml", Body: testsupport.ManifestXML("", "ACME")},
		testsupport.ZipEntry{Name: "b.xml", Body: `<order><header><orderId>QQ000002</orderId></header></order>`},
	)
	testsupport.WriteZip(t, filepath.Join(dir, "batch_done_2.zip"),
		testsupport.ZipEntry{Name: "c.xml", Body: testsupport.ManifestXML("", "BETA")},
	)

	docs, err := NewBuilder(cfg, &testsupport.FakeExtractor{}, nil).EmitFeedback(context.Background(), dir, receivedAt)
	if err != nil {
		t.Fatalf("EmitFeedback: %v", err)
	}
	var ids []string
	for _, doc := range docs {
		ids = append(ids, doc.OrderID+"/"+doc.VendorID)
	}
	if diff := cmp.Diff([]string{"Unknown/ACME", "QQ000002/Unknown", "Unknown/BETA"}, ids); diff != "" {
		t.Fatalf("documents mismatch (-want +got):\n%s", diff)
	}
	want := []string{"order_QQ000002.xml", "order_Unknown.xml", "order_Unknown_2.xml"}
	if diff := cmp.Diff(want, testsupport.ListNames(t, filepath.Join(dir, "XML"))); diff != "" {
		t.Fatalf("XML dir mismatch (-want +got):\n%s", diff)
	}
	second, err := ReadStatus(filepath.Join(dir, "XML", "order_Unknown_2.xml"))
	if err != nil {
		t.Fatalf("ReadStatus: %v", err)
	}
	if second.OrderID != "Unknown" || second.VendorID != "BETA" {
		t.Fatalf("unexpected numbered document: %#v", second)
	}
}
