package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fulfill/internal/organizer"
	"fulfill/internal/services/xlsx"
	"fulfill/internal/testsupport"
)

func seedMain(t *testing.T, main string) {
	t.Helper()
	testsupport.WriteZip(t, filepath.Join(main, "AB123456_1.zip"),
		testsupport.ZipEntry{Name: "label1.pdf", Body: "%PDF-1.4 not really"},
		testsupport.ZipEntry{Name: "label2.pdf", Body: "%PDF-1.4 not really either"},
		testsupport.ZipEntry{Name: "order.xml", Body: testsupport.ManifestXML("AB123456", "ACME",
			testsupport.Recipient{Address: "123 Main St", SKU: "AIA_0300", DOCID: "D-42", Region: "R1"},
		)},
	)
}

func TestConfigInitWritesSample(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "sample", "fulfill.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, env.configPath)
	requireContains(t, out, "Main directory")
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateReportsMissingMain(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.cfg.Paths.MainDir); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	requireContains(t, out, "FAIL")
}

func TestRunCommandEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)
	main := env.cfg.Paths.MainDir
	seedMain(t, main)

	out, _, err := runCLI(t, []string{"run", "--dir", main}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Orders processed")
	requireContains(t, out, "extracted.xlsx")
	requireContains(t, out, "fulfill orders --status review")

	batch := organizer.BatchName(time.Now())
	exportPath := filepath.Join(main, batch, "extracted.xlsx")
	_, rows, err := xlsx.ReadRows(exportPath, "")
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 export rows, got %d", len(rows))
	}
	if rows[0]["First Name"] != "NOT FOUND" || rows[0]["Order ID"] != "AB123456" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}

	out, _, err = runCLI(t, []string{"orders"}, env.configPath)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	requireContains(t, out, "AB123456.2")
	requireContains(t, out, "review")
	requireContains(t, out, "Journal totals:")

	out, _, err = runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "completed")

	out, _, err = runCLI(t, []string{"ledger", "show", "--batch", batch}, env.configPath)
	if err != nil {
		t.Fatalf("ledger show: %v", err)
	}
	requireContains(t, out, "AB123456")
	requireContains(t, out, "1 rows")
}

func TestExportCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "adhoc")
	testsupport.WriteText(t, filepath.Join(dir, "AB123456", "scan.pdf"), "%PDF")
	testsupport.WriteText(t, filepath.Join(dir, "AB123456", "order.xml"), testsupport.ManifestXML("AB123456", ""))
	outPath := filepath.Join(env.baseDir, "out.xlsx")

	out, _, err := runCLI(t, []string{"export", "--dir", dir, "--out", outPath}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Records: 1")
	requireContains(t, out, "Unreadable documents: 1")
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("export missing: %v", err)
	}
}

func TestAddressesCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "scans")
	testsupport.WriteText(t, filepath.Join(dir, "one", "a.pdf"), "%PDF")
	testsupport.WriteText(t, filepath.Join(dir, "two", "b.pdf"), "%PDF")

	out, _, err := runCLI(t, []string{"addresses", "--dir", dir}, env.configPath)
	if err != nil {
		t.Fatalf("addresses: %v", err)
	}
	requireContains(t, out, "Folders scanned: 2")
	requireContains(t, out, "Addresses found: 0")

	headers, rows, err := xlsx.ReadRows(filepath.Join(dir, "addresses.xlsx"), "")
	if err != nil {
		t.Fatalf("read addresses: %v", err)
	}
	if len(headers) != 7 || len(rows) != 2 || rows[1]["File Name"] != "b.pdf" {
		t.Fatalf("unexpected addresses sheet: %v %v", headers, rows)
	}
}

func TestFeedbackCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "done")
	testsupport.WriteZip(t, filepath.Join(dir, "batch_done_1.zip"),
		testsupport.ZipEntry{Name: "a.xml", Body: testsupport.ManifestXML("AB123456", "ACME")},
		testsupport.ZipEntry{Name: "b.xml", Body: testsupport.ManifestXML("", "")},
	)

	out, _, err := runCLI(t, []string{"feedback", "--dir", dir}, env.configPath)
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	requireContains(t, out, "Status documents: 2")
	requireContains(t, out, "Ledger rows added: 2")

	batch := organizer.BatchName(time.Now())
	names := testsupport.ListNames(t, filepath.Join(dir, batch, "XML"))
	if len(names) != 2 {
		t.Fatalf("expected 2 status documents in batch, got %v", names)
	}
}

func TestOrdersRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"orders", "--status", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestLedgerShowEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"ledger", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("ledger show: %v", err)
	}
	requireContains(t, out, "is empty")
}

func TestLogsShowsNewestRunLog(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs on empty dir: %v", err)
	}
	requireContains(t, out, "No run logs")

	older := filepath.Join(env.cfg.Paths.LogDir, "fulfill-20260301T080000.000Z.log")
	newer := filepath.Join(env.cfg.Paths.LogDir, "fulfill-20260305T080000.000Z.log")
	if err := os.WriteFile(older, []byte("old run\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newer, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	out, _, err = runCLI(t, []string{"logs", "-n", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if out != "second\nthird\n" {
		t.Fatalf("unexpected logs output %q", out)
	}
}
