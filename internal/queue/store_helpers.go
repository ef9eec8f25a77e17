package queue

import (
	"database/sql"
	"errors"
	"time"
)

const runColumns = "id, main_dir, batch, status, started_at, finished_at, orders, records, ledger_added, export_path, error_message"

const orderColumns = "order_id, batch, run_id, status, documents, error_message, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(scanner rowScanner) (*Run, error) {
	var (
		run         Run
		statusStr   string
		startedRaw  string
		finishedRaw sql.NullString
		exportPath  sql.NullString
		errorMsg    sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.MainDir,
		&run.Batch,
		&statusStr,
		&startedRaw,
		&finishedRaw,
		&run.Orders,
		&run.Records,
		&run.LedgerAdded,
		&exportPath,
		&errorMsg,
	); err != nil {
		return nil, err
	}
	run.Status = RunStatus(statusStr)
	run.ExportPath = exportPath.String
	run.ErrorMessage = errorMsg.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

func scanOrder(scanner rowScanner) (*Order, error) {
	var (
		order      Order
		statusStr  string
		errorMsg   sql.NullString
		updatedRaw string
	)
	if err := scanner.Scan(
		&order.OrderID,
		&order.Batch,
		&order.RunID,
		&statusStr,
		&order.Documents,
		&errorMsg,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	order.Status = Status(statusStr)
	order.ErrorMessage = errorMsg.String
	if updated, err := parseTimeString(updatedRaw); err == nil {
		order.UpdatedAt = updated
	}
	return &order, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout keeps fractional seconds at fixed width so stored timestamps sort
// lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
