package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RecordOrder inserts or updates the journal entry for an order in a batch.
func (s *Store) RecordOrder(ctx context.Context, order Order) error {
	if strings.TrimSpace(order.OrderID) == "" {
		return errors.New("order id is required")
	}
	if _, ok := statusSet[order.Status]; !ok {
		return fmt.Errorf("unknown order status %q", order.Status)
	}
	updated := order.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO orders (order_id, batch, run_id, status, documents, error_message, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(order_id, batch) DO UPDATE SET
            run_id = excluded.run_id,
            status = excluded.status,
            documents = CASE WHEN excluded.documents > 0 THEN excluded.documents ELSE orders.documents END,
            error_message = excluded.error_message,
            updated_at = excluded.updated_at`,
		order.OrderID,
		order.Batch,
		order.RunID,
		order.Status,
		order.Documents,
		nullableString(order.ErrorMessage),
		formatTime(updated),
	)
	if err != nil {
		return fmt.Errorf("record order %s: %w", order.OrderID, err)
	}
	return nil
}

// MarkOrders moves every listed order of a batch to status.
func (s *Store) MarkOrders(ctx context.Context, runID, batch string, status Status, orderIDs ...string) error {
	for _, id := range orderIDs {
		if err := s.RecordOrder(ctx, Order{OrderID: id, Batch: batch, RunID: runID, Status: status}); err != nil {
			return err
		}
	}
	return nil
}

// Orders lists journal entries matching filter, ordered by batch then id.
func (s *Store) Orders(ctx context.Context, filter OrderFilter) ([]*Order, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.Batch != "" {
		clauses = append(clauses, "batch = ?")
		args = append(args, filter.Batch)
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "status IN ("+makePlaceholders(len(filter.Statuses))+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	query := "SELECT " + orderColumns + " FROM orders"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY batch, order_id"

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// IsArchived reports whether the order already reached the archived (or a
// later) status in batch.
func (s *Store) IsArchived(ctx context.Context, orderID, batch string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT COUNT(1) FROM orders WHERE order_id = ? AND batch = ? AND status IN (?, ?)`,
		orderID,
		batch,
		StatusArchived,
		StatusExported,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check archived %s: %w", orderID, err)
	}
	return count > 0, nil
}

// Stats returns a count of journal entries grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}
