package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sale status constants
const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"
)

// SalesWindow returns the half-open timestamp range [from, to+1 day) covering
// both calendar days in full.
func SalesWindow(from, to time.Time) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
	return start, end
}

// LoadSales returns completed sales created between from and to (inclusive
// calendar days), oldest first, each with its items and payments.
func (db *DB) LoadSales(ctx context.Context, from, to time.Time) ([]Sale, error) {
	start, end := SalesWindow(from, to)

	rows, err := db.pool.Query(ctx,
		`SELECT id, transaction_number, document_type, COALESCE(customer_name, ''),
		        subtotal::text, tax_amount::text, discount_amount::text, total_amount::text,
		        withholding::text, COALESCE(branch_id, ''), COALESCE(cashier, ''), created_at
		 FROM sales_transactions
		 WHERE status = $1 AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at, transaction_number`,
		SaleStatusCompleted, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}

	var sales []Sale
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.TransactionNumber, &s.DocumentType, &s.CustomerName,
			&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.TotalAmount,
			&s.Withholding, &s.BranchID, &s.Cashier, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		index[s.ID] = len(sales)
		sales = append(sales, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sales: %w", err)
	}
	if len(sales) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
	}

	if err := db.loadSaleItems(ctx, ids, sales, index); err != nil {
		return nil, err
	}
	if err := db.loadSalePayments(ctx, ids, sales, index); err != nil {
		return nil, err
	}
	return sales, nil
}

func (db *DB) loadSaleItems(ctx context.Context, ids []uuid.UUID, sales []Sale, index map[uuid.UUID]int) error {
	rows, err := db.pool.Query(ctx,
		`SELECT transaction_id, line_number, COALESCE(sku, ''), name, COALESCE(unit, ''),
		        quantity::text, unit_price::text, line_discount::text, total_price::text,
		        tax_rate::text, transaction_type
		 FROM sales_items
		 WHERE transaction_id = ANY($1)
		 ORDER BY transaction_id, line_number`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID uuid.UUID
		var item SaleItem
		if err := rows.Scan(&txID, &item.LineNumber, &item.SKU, &item.Name, &item.Unit,
			&item.Quantity, &item.UnitPrice, &item.LineDiscount, &item.TotalPrice,
			&item.TaxRate, &item.TransactionType); err != nil {
			return fmt.Errorf("failed to scan sale item: %w", err)
		}
		if i, ok := index[txID]; ok {
			sales[i].Items = append(sales[i].Items, item)
		}
	}
	return rows.Err()
}

func (db *DB) loadSalePayments(ctx context.Context, ids []uuid.UUID, sales []Sale, index map[uuid.UUID]int) error {
	rows, err := db.pool.Query(ctx,
		`SELECT transaction_id, line_number, method, amount::text,
		        COALESCE(bank_number, ''), COALESCE(card_name, ''), COALESCE(credit_transaction_type, 0)
		 FROM sales_payments
		 WHERE transaction_id = ANY($1)
		 ORDER BY transaction_id, line_number`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to query sale payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID uuid.UUID
		var p SalePayment
		if err := rows.Scan(&txID, &p.LineNumber, &p.Method, &p.Amount,
			&p.BankNumber, &p.CardName, &p.CreditTransactionType); err != nil {
			return fmt.Errorf("failed to scan sale payment: %w", err)
		}
		if i, ok := index[txID]; ok {
			sales[i].Payments = append(sales[i].Payments, p)
		}
	}
	return rows.Err()
}

// SaveSale inserts a completed sale with its items and payments and returns its ID.
func (db *DB) SaveSale(ctx context.Context, s *Sale) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO sales_transactions (transaction_number, document_type, customer_name,
		     subtotal, tax_amount, discount_amount, total_amount, withholding,
		     branch_id, cashier, status, created_at)
		 VALUES ($1, $2, $3, $4::text::numeric, $5::text::numeric, $6::text::numeric,
		     $7::text::numeric, $8::text::numeric, $9, $10, $11, $12)
		 RETURNING id`,
		s.TransactionNumber, s.DocumentType, nullIfEmpty(s.CustomerName),
		zeroIfEmpty(s.Subtotal), zeroIfEmpty(s.TaxAmount), zeroIfEmpty(s.DiscountAmount),
		zeroIfEmpty(s.TotalAmount), zeroIfEmpty(s.Withholding),
		nullIfEmpty(s.BranchID), nullIfEmpty(s.Cashier), SaleStatusCompleted, createdAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, item := range s.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO sales_items (transaction_id, line_number, sku, name, unit, quantity,
			     unit_price, line_discount, total_price, tax_rate, transaction_type)
			 VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7::text::numeric,
			     $8::text::numeric, $9::text::numeric, $10::text::numeric, $11)`,
			id, item.LineNumber, nullIfEmpty(item.SKU), item.Name, nullIfEmpty(item.Unit),
			zeroIfEmpty(item.Quantity), zeroIfEmpty(item.UnitPrice), zeroIfEmpty(item.LineDiscount),
			zeroIfEmpty(item.TotalPrice), zeroIfEmpty(item.TaxRate), item.TransactionType,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert sale item %d: %w", item.LineNumber, err)
		}
	}

	for _, p := range s.Payments {
		var creditType *int
		if p.CreditTransactionType != 0 {
			creditType = &p.CreditTransactionType
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO sales_payments (transaction_id, line_number, method, amount,
			     bank_number, card_name, credit_transaction_type)
			 VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7)`,
			id, p.LineNumber, p.Method, zeroIfEmpty(p.Amount),
			nullIfEmpty(p.BankNumber), nullIfEmpty(p.CardName), creditType,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert sale payment %d: %w", p.LineNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit sale: %w", err)
	}
	s.ID = id
	s.CreatedAt = createdAt
	return id, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
