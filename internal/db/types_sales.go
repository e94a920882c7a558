package db

import (
	"time"

	"github.com/google/uuid"
)

// Sale is a completed POS transaction with its lines and payments.
// Money columns are kept as decimal strings, exactly as stored.
type Sale struct {
	ID                uuid.UUID     `json:"id"`
	TransactionNumber string        `json:"transaction_number"`
	DocumentType      int           `json:"document_type"`
	CustomerName      string        `json:"customer_name,omitempty"`
	Subtotal          string        `json:"subtotal"`
	TaxAmount         string        `json:"tax_amount"`
	DiscountAmount    string        `json:"discount_amount"`
	TotalAmount       string        `json:"total_amount"`
	Withholding       string        `json:"withholding"`
	BranchID          string        `json:"branch_id,omitempty"`
	Cashier           string        `json:"cashier,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	Items             []SaleItem    `json:"items"`
	Payments          []SalePayment `json:"payments"`
}

// SaleItem is one line of a sale
type SaleItem struct {
	LineNumber      int    `json:"line_number"`
	SKU             string `json:"sku,omitempty"`
	Name            string `json:"name"`
	Unit            string `json:"unit,omitempty"`
	Quantity        string `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	LineDiscount    string `json:"line_discount"`
	TotalPrice      string `json:"total_price"`
	TaxRate         string `json:"tax_rate"`
	TransactionType int    `json:"transaction_type"`
}

// SalePayment is one tender used to settle a sale
type SalePayment struct {
	LineNumber            int    `json:"line_number"`
	Method                string `json:"method"`
	Amount                string `json:"amount"`
	BankNumber            string `json:"bank_number,omitempty"`
	CardName              string `json:"card_name,omitempty"`
	CreditTransactionType int    `json:"credit_transaction_type,omitempty"`
}
