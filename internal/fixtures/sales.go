package fixtures

import (
	"math/big"
	"strings"

	"github.com/jonathan/openformat/internal/db"
	"github.com/jonathan/openformat/internal/layout"
	"github.com/jonathan/openformat/internal/types"
)

// FromSales turns POS sales into body records: per sale one C100, one D110
// per item and one D120 per payment, all sharing the sale's document type and
// number.
func FromSales(sales []db.Sale) []types.RecordInput {
	var out []types.RecordInput
	for _, s := range sales {
		out = append(out, saleHeader(s))
		for i, item := range s.Items {
			out = append(out, saleLine(s, i, item))
		}
		for i, p := range s.Payments {
			out = append(out, salePayment(s, i, p))
		}
	}
	return out
}

func saleHeader(s db.Sale) types.RecordInput {
	v := map[string]any{
		"document_type":          s.DocumentType,
		"document_number":        s.TransactionNumber,
		"production_date":        s.CreatedAt,
		"production_time":        s.CreatedAt,
		"document_date":          s.CreatedAt,
		"customer_name":          s.CustomerName,
		"currency":               DefaultCurrency,
		"amount_before_discount": s.Subtotal,
		"discount":               s.DiscountAmount,
		"amount_after_discount":  afterDiscount(s),
		"vat_amount":             s.TaxAmount,
		"total_amount":           s.TotalAmount,
		"withholding":            s.Withholding,
		"branch_id":              s.BranchID,
		"operator":               s.Cashier,
	}
	return types.RecordInput{Code: "C100", Values: clipText("C100", v)}
}

func saleLine(s db.Sale, i int, item db.SaleItem) types.RecordInput {
	line := item.LineNumber
	if line == 0 {
		line = i + 1
	}
	v := map[string]any{
		"document_type":    s.DocumentType,
		"document_number":  s.TransactionNumber,
		"line_number":      line,
		"transaction_type": item.TransactionType,
		"internal_sku":     item.SKU,
		"description":      item.Name,
		"unit":             item.Unit,
		"quantity":         item.Quantity,
		"unit_price":       item.UnitPrice,
		"line_discount":    item.LineDiscount,
		"line_total":       item.TotalPrice,
		"vat_rate":         item.TaxRate,
		"branch_id":        s.BranchID,
		"document_date":    s.CreatedAt,
	}
	return types.RecordInput{Code: "D110", Values: clipText("D110", v)}
}

func salePayment(s db.Sale, i int, p db.SalePayment) types.RecordInput {
	line := p.LineNumber
	if line == 0 {
		line = i + 1
	}
	method := strings.ToLower(strings.TrimSpace(p.Method))
	v := map[string]any{
		"document_type":   s.DocumentType,
		"document_number": s.TransactionNumber,
		"line_number":     line,
		"payment_type":    PaymentType(method),
		"amount":          p.Amount,
		"branch_id":       s.BranchID,
		"document_date":   s.CreatedAt,
	}
	if method == "check" && p.BankNumber != "" {
		v["bank_number"] = p.BankNumber
	}
	if method == "card" {
		v["card_name"] = p.CardName
		if p.CreditTransactionType != 0 {
			v["credit_transaction_type"] = p.CreditTransactionType
		}
	}
	return types.RecordInput{Code: "D120", Values: clipText("D120", v)}
}

// afterDiscount is subtotal minus discount, kept exact to the agorot.
// Unparseable inputs fall back to the subtotal so rendering reports them.
func afterDiscount(s db.Sale) string {
	sub, ok := new(big.Rat).SetString(zeroIfBlank(s.Subtotal))
	if !ok {
		return s.Subtotal
	}
	disc, ok := new(big.Rat).SetString(zeroIfBlank(s.DiscountAmount))
	if !ok {
		return s.Subtotal
	}
	return new(big.Rat).Sub(sub, disc).FloatString(2)
}

// clippable lists the descriptive POS fields that may be shortened to fit.
// Identifiers (document numbers, branches, operators, SKUs) are never cut.
var clippable = map[string]bool{
	"description":   true,
	"customer_name": true,
	"card_name":     true,
	"unit":          true,
}

// clipText shortens free-text values to their layout width. Anything else
// that overflows is left for the assembler to reject.
func clipText(code string, v map[string]any) map[string]any {
	rt, err := layout.Lookup(code)
	if err != nil {
		return v
	}
	for name, x := range v {
		if !clippable[name] {
			continue
		}
		str, ok := x.(string)
		if !ok {
			continue
		}
		f, ok := rt.Field(name)
		if !ok || f.Kind != layout.Text {
			continue
		}
		if r := []rune(str); len(r) > f.Width {
			v[name] = string(r[:f.Width])
		}
	}
	return v
}

func zeroIfBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	return strings.TrimSpace(s)
}
