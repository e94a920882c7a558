package fixtures

import (
	"github.com/jonathan/openformat/internal/types"
)

// SampleVAT is the placeholder business number of the built-in sample.
const SampleVAT = "00223344"

// Sample returns the built-in fixture: one invoice with a single line, its
// cash receipt and one inventory item. The values are static placeholders.
func Sample() types.FixtureInput {
	return types.FixtureInput{
		Business: types.Business{
			VATNumber:   SampleVAT,
			Name:        "Sample Store LTD",
			Street:      "Some St",
			HouseNumber: "1",
			City:        "תל אביב",
			Zip:         "12345",
		},
		Software: types.Software{
			Name:    "MyPOS",
			Version: "0.1.0",
			Type:    1,
		},
		Period: types.Period{
			TaxYear: 2025,
			Start:   "20250101",
			End:     "20251231",
		},
		Records: []types.RecordInput{
			{Code: "C100", Values: map[string]any{
				"document_type":          305,
				"document_number":        "INV-0001",
				"production_date":        "20250911",
				"production_time":        "1025",
				"customer_name":          "John Customer",
				"customer_street":        "Main St",
				"customer_house_number":  "5",
				"customer_zip":           "12345",
				"customer_country_code":  "IL",
				"foreign_amount":         1000.00,
				"currency":               "ILS",
				"amount_before_discount": 1000.00,
				"discount":               0.00,
				"amount_after_discount":  900.00,
				"vat_amount":             100.00,
				"total_amount":           1000.00,
				"withholding":            0.00,
				"customer_key":           "CUST-01",
				"document_date":          "20250911",
				"operator":               "operator",
				"link":                   1,
			}},
			{Code: "D110", Values: map[string]any{
				"document_type":    305,
				"document_number":  "INV-0001",
				"line_number":      1,
				"transaction_type": 2,
				"internal_sku":     "BRG001-INT",
				"description":      "המבורגר",
				"unit":             "unit",
				"quantity":         2,
				"unit_price":       200.00,
				"line_discount":    0.00,
				"line_total":       400.00,
				"vat_rate":         17,
				"document_date":    "20250911",
			}},
			{Code: "D120", Values: map[string]any{
				"document_type":   400,
				"document_number": "RCP-0001",
				"line_number":     1,
				"payment_type":    PaymentCash,
				"amount":          1000.00,
				"document_date":   "20250911",
			}},
			{Code: "M100", Values: map[string]any{
				"universal_code":         "BRG001",
				"supplier_code":          "BRG001-SUP",
				"internal_code":          "BRG001-INT",
				"name":                   "Burger",
				"category_code":          "FOOD",
				"category_description":   "Food Items",
				"unit":                   "Unit",
				"opening_stock":          10,
				"total_in":               100,
				"total_out":              90,
				"cost_excluding_customs": 20.00,
			}},
		},
	}
}

// Payment type codes for D120 field 1306.
const (
	PaymentCash     = 1
	PaymentCheck    = 2
	PaymentCard     = 3
	PaymentTransfer = 4
	PaymentOther    = 9
)

// PaymentType maps a POS payment method to its D120 code.
func PaymentType(method string) int {
	switch method {
	case "cash":
		return PaymentCash
	case "check":
		return PaymentCheck
	case "card":
		return PaymentCard
	case "digital":
		return PaymentTransfer
	default:
		return PaymentOther
	}
}
