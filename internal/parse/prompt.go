package parse

import "strings"

// BuildExtractionPrompt composes the field-extraction prompt for a business
// document. The field lists mirror the backend document model; the OCR text
// is embedded verbatim at the end.
func BuildExtractionPrompt(text string) string {
	var b strings.Builder
	b.WriteString(`Extract all the following fields from this business document OCR text if available.
Financial numbers MUST NOT contain commas. Add .00 if integer to match DecimalField format.
Any field related to total, payment, loan amount, equity, amount paid, balance, or total payroll
should be stored in the 'total' field.
DO NOT MAKE UP your own document_type. Only these are valid document types: (invoice, receipt, bill, quotation, payroll, delivery_note, credit_note, debit_note, asset_purchase, bank_statement, short_term_borrowing (if period is less than 1 year), long_term_borrowing (if period is longer than 1 year), tax_filing, equity_injection, purchase_order, expense_claim, lowercase). No capital letters allowed in document_type.

FIELDS TO EXTRACT:

# common
- business_name
- document_type (invoice, receipt, bill, quotation, payroll, delivery_note, credit_note, debit_note, asset_purchase, bank_statement, short_term_borrowing (if period is less than 1 year), long_term_borrowing (if period is longer than 1 year), tax_filing, equity_injection, purchase_order, expense_claim, lowercase). No capital letters allowed in document_type.
- invoice_number
- vendor
- date
- total
- raw_text (verbatim OCR text)
- items (JSON list)

# Invoice
- invoice_number
- customer
- tax

# Receipt
- receipt_number
- payment_from
- payment_method
- balance

# Bill
- bill_number
- billed_to

# Quotation
- quotation_number
- issued_to

# Payroll
- payroll_month
- employee_salaries (list of objects with name and salary)

# Delivery Note
- delivery_note_number
- delivery_date
- delivered_to
- received_by

# Credit / Debit Notes
- credit_note_number
- debit_note_number

# Asset Purchase
- asset_value
- asset_description

# Loans
- loan_lender
- loan_terms

# Equity Injection
- equity_investor
- equity_terms

Respond in **valid JSON only**.
Remove all commas in numbers. Only plain numbers are allowed. Add .00 to numbers to match DecimalField database.
Document OCR text:
`)
	b.WriteString(text)
	return b.String()
}
