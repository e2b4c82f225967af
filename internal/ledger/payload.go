package ledger

import (
	"strings"

	"github.com/Nick-Maximillien/autobooks-ai/internal/auth"
)

// documentFields is the fixed field superset the backend document model
// accepts. Fields the extractor did not produce are serialized as null.
var documentFields = []string{
	"business_name",
	"invoice_number",
	"vendor",
	"bill_number",
	"date",
	"tax",
	"total",
	"customer",
	"receipt_number",
	"amount_paid",
	"payment_method",
	"balance",
	"billed_to",
	"quotation_number",
	"issued_to",
	"payroll_month",
	"employee_salaries",
	"delivery_date",
	"delivery_note_number",
	"delivered_to",
	"credit_note_number",
	"debit_note_number",
	"asset_value",
	"asset_description",
	"loan_lender",
	"loan_terms",
	"equity_investor",
	"equity_terms",
	"received_by",
}

// BuildDocumentPayload maps a structured record onto the backend ingestion
// payload. The mapping is deterministic: every field of the superset is
// present, items defaults to an empty list, ownership fields come from the
// request identity.
func BuildDocumentPayload(record map[string]any, rawText string, identity auth.Identity) map[string]any {
	payload := make(map[string]any, len(documentFields)+6)
	for _, field := range documentFields {
		payload[field] = record[field]
	}

	items := record["items"]
	if items == nil {
		items = []any{}
	}
	payload["items"] = items

	docType, _ := record["document_type"].(string)
	if strings.TrimSpace(docType) == "" {
		docType = "unknown"
	}
	payload["document_type"] = docType

	payload["raw_text"] = rawText
	payload["user_id"] = identity.UserID
	payload["business"] = identity.UserID

	if identity.Username != "" {
		payload["uploaded_by"] = identity.Username
	} else if identity.Email != "" {
		payload["uploaded_by"] = identity.Email
	}

	return payload
}
