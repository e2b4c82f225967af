package parse

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

// documentTypes is the closed enumeration the backend document model accepts.
var documentTypes = []string{
	"invoice",
	"receipt",
	"bill",
	"quotation",
	"payroll",
	"delivery_note",
	"credit_note",
	"debit_note",
	"asset_purchase",
	"bank_statement",
	"short_term_borrowing",
	"long_term_borrowing",
	"tax_filing",
	"equity_injection",
	"purchase_order",
	"expense_claim",
	"unknown",
}

var documentTypeSchema = compileDocumentTypeSchema()

func compileDocumentTypeSchema() *jsonschema.Schema {
	enum := make([]string, len(documentTypes))
	for i, dt := range documentTypes {
		enum[i] = `"` + dt + `"`
	}
	raw := `{"type":"string","enum":[` + strings.Join(enum, ",") + `]}`

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("document_type.json", strings.NewReader(raw)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("document_type.json")
}

// normalizeDocumentType validates the model's document_type against the
// enumeration and coerces anything out of enum to "unknown". Models
// occasionally invent types or capitalize them despite the prompt.
func normalizeDocumentType(record map[string]any) {
	raw, _ := record["document_type"].(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		record["document_type"] = "unknown"
		return
	}

	lowered := strings.ToLower(raw)
	if err := documentTypeSchema.Validate(lowered); err != nil {
		telemetry.Warn("parse.document_type_rejected", map[string]any{"value": raw})
		record["document_type"] = "unknown"
		return
	}
	record["document_type"] = lowered
}
