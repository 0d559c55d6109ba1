package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode"
)

// Kind identifies an export target format.
type Kind string

const (
	KindTallyXML      Kind = "tally"
	KindQuickBooksIIF Kind = "iif"
	KindQuickBooksCSV Kind = "qbo-csv"
	KindZohoCSV       Kind = "zoho-csv"
	KindUniversalCSV  Kind = "universal-csv"
	KindExcel         Kind = "xlsx"
)

// Kinds returns every supported export format in stable order.
func Kinds() []Kind {
	return []Kind{
		KindTallyXML,
		KindQuickBooksIIF,
		KindQuickBooksCSV,
		KindZohoCSV,
		KindUniversalCSV,
		KindExcel,
	}
}

// Fragment is the per-invoice intermediate an encoder produces. Each
// encoder defines its own concrete fragment type; the orchestrator only
// passes fragments back to the encoder that created them.
type Fragment interface{}

// Encoder renders enriched invoices into one target format. Implementations
// are pure and never mutate their input: EncodeInvoice may run on parallel
// workers, Assemble runs single-threaded on fragments in input order so the
// artifact is deterministic regardless of scheduling.
type Encoder interface {
	// Kind identifies the target format.
	Kind() Kind

	// ContentType is the MIME type of the assembled artifact.
	ContentType() string

	// Extension is the artifact file extension, without the dot.
	Extension() string

	// EncodeInvoice renders one invoice into a mergeable fragment. Errors
	// are scoped to this invoice and never abort the batch.
	EncodeInvoice(inv *EnrichedInvoice) (Fragment, error)

	// Assemble merges fragments, preserving their order, into the final
	// artifact bytes.
	Assemble(frags []Fragment) ([]byte, error)
}

// EncoderOptions carries per-batch encoder configuration.
type EncoderOptions struct {
	// ColumnMapping overrides the universal CSV line-item columns
	// (target column name -> source field path). Nil selects the built-in
	// mapping.
	ColumnMapping map[string]string

	// TallySeparateVouchers emits one envelope per voucher instead of a
	// single combined import file.
	TallySeparateVouchers bool
}

// NewEncoder constructs the encoder for a format. An unknown kind or an
// invalid column mapping is a ConfigurationError: a caller programming
// error, fatal to the whole batch call.
func NewEncoder(kind Kind, opts EncoderOptions) (Encoder, error) {
	switch kind {
	case KindTallyXML:
		return newTallyEncoder(opts.TallySeparateVouchers), nil
	case KindQuickBooksIIF:
		return newIIFEncoder(), nil
	case KindQuickBooksCSV:
		return newQuickBooksCSVEncoder(), nil
	case KindZohoCSV:
		return newZohoCSVEncoder(), nil
	case KindUniversalCSV:
		return newUniversalCSVEncoder(opts.ColumnMapping)
	case KindExcel:
		return newExcelEncoder(), nil
	default:
		return nil, &ConfigurationError{
			Op:  "NewEncoder",
			Err: fmt.Errorf("%w: %q", ErrUnknownFormat, kind),
		}
	}
}

// utf8BOM is prepended to every CSV artifact so spreadsheet tools render
// non-ASCII symbols correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// writeCSV renders rows as RFC4180 CSV with a UTF-8 BOM prefix.
func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.WriteAll(rows); err != nil {
		return nil, &SystemError{Op: "writeCSV", Err: err}
	}

	return buf.Bytes(), nil
}

// checkField rejects control characters in a field destined for any target.
// Tabs and newlines are structural in the tab-delimited and XML targets and
// corrupt identifiers everywhere else.
func checkField(kind Kind, field, value string) error {
	if idx := strings.IndexFunc(value, unicode.IsControl); idx >= 0 {
		return NewEncodingError(kind, field, fmt.Errorf("%w: control character at offset %d",
			ErrUnsupportedCharacter, idx))
	}
	return nil
}

// checkRequired reports a schema violation when a required field is empty
// after enrichment.
func checkRequired(kind Kind, field, value string) error {
	if value == "" {
		return NewEncodingError(kind, field, ErrSchemaViolation)
	}
	return nil
}
