package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
	"github.com/factorydesk/ordertrack/pkg/domain/services"
)

// Finding is one row-level validation result. Findings surface malformed
// input to the caller; a malformed row degrades or is skipped, it never
// aborts the batch.
type Finding struct {
	Row      int    `json:"row"`
	Field    string `json:"field"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

const (
	findingWarning = "warning"
	findingError   = "error"
)

// Canonical column names and their accepted header spellings. Headers are
// matched case- and punctuation-insensitively, so "PO Number", "po_number"
// and "PONumber" all resolve to the same column.
var headerAliases = map[string][]string{
	"po":           {"po", "ponumber", "pono", "purchaseorder"},
	"quantity":     {"quantity", "qty", "orderqty", "orderquantity", "totalqty"},
	"crd":          {"crd", "crddate", "customerrequireddate", "requireddate"},
	"sdd":          {"sdd", "sddvalue", "sdddate", "scheduleddeliverydate", "scheduledate"},
	"code04":       {"code04", "code4", "slipapproval", "approval"},
	"factory":      {"factory", "plant"},
	"destination":  {"destination", "dest", "country"},
	"model":        {"model", "article", "modelname", "articleno"},
	"vendor":       {"vendor", "outsolevendor", "supplier"},
	"buyer":        {"buyer", "customer"},
	"cut":          {"cut", "cutting"},
	"presew":       {"presew", "presewing"},
	"sewinput":     {"sewinput", "sewinginput", "sewin"},
	"sewbalance":   {"sewbal", "sewbalance", "sewingbalance"},
	"outsourced":   {"outsource", "outsourced", "outsourcing"},
	"assembly":     {"assembly", "assy"},
	"warehousein":  {"whin", "warehousein", "wharehousein"},
	"warehouseout": {"whout", "warehouseout", "shipout"},
}

var stageColumns = map[string]entities.Stage{
	"cut":          entities.StageCutting,
	"presew":       entities.StagePreSewing,
	"sewinput":     entities.StageSewingInput,
	"sewbalance":   entities.StageSewingBalance,
	"outsourced":   entities.StageOutsourcing,
	"assembly":     entities.StageAssembly,
	"warehousein":  entities.StageWarehouseIn,
	"warehouseout": entities.StageWarehouseOut,
}

// Loader handles loading order records from tabular CSV sources
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new CSV loader
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log}
}

// LoadOrders loads order records from a CSV file. Malformed rows produce
// findings and defaults instead of failing the batch; only unreadable input
// or an unusable header is an error.
func (l *Loader) LoadOrders(filename string) ([]*entities.OrderRecord, []Finding, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open orders file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ParseOrders(file)
}

// ParseOrders reads order records from CSV content
func (l *Loader) ParseOrders(r io.Reader) ([]*entities.OrderRecord, []Finding, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read orders CSV: %w", err)
	}
	if len(rows) < 1 {
		return nil, nil, fmt.Errorf("orders CSV must have a header row")
	}

	columns := resolveHeader(rows[0])
	if _, ok := columns["po"]; !ok {
		return nil, nil, fmt.Errorf("orders CSV header has no recognizable PO column: %v", rows[0])
	}

	var records []*entities.OrderRecord
	var findings []Finding

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		record, rowFindings := l.parseRow(row, rowNum, columns)
		findings = append(findings, rowFindings...)
		if record != nil {
			records = append(records, record)
		}
	}

	l.log.Debug().
		Int("records", len(records)).
		Int("findings", len(findings)).
		Msg("parsed orders CSV")

	return records, findings, nil
}

// resolveHeader maps canonical column names to their index in this file
func resolveHeader(header []string) map[string]int {
	byAlias := make(map[string]string)
	for canonical, aliases := range headerAliases {
		for _, alias := range aliases {
			byAlias[alias] = canonical
		}
	}

	columns := make(map[string]int)
	for i, cell := range header {
		normalized := normalizeHeader(cell)
		canonical, ok := byAlias[normalized]
		if !ok {
			continue
		}
		if _, taken := columns[canonical]; !taken {
			columns[canonical] = i
		}
	}
	return columns
}

// normalizeHeader lowercases and strips everything but letters and digits
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (l *Loader) parseRow(row []string, rowNum int, columns map[string]int) (*entities.OrderRecord, []Finding) {
	var findings []Finding

	cell := func(name string) (string, bool) {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[idx]), true
	}

	poNumber, _ := cell("po")
	if poNumber == "" {
		return nil, append(findings, Finding{
			Row: rowNum, Field: "po", Severity: findingError,
			Message: "missing PO number, row skipped",
		})
	}

	var quantity int64
	if raw, ok := cell("quantity"); ok && raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		switch {
		case err != nil:
			findings = append(findings, Finding{
				Row: rowNum, Field: "quantity", Severity: findingWarning,
				Message: fmt.Sprintf("invalid quantity %q, defaulting to 0", raw),
			})
		case parsed < 0:
			findings = append(findings, Finding{
				Row: rowNum, Field: "quantity", Severity: findingWarning,
				Message: fmt.Sprintf("negative quantity %d, defaulting to 0", parsed),
			})
		default:
			quantity = parsed
		}
	}

	record, err := entities.NewOrderRecord(poNumber, quantity)
	if err != nil {
		return nil, append(findings, Finding{
			Row: rowNum, Field: "po", Severity: findingError,
			Message: fmt.Sprintf("unusable row: %v", err),
		})
	}

	record.CRD = l.parseDateCell(cell, "crd", rowNum, &findings)
	record.SDD = l.parseDateCell(cell, "sdd", rowNum, &findings)

	if raw, ok := cell("code04"); ok {
		record.Code04 = truthy(raw)
	}

	if v, ok := cell("factory"); ok && v != "" {
		record.Factory = v
	}
	if v, ok := cell("destination"); ok && v != "" {
		record.Destination = v
	}
	if v, ok := cell("model"); ok && v != "" {
		record.Model = v
	}
	if v, ok := cell("vendor"); ok && v != "" {
		record.Vendor = v
	}
	if v, ok := cell("buyer"); ok && v != "" {
		record.Buyer = v
	}

	for column, stage := range stageColumns {
		raw, ok := cell(column)
		if !ok || raw == "" {
			continue
		}
		completed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || completed < 0 {
			findings = append(findings, Finding{
				Row: rowNum, Field: column, Severity: findingWarning,
				Message: fmt.Sprintf("invalid %s count %q, defaulting to 0", column, raw),
			})
			continue
		}
		record.Production[stage].Completed = completed
	}

	return record, findings
}

// parseDateCell resolves one date column. Unparseable non-empty values get
// a warning finding; the record keeps a nil date either way, which the
// classifier treats as "predicate false".
func (l *Loader) parseDateCell(cell func(string) (string, bool), name string, rowNum int, findings *[]Finding) *time.Time {
	raw, ok := cell(name)
	if !ok || raw == "" {
		return nil
	}
	parsed, ok := services.ParseFlexibleDate(raw)
	if !ok {
		if !isDateSentinel(raw) {
			*findings = append(*findings, Finding{
				Row: rowNum, Field: name, Severity: findingWarning,
				Message: fmt.Sprintf("unparseable date %q", raw),
			})
		}
		return nil
	}
	return &parsed
}

// isDateSentinel reports whether a value is a known non-date marker that
// needs no finding (worksheets legitimately carry these in date columns)
func isDateSentinel(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "00:00:00", "original", "current", "plan", "actual", "total":
		return true
	default:
		return false
	}
}

// truthy interprets the loose boolean conventions of order worksheets
func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "n", "no", "false":
		return false
	default:
		return true
	}
}
