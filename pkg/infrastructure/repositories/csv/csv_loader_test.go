package csv

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
)

func testLoader() *Loader {
	return NewLoader(zerolog.Nop())
}

func TestParseOrders_CanonicalHeader(t *testing.T) {
	input := strings.Join([]string{
		"po,quantity,crd,sdd,code04,factory,destination,model,vendor,buyer,cut,presew,sewinput,sewbal,outsource,assembly,whin,whout",
		"PO-1001,1000,2026-01-10,2026-01-08,,F1,Hamburg,RUNNER-X,ACME,RetailCo,1000,900,800,700,600,500,400,300",
	}, "\n")

	records, findings, err := testLoader().ParseOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("clean input produced findings: %v", findings)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.PONumber != "PO-1001" || rec.Quantity != 1000 {
		t.Errorf("po/quantity = %s/%d", rec.PONumber, rec.Quantity)
	}
	if rec.CRD == nil || rec.CRD.Format("2006-01-02") != "2026-01-10" {
		t.Errorf("CRD = %v", rec.CRD)
	}
	if rec.SDD == nil || rec.SDD.Format("2006-01-02") != "2026-01-08" {
		t.Errorf("SDD = %v", rec.SDD)
	}
	if rec.Code04 {
		t.Error("empty code04 cell should be false")
	}
	if rec.Destination != "Hamburg" || rec.Vendor != "ACME" || rec.Buyer != "RetailCo" {
		t.Errorf("dimensions = %s/%s/%s", rec.Destination, rec.Vendor, rec.Buyer)
	}
	if rec.Completed(entities.StageCutting) != 1000 || rec.Completed(entities.StageWarehouseOut) != 300 {
		t.Errorf("stage counts = %d/%d", rec.Completed(entities.StageCutting), rec.Completed(entities.StageWarehouseOut))
	}
}

func TestParseOrders_LegacyHeaderAliases(t *testing.T) {
	// Alternate spellings, punctuation and casing all resolve to the same columns
	input := strings.Join([]string{
		"PO Number,Order Qty,Customer Required Date,SDD Value,Outsole Vendor,Article",
		"PO-2002,500,2026-03-01,2026-02-27,SoleMate,TRAIL-9",
	}, "\n")

	records, _, err := testLoader().ParseOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.PONumber != "PO-2002" || rec.Quantity != 500 {
		t.Errorf("po/quantity = %s/%d", rec.PONumber, rec.Quantity)
	}
	if rec.CRD == nil || rec.SDD == nil {
		t.Error("aliased date columns did not resolve")
	}
	if rec.Vendor != "SoleMate" || rec.Model != "TRAIL-9" {
		t.Errorf("vendor/model = %s/%s", rec.Vendor, rec.Model)
	}
}

func TestParseOrders_MalformedRowsDoNotAbort(t *testing.T) {
	input := strings.Join([]string{
		"po,quantity,crd",
		",100,2026-01-01",          // no PO: skipped with an error finding
		"PO-OK,abc,2026-01-01",     // bad quantity: kept with default 0
		"PO-OK2,200,not-a-date",    // bad date: kept with nil CRD
		"PO-OK3,300,2026-02-01",    // clean
		"PO-SENT,400,00:00:00",     // sentinel non-date: silent nil
	}, "\n")

	records, findings, err := testLoader().ParseOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4 (only the PO-less row skipped)", len(records))
	}

	var errors, warnings int
	for _, f := range findings {
		switch f.Severity {
		case "error":
			errors++
		case "warning":
			warnings++
		}
	}
	if errors != 1 {
		t.Errorf("got %d error findings, want 1 (missing PO)", errors)
	}
	if warnings != 2 {
		t.Errorf("got %d warning findings, want 2 (bad quantity, bad date)", warnings)
	}

	if records[0].Quantity != 0 {
		t.Errorf("bad quantity should default to 0, got %d", records[0].Quantity)
	}
	if records[1].CRD != nil {
		t.Error("unparseable date should leave CRD nil")
	}
	if records[3].CRD != nil {
		t.Error("sentinel date should leave CRD nil")
	}
}

func TestParseOrders_SentinelDefaults(t *testing.T) {
	input := "po,quantity\nPO-1,100\n"

	records, _, err := testLoader().ParseOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	rec := records[0]
	for _, v := range []string{rec.Factory, rec.Destination, rec.Model, rec.Vendor, rec.Buyer} {
		if v != entities.UnknownValue {
			t.Errorf("absent dimension = %q, want %q", v, entities.UnknownValue)
		}
	}
}

func TestParseOrders_Code04Truthiness(t *testing.T) {
	input := strings.Join([]string{
		"po,quantity,code04",
		"PO-1,100,1",
		"PO-2,100,Y",
		"PO-3,100,true",
		"PO-4,100,0",
		"PO-5,100,no",
		"PO-6,100,",
	}, "\n")

	records, _, err := testLoader().ParseOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}

	want := []bool{true, true, true, false, false, false}
	for i, rec := range records {
		if rec.Code04 != want[i] {
			t.Errorf("%s Code04 = %v, want %v", rec.PONumber, rec.Code04, want[i])
		}
	}
}

func TestParseOrders_SerialDates(t *testing.T) {
	// 46023 is 2026-01-01 as a spreadsheet serial day
	input := "po,quantity,crd\nPO-1,100,46023\n"

	records, findings, err := testLoader().ParseOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("serial date produced findings: %v", findings)
	}
	if records[0].CRD == nil || records[0].CRD.Format("2006-01-02") != "2026-01-01" {
		t.Errorf("serial CRD = %v, want 2026-01-01", records[0].CRD)
	}
}

func TestParseOrders_UnusableHeader(t *testing.T) {
	input := "foo,bar\n1,2\n"

	_, _, err := testLoader().ParseOrders(strings.NewReader(input))
	if err == nil {
		t.Fatal("header without a PO column must error")
	}
}

func TestParseOrders_RaggedRows(t *testing.T) {
	// Short rows simply leave trailing columns absent
	input := strings.Join([]string{
		"po,quantity,crd,destination",
		"PO-1,100",
		"PO-2,200,2026-01-05,Hamburg",
	}, "\n")

	records, _, err := testLoader().ParseOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Destination != entities.UnknownValue {
		t.Errorf("short row destination = %q, want sentinel", records[0].Destination)
	}
	if records[1].Destination != "Hamburg" {
		t.Errorf("full row destination = %q", records[1].Destination)
	}
}
