// Package report exports extraction runs to XLSX workbooks for reviewers.
package report

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/veridian-group/esia-cli/internal/model"
	"github.com/veridian-group/esia-cli/internal/store"
)

// WriteRunXLSX writes a workbook for one run with three sheets: a run
// summary, one row per extracted field, and one row per failed extraction.
func WriteRunXLSX(run *model.Run, facts []store.FactRow, path string) error {
	f := xlsx.NewFile()

	if err := addSummarySheet(f, run); err != nil {
		return err
	}
	if err := addFactsSheet(f, facts); err != nil {
		return err
	}
	if err := addFailuresSheet(f, facts); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "report: save %s", path)
}

func addSummarySheet(f *xlsx.File, run *model.Run) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	addPair := func(label, value string) {
		row := sheet.AddRow()
		row.AddCell().SetString(label)
		row.AddCell().SetString(value)
	}

	addPair("Run ID", run.ID)
	addPair("Document", run.Document)
	addPair("Status", string(run.Status))
	addPair("Project Type", run.Classification.ProjectType)
	addPair("Type Confidence", fmt.Sprintf("%.2f", run.Classification.Confidence))
	addPair("Sector", run.Classification.Sector)
	addPair("Created", run.CreatedAt.Format("2006-01-02 15:04:05 UTC"))

	if run.Result != nil {
		addPair("Sections Routed", fmt.Sprintf("%d", run.Result.SectionsRouted))
		addPair("Sections Skipped", fmt.Sprintf("%d", run.Result.SectionsSkipped))
		addPair("Facts Extracted", fmt.Sprintf("%d", run.Result.FactsExtracted))
		addPair("Facts Failed", fmt.Sprintf("%d", run.Result.FactsFailed))
		addPair("Input Tokens", fmt.Sprintf("%d", run.Result.Usage.InputTokens))
		addPair("Output Tokens", fmt.Sprintf("%d", run.Result.Usage.OutputTokens))
		addPair("Duration (ms)", fmt.Sprintf("%d", run.Result.DurationMs))
	}
	return nil
}

func addFactsSheet(f *xlsx.File, facts []store.FactRow) error {
	sheet, err := f.AddSheet("Facts")
	if err != nil {
		return eris.Wrap(err, "report: add facts sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Section", "Page", "Domain", "Confidence", "Field", "Value"} {
		header.AddCell().SetString(h)
	}

	for _, fact := range facts {
		if fact.Failed || len(fact.Fields) == 0 {
			continue
		}
		// Sort field names so the sheet is stable across exports.
		keys := make([]string, 0, len(fact.Fields))
		for k := range fact.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			row := sheet.AddRow()
			row.AddCell().SetString(fact.Section)
			row.AddCell().SetInt(fact.Page)
			row.AddCell().SetString(fact.DomainKey)
			row.AddCell().SetString(fmt.Sprintf("%.2f", fact.Confidence))
			row.AddCell().SetString(k)
			row.AddCell().SetString(fieldValue(fact.Fields[k]))
		}
	}
	return nil
}

func addFailuresSheet(f *xlsx.File, facts []store.FactRow) error {
	sheet, err := f.AddSheet("Failures")
	if err != nil {
		return eris.Wrap(err, "report: add failures sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Section", "Page", "Domain", "Reason"} {
		header.AddCell().SetString(h)
	}

	for _, fact := range facts {
		if !fact.Failed {
			continue
		}
		row := sheet.AddRow()
		row.AddCell().SetString(fact.Section)
		row.AddCell().SetInt(fact.Page)
		row.AddCell().SetString(fact.DomainKey)
		row.AddCell().SetString(fact.FailReason)
	}
	return nil
}

// fieldValue renders an extracted field for a spreadsheet cell. Engine
// output is JSON, so values are strings, numbers, bools, or small arrays.
func fieldValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
