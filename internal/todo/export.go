package todo

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetDone = "Done"
	sheetDue  = "Due"
)

var exportHeader = []any{"Title", "Description", "Category", "Deadline", "Completed At", "Status"}

// ExportFilename encodes the report type and the window's anchor date.
func ExportFilename(rep *Report) string {
	return fmt.Sprintf("%s_report_%s.xlsx", rep.Type, rep.From.Format("2006-01-02"))
}

// BuildWorkbook renders the two partitions to two sheets. Weekly reports sort
// each sheet's rows by category so the export groups related work together.
func BuildWorkbook(rep *Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetDone); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetDue); err != nil {
		return nil, err
	}

	sortRows := rep.Type == ReportWeekly

	if err := writeSheet(f, sheetDone, rep.Done, sortRows); err != nil {
		return nil, err
	}
	if err := writeSheet(f, sheetDue, rep.Due, sortRows); err != nil {
		return nil, err
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, todos []Todo, sortByCategory bool) error {
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return err
	}

	if len(todos) == 0 {
		// consumers expect header+body even when nothing matched
		placeholder := []any{"", "", "", "", "", ""}
		return f.SetSheetRow(sheet, "A2", &placeholder)
	}

	if sortByCategory {
		sorted := make([]Todo, len(todos))
		copy(sorted, todos)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Category < sorted[j].Category
		})
		todos = sorted
	}

	for i, t := range todos {
		row := []any{
			t.Title,
			stringOrEmpty(t.Description),
			string(t.Category),
			t.Deadline.Format(time.RFC3339),
			timeOrEmpty(t.CompletedAt),
			string(t.Status),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
