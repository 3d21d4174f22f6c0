package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gostreams/domain/stream"
)

// SampleSheet is one sampled tensor written to its own worksheet. Rows are
// the tensor split along its last axis.
type SampleSheet struct {
	Name   string
	Tensor stream.Tensor
}

// StreamRow describes one registry entry on the summary sheet.
type StreamRow struct {
	Key         string
	Dist        stream.Distribution
	Shape       stream.Shape
	Fingerprint string
}

// SummarySheetName is the first sheet of every export.
const SummarySheetName = "streams"

// WriteSamples saves a workbook with a summary sheet followed by one sheet
// per sample.
func WriteSamples(path string, streams []StreamRow, samples []SampleSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheetName); err != nil {
		return err
	}
	headers := []string{"index", "key", "dist", "shape", "state"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SummarySheetName, cell, h); err != nil {
			return err
		}
	}
	for r, s := range streams {
		values := []interface{}{r, s.Key, string(s.Dist), s.Shape.String(), s.Fingerprint}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SummarySheetName, cell, v); err != nil {
				return err
			}
		}
	}

	for _, s := range samples {
		if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		for r, row := range s.Tensor.Rows() {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				if err := f.SetCellValue(s.Name, cell, v); err != nil {
					return err
				}
			}
		}
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}
