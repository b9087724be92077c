package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DataSource feeds tabular data to the exporter one row at a time.
type DataSource interface {
	SheetName() string
	Headers() []string
	Next(ctx context.Context) ([]any, bool, error)
}

// SliceDataSource adapts in-memory rows to a DataSource.
type SliceDataSource struct {
	sheet   string
	headers []string
	rows    [][]any
	pos     int
}

func NewSliceDataSource(sheet string, headers []string, rows [][]any) *SliceDataSource {
	if sheet == "" {
		sheet = "Sheet1"
	}
	// Excel limits sheet names to 31 characters.
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	return &SliceDataSource{sheet: sheet, headers: headers, rows: rows}
}

func (s *SliceDataSource) SheetName() string { return s.sheet }
func (s *SliceDataSource) Headers() []string { return s.headers }

func (s *SliceDataSource) Next(_ context.Context) ([]any, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true, nil
}

// Exporter renders a DataSource into an xlsx workbook.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Export(ctx context.Context, source DataSource) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := source.SheetName()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	// excelize seeds new workbooks with Sheet1.
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, err
		}
	}

	headers := source.Headers()
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	rowNum := 2
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, ok, err := source.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
		rowNum++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
