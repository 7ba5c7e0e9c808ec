package workbook

// Excel export of generated tables, the correlation matrix and rendered charts

import (
	"errors"
	"fmt"
	_ "image/png" // AddPicture reads PNG dimensions
	"os"
	"path/filepath"

	"synthetic-charts/internal/dataset"
	"synthetic-charts/internal/stats"

	"github.com/xuri/excelize/v2"
)

const (
	CorrelationSheet = "Correlation"
	ChartsSheet      = "Charts"

	// rows between stacked chart images on the Charts sheet
	chartRowStride = 28
)

var ErrEmptyBook = errors.New("workbook has nothing to write")

// Sheet is one table written to its own worksheet.
type Sheet struct {
	Name       string
	IndexLabel string // header over the row labels, "Row" when empty
	Table      *dataset.Table
}

// Book lists everything that goes into the file. Empty parts are skipped.
type Book struct {
	Sheets      []Sheet
	Correlation *stats.Matrix
	Charts      []string // PNG paths
}

// Write saves b to path, replacing any existing file.
func Write(path string, b Book) error {
	if len(b.Sheets) == 0 && b.Correlation == nil && len(b.Charts) == 0 {
		return ErrEmptyBook
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	first := true
	addSheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName("Sheet1", name)
		}
		_, err := f.NewSheet(name)
		return err
	}

	for _, s := range b.Sheets {
		if err := addSheet(s.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", s.Name, err)
		}
		if err := writeTable(f, s, header); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", s.Name, err)
		}
	}

	if b.Correlation != nil {
		if err := addSheet(CorrelationSheet); err != nil {
			return fmt.Errorf("failed to add correlation sheet: %w", err)
		}
		if err := writeMatrix(f, b.Correlation, header); err != nil {
			return fmt.Errorf("failed to write correlation sheet: %w", err)
		}
	}

	if len(b.Charts) > 0 {
		if err := addSheet(ChartsSheet); err != nil {
			return fmt.Errorf("failed to add charts sheet: %w", err)
		}
		for i, chartPath := range b.Charts {
			cell, _ := excelize.CoordinatesToCellName(1, 1+i*chartRowStride)
			if err := f.AddPicture(ChartsSheet, cell, chartPath, &excelize.GraphicOptions{
				AltText:     filepath.Base(chartPath),
				ScaleX:      0.75,
				ScaleY:      0.75,
				Positioning: "oneCell",
			}); err != nil {
				return fmt.Errorf("failed to embed chart %s: %w", chartPath, err)
			}
		}
	}

	f.SetActiveSheet(0)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create workbook directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, s Sheet, header int) error {
	t := s.Table
	names := t.Names()
	index := t.Index()

	indexLabel := s.IndexLabel
	if indexLabel == "" {
		indexLabel = "Row"
	}
	headerRow := make([]interface{}, 0, len(names)+1)
	headerRow = append(headerRow, indexLabel)
	for _, name := range names {
		headerRow = append(headerRow, name)
	}
	if err := f.SetSheetRow(s.Name, "A1", &headerRow); err != nil {
		return err
	}
	if err := styleHeader(f, s.Name, len(headerRow), header); err != nil {
		return err
	}

	for i := 0; i < t.Rows(); i++ {
		row := make([]interface{}, 0, len(names)+1)
		if index != nil {
			row = append(row, index[i])
		} else {
			row = append(row, i+1)
		}
		for _, v := range t.Row(i) {
			row = append(row, v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
			return err
		}
	}

	return f.SetPanes(s.Name, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
}

func writeMatrix(f *excelize.File, m *stats.Matrix, header int) error {
	names := m.Names()

	headerRow := make([]interface{}, 0, len(names)+1)
	headerRow = append(headerRow, "")
	for _, name := range names {
		headerRow = append(headerRow, name)
	}
	if err := f.SetSheetRow(CorrelationSheet, "A1", &headerRow); err != nil {
		return err
	}
	if err := styleHeader(f, CorrelationSheet, len(headerRow), header); err != nil {
		return err
	}

	for i, values := range m.Rows() {
		row := make([]interface{}, 0, len(values)+1)
		row = append(row, names[i])
		for _, v := range values {
			row = append(row, v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(CorrelationSheet, cell, &row); err != nil {
			return err
		}
		if err := f.SetCellStyle(CorrelationSheet, cell, cell, header); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(names) + 1)
	return f.SetColWidth(CorrelationSheet, "A", lastCol, 22)
}

func styleHeader(f *excelize.File, sheet string, cols int, style int) error {
	last, _ := excelize.CoordinatesToCellName(cols, 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(cols)
	return f.SetColWidth(sheet, "A", lastCol, 20)
}
