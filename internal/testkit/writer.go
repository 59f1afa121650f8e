package testkit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteManifest writes the manifest in the format named by the path
// extension: .csv, or .xlsx otherwise
func WriteManifest(path string, m *Manifest) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(path, m)
	case ".xlsx", "":
		return WriteXLSX(path, m)
	default:
		return fmt.Errorf("unsupported manifest format: %s", filepath.Ext(path))
	}
}

// WriteCSV writes a header row followed by one row per passenger
func WriteCSV(path string, m *Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(m.Headers); err != nil {
		return err
	}
	if err := w.WriteAll(m.Rows); err != nil {
		return err
	}
	return f.Close()
}

// WriteXLSX writes the manifest to Sheet1 of a new workbook
func WriteXLSX(path string, m *Manifest) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]any, len(m.Headers))
	for i, h := range m.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, row := range m.Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
