package samplegen

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"github.com/okian/wastewater/internal/adapters/source"
	"github.com/okian/wastewater/internal/domain/model"
)

const sheetName = "samples"

// Write encodes rows in format.
func Write(w io.Writer, format source.Format, rows []model.Measurement) error {
	switch format {
	case source.CSV:
		if len(rows) == 0 {
			_, err := io.WriteString(w, strings.Join(model.RequiredColumns, ",")+"\n")
			return err
		}
		return dataframe.LoadStructs(rows).WriteCSV(w)
	case source.JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case source.XLSX:
		return writeWorkbook(w, rows)
	default:
		return fmt.Errorf("%w: %q", source.ErrUnsupportedFormat, format)
	}
}

func writeWorkbook(w io.Writer, rows []model.Measurement) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	header := []interface{}{model.ColumnMethod, model.ColumnSARSCoV2, model.ColumnSampleCollectDate}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []interface{}{r.Method, r.SARSCoV2, r.SampleCollectDate}); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}
