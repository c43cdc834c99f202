package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/amruakhi/eda-analysis/pkg/aggregate"
	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/errs"
	"github.com/amruakhi/eda-analysis/pkg/inspect"
)

// Workbook sheet names, in the order they are written.
const (
	SheetInfo        = "Info"
	SheetNumeric     = "Numeric Summary"
	SheetCategorical = "Categorical Summary"
	SheetCuisines    = "Cuisines"
	SheetCities      = "Cities"
	SheetRating      = "Rating by Price"
	SheetCost        = "Cost by City"
	SheetCorrelation = "Correlation"
)

// ExportWorkbook writes the inspection report and the full aggregation tables
// to an .xlsx file, one sheet per table.
func ExportWorkbook(path string, s data.Schema, r *inspect.Report, ins *aggregate.Insights) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	w := sheetWriter{f: f}
	w.info(r)
	w.numeric(r.Numeric)
	w.categorical(r.Categorical)
	w.counts(SheetCuisines, s.Cuisines, ins.CuisineCounts)
	w.counts(SheetCities, s.City, ins.CityCounts)
	w.means(SheetRating, s.PriceRange, s.Rating, ins.RatingByPrice)
	w.means(SheetCost, s.City, s.CostForTwo, ins.CostByCity)
	w.correlation(ins.Corr)
	if w.err != nil {
		return errs.Export("write workbook", w.err)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errs.Export("write workbook", err)
	}
	if err := f.SaveAs(path); err != nil {
		return errs.Export("save workbook", err)
	}
	return nil
}

// sheetWriter keeps the first error so each sheet can be written without
// checking every row.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) sheet(name string, header []any, rows [][]any) {
	if w.err != nil {
		return
	}
	if _, w.err = w.f.NewSheet(name); w.err != nil {
		return
	}
	for i, row := range append([][]any{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			w.err = fmt.Errorf("sheet %q row %d: %w", name, i+1, err)
			return
		}
	}
}

func (w *sheetWriter) info(r *inspect.Report) {
	rows := make([][]any, len(r.Info.Columns))
	for i, c := range r.Info.Columns {
		rows[i] = []any{c.Name, c.NonNull, r.Missing[i].N, c.Kind.String()}
	}
	w.sheet(SheetInfo, []any{"Column", "Non-Null Count", "Missing", "Dtype"}, rows)
}

func (w *sheetWriter) numeric(s []inspect.NumericSummary) {
	rows := make([][]any, len(s))
	for i, c := range s {
		rows[i] = []any{c.Column, c.Count, cell(c.Mean), cell(c.Std), cell(c.Min),
			cell(c.P25), cell(c.P50), cell(c.P75), cell(c.Max)}
	}
	w.sheet(SheetNumeric, []any{"Column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}, rows)
}

func (w *sheetWriter) categorical(s []inspect.CategoricalSummary) {
	rows := make([][]any, len(s))
	for i, c := range s {
		rows[i] = []any{c.Column, c.Count, c.Unique, c.Top, c.Freq}
	}
	w.sheet(SheetCategorical, []any{"Column", "count", "unique", "top", "freq"}, rows)
}

func (w *sheetWriter) counts(name, key string, c aggregate.Counts) {
	rows := make([][]any, len(c))
	for i, e := range c {
		rows[i] = []any{e.Key, e.N}
	}
	w.sheet(name, []any{key, "count"}, rows)
}

func (w *sheetWriter) means(name, key, value string, m aggregate.Means) {
	rows := make([][]any, len(m))
	for i, e := range m {
		rows[i] = []any{e.Key, cell(e.Value), e.N}
	}
	w.sheet(name, []any{key, value, "n"}, rows)
}

func (w *sheetWriter) correlation(c *aggregate.CorrMatrix) {
	if c == nil {
		c = &aggregate.CorrMatrix{}
	}
	header := []any{""}
	for _, n := range c.Names {
		header = append(header, n)
	}
	rows := make([][]any, c.Len())
	for i, n := range c.Names {
		row := []any{n}
		for j := 0; j < c.Len(); j++ {
			row = append(row, cell(c.At(i, j)))
		}
		rows[i] = row
	}
	w.sheet(SheetCorrelation, header, rows)
}

// cell leaves undefined statistics blank.
func cell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}
