package finance

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/simkemas/simkemas-backend/pkg/enums"
)

const exportSheet = "Kas"

var exportHeader = []any{"Tanggal", "Tipe", "Kategori", "Keterangan", "Masuk", "Keluar"}

// WriteWorkbook renders report as an XLSX cash book: one row per transaction
// followed by the in/out totals and the balance.
func WriteWorkbook(w io.Writer, input ReportInput, report *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	period := "Semua periode"
	if input.Start != "" || input.End != "" {
		period = fmt.Sprintf("Periode %s s/d %s", orDash(input.Start), orDash(input.End))
	}
	if err := f.SetCellValue(exportSheet, "A1", period); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A3", &exportHeader); err != nil {
		return err
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	row := 4
	for _, t := range report.Transactions {
		in, out := any(""), any("")
		amount, _ := t.Amount.Float64()
		if t.Type == enums.TransactionTypeIn {
			in = amount
		} else {
			out = amount
		}
		values := []any{t.CreatedAt.Format("2006-01-02 15:04"), string(t.Type), t.Category, t.Description, in, out}
		if err := f.SetSheetRow(exportSheet, cell(1, row), &values); err != nil {
			return err
		}
		row++
	}

	totalIn, _ := report.Summary.TotalIn.Float64()
	totalOut, _ := report.Summary.TotalOut.Float64()
	balance, _ := report.Summary.Balance.Float64()
	footer := [][]any{
		{"", "", "", "Total", totalIn, totalOut},
		{"", "", "", "Saldo", balance, ""},
	}
	row++
	for _, values := range footer {
		if err := f.SetSheetRow(exportSheet, cell(1, row), &values); err != nil {
			return err
		}
		row++
	}

	if err := f.SetCellStyle(exportSheet, "E4", cell(6, row), money); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "D", "D", 48); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		panic(err)
	}
	return name
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
