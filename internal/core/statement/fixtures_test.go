package statement

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildXLSX writes rows to the first sheet of a new workbook and returns its bytes.
func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

// statementRow lays out one line of the default export template (amount in column K).
func statementRow(date, card, desc, city, installments string, amount interface{}) []interface{} {
	return []interface{}{date, "", card, "", desc, city, "", installments, "", "", amount}
}

func templateHeader() []interface{} {
	return []interface{}{"Fecha", "", "Tipo Tarjeta", "", "Descripción", "Ciudad", "", "Cuotas", "", "", ""}
}
