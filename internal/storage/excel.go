package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/Gorio76/meeting-notes-flow/internal/report"
)

// ExportMeetingToExcel writes one meeting (identity, report text, order
// table) to an xlsx file under reports/ and returns the file path.
func (s *PostgresStorage) ExportMeetingToExcel(ctx context.Context, meeting Meeting, lines []report.OrderLine) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Meeting"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Meeting ID")
	f.SetCellValue(sheet, "B1", meeting.ID)
	f.SetCellValue(sheet, "A2", "Data")
	f.SetCellValue(sheet, "B2", meeting.CreatedAt.Format("02/01/2006 15:04"))
	f.SetCellValue(sheet, "A3", "Ragione sociale")
	f.SetCellValue(sheet, "B3", meeting.Company)
	f.SetCellValue(sheet, "A4", "Referente")
	f.SetCellValue(sheet, "B4", meeting.Referent)
	f.SetCellValue(sheet, "A5", "Contesto")
	f.SetCellValue(sheet, "B5", meeting.Context)
	f.SetCellValue(sheet, "A6", "Totale ordine")
	f.SetCellValue(sheet, "B6", meeting.OrderTotal)

	// Order table
	headers := []string{
		"Codice", "Descrizione", "Qta", "Listino lordo",
		"Sconto 1 %", "Sconto 2 %", "Sconto 3 %", "Sconto 4 %",
		"Netto unit.", "Totale riga",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 8)
		f.SetCellValue(sheet, cell, header)
	}

	for row, l := range lines {
		net, total := l.Compute()
		data := []interface{}{
			l.Code,
			l.Description,
			l.Quantity,
			l.GrossPrice,
			l.Discounts[0],
			l.Discounts[1],
			l.Discounts[2],
			l.Discounts[3],
			net,
			total,
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+9)
			f.SetCellValue(sheet, cell, value)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(sheet, "A1", "A6", style)
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 8)
	f.SetCellStyle(sheet, "A8", lastHeader, style)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := os.MkdirAll("reports", 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filepath := fmt.Sprintf("reports/meeting_%d_%s.xlsx",
		meeting.ID,
		meeting.CreatedAt.Format("20060102_1504"))

	if err := f.SaveAs(filepath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return filepath, nil
}

// ExportAllMeetingsToExcel dumps the whole archive into a single sheet.
func (s *PostgresStorage) ExportAllMeetingsToExcel(ctx context.Context, filename string) (string, error) {
	const query = `SELECT * FROM meetings ORDER BY created_at DESC`
	var meetings []Meeting
	if err := s.db.SelectContext(ctx, &meetings, query); err != nil {
		return "", fmt.Errorf("failed to fetch meetings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Meetings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"ID", "Chat ID", "Ragione sociale", "Referente",
		"Contesto", "Totale ordine", "Data",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, m := range meetings {
		data := []interface{}{
			m.ID,
			m.ChatID,
			m.Company,
			m.Referent,
			m.Context,
			m.OrderTotal,
			m.CreatedAt.Format("02/01/2006 15:04"),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := os.MkdirAll("reports", 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filepath := fmt.Sprintf("reports/%s.xlsx", filename)
	if err := f.SaveAs(filepath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return filepath, nil
}
