package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"intelliface/backend/internal/repository/postgres/attendance"
)

// CreateMonthlyReport renders the month's attendance as a pdf table and
// returns its path.
func CreateMonthlyReport(rows []attendance.MonthlyRow, year int, month time.Month, fileName string) (string, error) {
	targetPath := filepath.Join(baseDir, "reports")
	if _, err := os.Stat(targetPath); os.IsNotExist(err) {
		if err = os.MkdirAll(targetPath, os.ModePerm); err != nil {
			return "", err
		}
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Attendance Report - %s %d", month.String(), year))
	pdf.Ln(12)

	headers := []string{"Employee ID", "Full Name", "Department", "Work Day", "Status", "Check In", "Check Out", "Total"}
	widths := []float64{30, 55, 45, 30, 25, 25, 25, 25}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		checkIn, checkOut := "", ""
		if row.CheckInTime != nil {
			checkIn = row.CheckInTime.Format("15:04")
		}
		if row.CheckOutTime != nil {
			checkOut = row.CheckOutTime.Format("15:04")
		}

		cells := []string{row.EmployeeID, row.FullName, row.Department, row.WorkDay, row.Status, checkIn, checkOut, row.TotalHours}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	path := filepath.Join(targetPath, fileName)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("error saving report: %w", err)
	}

	return path, nil
}
