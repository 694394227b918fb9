package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"intelliface/backend/internal/repository/postgres/attendance"
)

// CreateAttendanceExcel writes the month's attendance rows into an xlsx file
// and returns its path.
func CreateAttendanceExcel(rows []attendance.MonthlyRow, fileName string) (string, error) {
	targetPath := filepath.Join(baseDir, "exports")
	if _, err := os.Stat(targetPath); os.IsNotExist(err) {
		if err = os.MkdirAll(targetPath, os.ModePerm); err != nil {
			return "", err
		}
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Employee ID", "Full Name", "Department", "Work Day", "Status", "Check In", "Check Out", "Total Hours"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, entry := range rows {
		checkIn, checkOut := "", ""
		if entry.CheckInTime != nil {
			checkIn = entry.CheckInTime.Format("15:04")
		}
		if entry.CheckOutTime != nil {
			checkOut = entry.CheckOutTime.Format("15:04")
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), entry.EmployeeID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.Department)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), entry.WorkDay)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), entry.Status)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), checkIn)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), checkOut)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), entry.TotalHours)
		rowNum++
	}

	path := filepath.Join(targetPath, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	return path, nil
}
