package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/talentsift/backend/internal/models"
)

const sheetName = "Ranked Resumes"

var header = []any{"File Name", "Name", "Contact", "Email", "Match Score", "Interview Priority"}

// Workbook renders ranked candidates as a spreadsheet: one header row followed
// by one row per resume, preserving rank order.
func Workbook(results []models.Candidate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	f.SetColWidth(sheetName, "A", "B", 25)
	f.SetColWidth(sheetName, "C", "D", 20)
	f.SetColWidth(sheetName, "E", "F", 15)

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}
	f.SetCellStyle(sheetName, "A1", "F1", headerStyle)

	for i, r := range results {
		row := []any{r.FileName, r.Name, r.ContactNumber, r.Email, r.MatchScore, r.InterviewPriority}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename builds the download name from the job role and date, e.g.
// "Backend_Engineer_2026-08-28.xlsx". The caller guarantees role is non-blank.
func Filename(jobRole string, now time.Time) string {
	role := strings.ReplaceAll(strings.TrimSpace(jobRole), " ", "_")
	return fmt.Sprintf("%s_%s.xlsx", role, now.Format("2006-01-02"))
}
