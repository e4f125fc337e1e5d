package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"mixlab/internal/domain"
	"mixlab/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Schedule"

var headers = []string{
	"Booking ID", "Group", "Service", "Owner", "Email",
	"Start", "End", "Hours", "Status", "Recurrence",
}

// Exporter writes reservation schedules as XLSX workbooks.
type Exporter struct {
	repo   domain.Repository
	path   string
	logger *zerolog.Logger
}

func NewExporter(repo domain.Repository, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{repo: repo, path: path, logger: logger}
}

// ScheduleFile builds the workbook for [start, end) and saves it under the
// export directory, returning the file path.
func (e *Exporter) ScheduleFile(ctx context.Context, start, end time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f, err := e.buildWorkbook(ctx, start, end)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("schedule_%s_to_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("schedule export created")
	return filePath, nil
}

// WriteSchedule streams the workbook for [start, end) to w. Used by the
// HTTP export endpoint so no file lands on disk.
func (e *Exporter) WriteSchedule(ctx context.Context, w io.Writer, start, end time.Time) error {
	f, err := e.buildWorkbook(ctx, start, end)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func (e *Exporter) buildWorkbook(ctx context.Context, start, end time.Time) (*excelize.File, error) {
	reservations, err := e.repo.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("error getting reservations: %w", err)
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Studio schedule %s - %s",
		start.Format("02.01.2006"), end.Format("02.01.2006")))

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastTitleCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.MergeCell(sheetName, "A1", lastTitleCell)
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	cancelledStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	for i, r := range reservations {
		row := i + 3
		e.writeRow(f, row, r)
		if r.Status == models.StatusCancelled {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(headers), row)
			_ = f.SetCellStyle(sheetName, first, last, cancelledStyle)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 16)
	_ = f.SetColWidth(sheetName, "C", "E", 24)
	_ = f.SetColWidth(sheetName, "F", "G", 18)
	_ = f.SetColWidth(sheetName, "H", "J", 12)

	_ = f.DeleteSheet("Sheet1")
	return f, nil
}

func (e *Exporter) writeRow(f *excelize.File, row int, r *models.Reservation) {
	values := []interface{}{
		r.SequenceID,
		r.GroupID,
		r.Service,
		r.OwnerName,
		r.OwnerEmail,
		r.Start.Format("02.01.2006 15:04"),
		r.End.Format("02.01.2006 15:04"),
		r.Duration,
		r.Status,
		r.Recurrence,
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheetName, cell, v)
	}
}
