package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hieptuanle/baby-tracker/internal/gestation"
	"github.com/hieptuanle/baby-tracker/internal/middleware"
	"github.com/hieptuanle/baby-tracker/internal/service"
	"github.com/hieptuanle/baby-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []string{"Week", "Start", "End", "Current"}

// Export downloads the week-by-week calendar of the current pregnancy as
// CSV (default) or XLSX, selected by ?format=.
func (h *PregnancyHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		util.Error(c, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	user := middleware.CurrentUser(c)
	rec, err := h.Pregnancies.Get(c.Request.Context(), user.ID)
	if err != nil {
		Fail(c, h.Log, err)
		return
	}
	if rec == nil {
		Fail(c, h.Log, service.ErrPregnancyNotFound)
		return
	}

	rows, err := weekRows(rec)
	if err != nil {
		Fail(c, h.Log, err)
		return
	}

	filename := fmt.Sprintf("pregnancy_%s.%s", rec.ExpectedDeliveryDate, format)
	if format == "csv" {
		h.writeCSV(c, filename, rows)
		return
	}
	h.writeXLSX(c, filename, rows)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// weekRows lays out one row per gestational week, marking the week the
// pregnancy is in today.
func weekRows(rec *service.Record) ([][]string, error) {
	edd, err := gestation.ParseDate(rec.ExpectedDeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("stored pregnancy %d: %w", rec.ID, err)
	}

	current := rec.GestationalAge.Weeks + 1
	rows := make([][]string, 0, gestation.TermWeeks)
	for _, w := range gestation.Weeks(edd) {
		mark := ""
		if w.Number == current {
			mark = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(w.Number),
			gestation.FormatDate(w.Start),
			gestation.FormatDate(w.End),
			mark,
		})
	}
	return rows, nil
}

func (h *PregnancyHandler) writeCSV(c *gin.Context, filename string, rows [][]string) {
	attachment(c, filename)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeader)
	_ = w.WriteAll(rows)
	if err := w.Error(); err != nil {
		h.Log.Error().Err(err).Msg("write csv export")
	}
}

func (h *PregnancyHandler) writeXLSX(c *gin.Context, filename string, rows [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Weeks"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		Fail(c, h.Log, fmt.Errorf("rename sheet: %w", err))
		return
	}

	if err := setRow(f, sheet, 1, exportHeader); err != nil {
		Fail(c, h.Log, err)
		return
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			Fail(c, h.Log, err)
			return
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		Fail(c, h.Log, fmt.Errorf("write xlsx: %w", err))
		return
	}
	attachment(c, filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
