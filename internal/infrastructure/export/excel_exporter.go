package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/garyjia/default-desk/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Sheet names of the generated workbooks
const (
	SheetDefaultApplications  = "违约认定"
	SheetRecoveryApplications = "违约重生"
	SheetIndustry             = "行业分布"
	SheetRegion               = "区域分布"
	SheetTrend                = "违约趋势"
)

var statusLabels = map[entity.ApplicationStatus]string{
	entity.StatusPending:  "待审核",
	entity.StatusApproved: "已通过",
	entity.StatusRejected: "已拒绝",
}

var severityLabels = map[entity.Severity]string{
	entity.SeverityHigh:   "高",
	entity.SeverityMedium: "中",
	entity.SeverityLow:    "低",
}

// ExcelExporter implements port.Exporter with excelize workbooks
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new exporter
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// WriteDefaultApplications writes one row per application
func (e *ExcelExporter) WriteDefaultApplications(w io.Writer, apps []entity.DefaultApplication) error {
	header := []string{"申请编号", "客户编号", "客户名称", "违约原因", "严重程度", "申请人", "申请时间", "审核状态", "审核人", "审核时间", "审核意见", "备注", "附件"}
	rows := make([][]interface{}, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, []interface{}{
			a.ID, a.CustomerID, a.CustomerName, a.ReasonID, label(severityLabels, a.Severity),
			a.ApplicantID, a.ApplyTime, label(statusLabels, a.Status),
			a.Audit.AuditorID, a.Audit.ReviewTime, a.Audit.AuditRemarks, a.Remarks,
			strings.Join(a.AttachmentURLs, "\n"),
		})
	}

	return e.write(w, []sheet{{name: SheetDefaultApplications, header: header, rows: rows}})
}

// WriteRecoveryApplications writes one row per application
func (e *ExcelExporter) WriteRecoveryApplications(w io.Writer, apps []entity.RecoveryApplication) error {
	header := []string{"申请编号", "客户编号", "客户名称", "原违约申请", "重生原因", "申请人", "申请时间", "审核状态", "审核人", "审核时间", "审核意见"}
	rows := make([][]interface{}, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, []interface{}{
			a.ID, a.CustomerID, a.CustomerName, a.OriginalDefaultApplicationID, a.RecoveryReasonID,
			a.ApplicantID, a.ApplyTime, label(statusLabels, a.Status),
			a.Audit.AuditorID, a.Audit.ReviewTime, a.Audit.AuditRemarks,
		})
	}

	return e.write(w, []sheet{{name: SheetRecoveryApplications, header: header, rows: rows}})
}

// WriteStatistics writes the industry, region and trend series on separate sheets
func (e *ExcelExporter) WriteStatistics(w io.Writer, stats *entity.Statistics) error {
	if stats == nil {
		stats = &entity.Statistics{}
	}

	shareRows := func(shares []entity.Share) [][]interface{} {
		rows := make([][]interface{}, 0, len(shares))
		for _, s := range shares {
			rows = append(rows, []interface{}{s.Name, s.Count, s.Percentage})
		}
		return rows
	}

	trendRows := make([][]interface{}, 0, len(stats.Trend))
	for _, p := range stats.Trend {
		trendRows = append(trendRows, []interface{}{p.Date, p.Count})
	}

	return e.write(w, []sheet{
		{name: SheetIndustry, header: []string{"行业", "数量", "占比(%)"}, rows: shareRows(stats.Industry)},
		{name: SheetRegion, header: []string{"区域", "数量", "占比(%)"}, rows: shareRows(stats.Region)},
		{name: SheetTrend, header: []string{"日期", "违约数量"}, rows: trendRows},
	})
}

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

func (e *ExcelExporter) write(w io.Writer, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}

		for col, title := range s.header {
			e.setCell(f, s.name, col+1, 1, title)
		}
		if len(s.header) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(s.header), 1)
			if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
				e.logger.Warn("Failed to style header", zap.String("sheet", s.name), zap.Error(err))
			}
			lastCol, _ := excelize.ColumnNumberToName(len(s.header))
			if err := f.SetColWidth(s.name, "A", lastCol, 16); err != nil {
				e.logger.Warn("Failed to set column width", zap.String("sheet", s.name), zap.Error(err))
			}
		}

		for r, row := range s.rows {
			for col, value := range row {
				e.setCell(f, s.name, col+1, r+2, value)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Workbook exported", zap.Int("sheets", len(sheets)))
	return nil
}

// setCell sets a cell value, logging failures
func (e *ExcelExporter) setCell(f *excelize.File, sheetName string, col, row int, value interface{}) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		e.logger.Warn("Invalid cell coordinates", zap.Int("col", col), zap.Int("row", row), zap.Error(err))
		return
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheetName),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func label[K comparable](labels map[K]string, key K) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return fmt.Sprint(key)
}
