package service

import (
	"context"
	"fmt"
	"io"

	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/domain/entity"
)

// StatisticsService reads aggregates and exports workbooks
type StatisticsService interface {
	Get(ctx context.Context) (*entity.Statistics, error)
	ExportStatistics(ctx context.Context, w io.Writer) error
	ExportDefaultApplications(w io.Writer, apps []entity.DefaultApplication) error
	ExportRecoveryApplications(w io.Writer, apps []entity.RecoveryApplication) error
}

type statisticsServiceImpl struct {
	api      port.StatisticsAPI
	exporter port.Exporter
	logger   Logger
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(api port.StatisticsAPI, exporter port.Exporter, logger Logger) StatisticsService {
	return &statisticsServiceImpl{api: api, exporter: exporter, logger: logger}
}

// Get returns the industry, region and trend aggregates
func (s *statisticsServiceImpl) Get(ctx context.Context) (*entity.Statistics, error) {
	return s.api.Statistics(ctx)
}

// ExportStatistics fetches the aggregates and writes them as a workbook
func (s *statisticsServiceImpl) ExportStatistics(ctx context.Context, w io.Writer) error {
	stats, err := s.api.Statistics(ctx)
	if err != nil {
		return err
	}

	if err := s.exporter.WriteStatistics(w, stats); err != nil {
		s.logger.Error("Failed to export statistics", "error", err)
		return fmt.Errorf("failed to export statistics: %w", err)
	}
	return nil
}

// ExportDefaultApplications writes a query result as a workbook
func (s *statisticsServiceImpl) ExportDefaultApplications(w io.Writer, apps []entity.DefaultApplication) error {
	if err := s.exporter.WriteDefaultApplications(w, apps); err != nil {
		s.logger.Error("Failed to export default applications", "count", len(apps), "error", err)
		return fmt.Errorf("failed to export default applications: %w", err)
	}
	return nil
}

// ExportRecoveryApplications writes a query result as a workbook
func (s *statisticsServiceImpl) ExportRecoveryApplications(w io.Writer, apps []entity.RecoveryApplication) error {
	if err := s.exporter.WriteRecoveryApplications(w, apps); err != nil {
		s.logger.Error("Failed to export recovery applications", "count", len(apps), "error", err)
		return fmt.Errorf("failed to export recovery applications: %w", err)
	}
	return nil
}
