package reportService

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
	"github.com/KotFed0t/stocknity/internal/service/dashboardService"
	"github.com/KotFed0t/stocknity/utils"
)

var ErrStorageDisabled = errors.New("cloud storage is not configured")

const msgNothingToExport = "No saved portfolios to export"

type Dashboard interface {
	SavedPortfolios(ctx context.Context, key string) ([]model.SavedPortfolio, error)
	Stocks(ctx context.Context, key string) ([]model.StockRecord, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, reports []model.PortfolioReport, stocks []model.StockRecord) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

type ReportService struct {
	dashboard Dashboard
	generator ReportGenerator
	storage   CloudStorage
	now       func() time.Time
}

// New builds the export service. storage may be nil.
func New(dashboard Dashboard, generator ReportGenerator, storage CloudStorage) *ReportService {
	return &ReportService{
		dashboard: dashboard,
		generator: generator,
		storage:   storage,
		now:       time.Now,
	}
}

func (s *ReportService) StorageEnabled() bool {
	return s.storage != nil
}

// ExportPortfolios builds a workbook of the visitor's saved portfolios, with
// the current screener rows when withScreener is set.
func (s *ReportService) ExportPortfolios(ctx context.Context, key string, withScreener bool) (model.ExportFile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ReportService.ExportPortfolios"

	slog.Debug("ExportPortfolios start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("ExportPortfolios finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	portfolios, err := s.dashboard.SavedPortfolios(ctx, key)
	if err != nil {
		return model.ExportFile{}, err
	}

	reports := make([]model.PortfolioReport, 0, len(portfolios))
	for _, p := range portfolios {
		reports = append(reports, model.PortfolioReport{
			Portfolio: p,
			Stats:     dashboardService.CalcPortfolioStats(p.Stocks),
		})
	}

	var stocks []model.StockRecord
	if withScreener {
		stocks, err = s.dashboard.Stocks(ctx, key)
		if err != nil {
			return model.ExportFile{}, err
		}
	}

	if len(reports) == 0 && len(stocks) == 0 {
		return model.ExportFile{}, service.NewValidationError(msgNothingToExport)
	}

	data, ext, err := s.generator.Generate(ctx, reports, stocks)
	if err != nil {
		slog.Error("got error from generator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.ExportFile{}, err
	}

	return model.ExportFile{FileName: fileName(s.now(), ext), Data: data}, nil
}

// ExportLink uploads the export and returns a public link to it.
func (s *ReportService) ExportLink(ctx context.Context, key string) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ReportService.ExportLink"

	if s.storage == nil {
		return "", ErrStorageDisabled
	}

	export, err := s.ExportPortfolios(ctx, key, false)
	if err != nil {
		return "", err
	}

	link, err := s.storage.UploadFile(ctx, bytes.NewReader(export.Data), export.FileName)
	if err != nil {
		slog.Error("got error from storage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	return link, nil
}

func fileName(t time.Time, ext string) string {
	return model.ExportFilePrefix + t.UTC().Format("20060102-150405") + ext
}
