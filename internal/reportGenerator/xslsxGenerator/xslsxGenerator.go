package xslsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/stocknity/internal/format"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/utils"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet  = "Sheet1"
	screenerSheet = "Screener"
	// excelize rejects longer sheet names
	maxSheetName = 31
)

var ErrNothingToExport = errors.New("nothing to export")

var portfolioHeader = []string{
	"Ticker", "Company", "Sector", "Price", "Weight", "Total Shares",
	"Invested Amount", "Expected Annual Return", "Expected Annual Risk",
	"Weighted Expected Return", "Strength",
}

var screenerHeader = []string{
	"Ticker", "Company", "Sector", "Index", "Price", "Market Cap", "P/E",
	"Forward P/E", "PEG", "ROE", "Debt/Eq", "Dividend", "Strength",
}

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

// Generate writes one sheet per saved portfolio and, when stocks is not
// empty, a screener sheet.
func (g *XSLSXGenerator) Generate(ctx context.Context, reports []model.PortfolioReport, stocks []model.StockRecord) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	if len(reports) == 0 && len(stocks) == 0 {
		return nil, "", ErrNothingToExport
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("portfolios", len(reports)), slog.Int("stocks", len(stocks)))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	titleStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
	})
	if err != nil {
		return nil, "", err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#d9ead3"}},
	})
	if err != nil {
		return nil, "", err
	}

	for i, report := range reports {
		if err := g.fillPortfolioSheet(f, report, i+1, titleStyle, headerStyle); err != nil {
			slog.Error("can't fill portfolio sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	if len(stocks) > 0 {
		if err := g.fillScreenerSheet(f, stocks, headerStyle); err != nil {
			slog.Error("can't fill screener sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		slog.Error("got error while deleting default sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func sheetName(ordinal int, portfolioID string) string {
	name := fmt.Sprintf("%d. Portfolio %s", ordinal, portfolioID)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeHeader(f *excelize.File, sheet string, row int, header []string, styleID int) error {
	values := make([]any, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := writeRow(f, sheet, row, values); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(header), row)
	return f.SetCellStyle(sheet, first, last, styleID)
}

func (g *XSLSXGenerator) fillPortfolioSheet(f *excelize.File, report model.PortfolioReport, ordinal, titleStyle, headerStyle int) error {
	p := report.Portfolio
	sheet := sheetName(ordinal, p.PortfolioID.String())
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(portfolioHeader))
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return err
	}
	_ = f.SetCellStr(sheet, "A1", fmt.Sprintf("Portfolio #%s (created %s)", p.PortfolioID, p.CreatedLabel()))
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	if err := writeHeader(f, sheet, 2, portfolioHeader, headerStyle); err != nil {
		return err
	}

	for i, s := range p.Stocks {
		err := writeRow(f, sheet, i+3, []any{
			s.Ticker,
			s.Company,
			s.Sector,
			s.Price.Float64(),
			s.Weight.Float64(),
			s.TotalShares.Float64(),
			s.InvestedAmount.Float64(),
			s.ExpectedAnnualReturn.Float64(),
			s.ExpectedAnnualRisk.Float64(),
			s.WeightedExpectedReturn.Float64(),
			s.Strength.Float64(),
		})
		if err != nil {
			return err
		}
	}

	row := len(p.Stocks) + 4
	summary := [][]any{
		{"Expected Return, %", report.Stats.Return.Round(2).InexactFloat64()},
		{"Expected Risk, %", report.Stats.Risk.Round(2).InexactFloat64()},
		{"Total Value", report.Stats.TotalValue.Round(2).InexactFloat64()},
	}
	for i, values := range summary {
		if err := writeRow(f, sheet, row+i, values); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(1, row+len(summary)-1)
	return f.SetCellStyle(sheet, first, last, headerStyle)
}

// Screener values are exported as display text so "N/A" style cells survive.
func (g *XSLSXGenerator) fillScreenerSheet(f *excelize.File, stocks []model.StockRecord, headerStyle int) error {
	if _, err := f.NewSheet(screenerSheet); err != nil {
		return err
	}
	if err := writeHeader(f, screenerSheet, 1, screenerHeader, headerStyle); err != nil {
		return err
	}

	for i, s := range stocks {
		err := writeRow(f, screenerSheet, i+2, []any{
			s.Ticker,
			s.Company,
			s.Sector,
			s.Index,
			format.Currency(s.Price.String()),
			format.MarketCap(s.MarketCap.String()),
			format.Number(s.PE.String()),
			format.Number(s.ForwardPE.String()),
			format.Number(s.PEG.String()),
			format.Percentage(s.ROE.String()),
			format.Number(s.DebtEq.String()),
			format.Percentage(s.Dividend.String()),
			format.Number(s.Strength.String()),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
