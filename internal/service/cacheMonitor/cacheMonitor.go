package cacheMonitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/utils"
)

const msgFetchFailed = "Failed to fetch cache status"

type Api interface {
	GetCacheStatus(ctx context.Context, cookies model.BackendCookies) (model.CacheStatus, error)
	GetAnnualReturnsCacheStatus(ctx context.Context, cookies model.BackendCookies) (model.AnnualReturnsCacheStatus, error)
}

// CacheMonitor keeps the latest polled status of both backend caches. A
// failed poll keeps the previous status and records the error next to it.
type CacheMonitor struct {
	api Api
	now func() time.Time

	mu     sync.RWMutex
	stocks model.CacheSnapshot
	annual model.CacheSnapshot
}

func New(api Api) *CacheMonitor {
	return &CacheMonitor{api: api, now: time.Now}
}

func (m *CacheMonitor) Stocks() model.CacheSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stocks
}

func (m *CacheMonitor) AnnualReturns() model.CacheSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.annual
}

// PollStocks is the stocks-cache interval job.
func (m *CacheMonitor) PollStocks(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "CacheMonitor.PollStocks"

	status, err := m.api.GetCacheStatus(ctx, nil)
	if err != nil {
		slog.Warn("can't poll stocks cache status", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		m.mu.Lock()
		m.stocks.Err = msgFetchFailed
		m.mu.Unlock()
		return err
	}

	m.SetStocks(status)
	return nil
}

// PollAnnualReturns is the annual-returns-cache interval job.
func (m *CacheMonitor) PollAnnualReturns(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "CacheMonitor.PollAnnualReturns"

	status, err := m.api.GetAnnualReturnsCacheStatus(ctx, nil)
	if err != nil {
		slog.Warn("can't poll annual returns cache status", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		m.mu.Lock()
		m.annual.Err = msgFetchFailed
		m.mu.Unlock()
		return err
	}

	m.SetAnnualReturns(status)
	return nil
}

// SetStocks records a status fetched outside the poll, e.g. after a refresh.
func (m *CacheMonitor) SetStocks(status model.CacheStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stocks = model.CacheSnapshot{Status: &status, LastUpdated: m.now()}
}

func (m *CacheMonitor) SetAnnualReturns(status model.AnnualReturnsCacheStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.annual = model.CacheSnapshot{
		Status:         &status.CacheStatus,
		IsFresh:        status.IsFresh,
		Recommendation: status.Recommendation,
		LastUpdated:    m.now(),
	}
}
