package cacheMonitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KotFed0t/stocknity/internal/model"
)

type fakeApi struct {
	status    model.CacheStatus
	annual    model.AnnualReturnsCacheStatus
	err       error
	annualErr error
}

func (f *fakeApi) GetCacheStatus(_ context.Context, _ model.BackendCookies) (model.CacheStatus, error) {
	return f.status, f.err
}

func (f *fakeApi) GetAnnualReturnsCacheStatus(_ context.Context, _ model.BackendCookies) (model.AnnualReturnsCacheStatus, error) {
	return f.annual, f.annualErr
}

func TestPollStocks_KeepsPreviousStatusOnFailure(t *testing.T) {
	api := &fakeApi{status: model.CacheStatus{Status: model.CacheStatusCached, TTLSeconds: 3600, Count: 500}}
	m := New(api)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	if err := m.PollStocks(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := m.Stocks()
	if snap.Status == nil || snap.Status.Count != 500 || !snap.LastUpdated.Equal(fixed) || snap.Err != "" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	api.err = errors.New("backend down")
	if err := m.PollStocks(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	snap = m.Stocks()
	if snap.Status == nil || snap.Status.Count != 500 {
		t.Errorf("previous status must be kept, got %+v", snap)
	}
	if snap.Err != msgFetchFailed {
		t.Errorf("unexpected error text %q", snap.Err)
	}

	api.err = nil
	if err := m.PollStocks(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Stocks().Err != "" {
		t.Error("successful poll must clear the error")
	}
}

func TestPollAnnualReturns(t *testing.T) {
	api := &fakeApi{annual: model.AnnualReturnsCacheStatus{
		CacheStatus:    model.CacheStatus{Status: model.CacheStatusCached, TTLSeconds: 86400},
		IsFresh:        true,
		Recommendation: "Cache is healthy",
	}}
	m := New(api)

	if err := m.PollAnnualReturns(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := m.AnnualReturns()
	if snap.Status == nil || snap.Status.TTLSeconds != 86400 || !snap.IsFresh || snap.Recommendation != "Cache is healthy" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if m.Stocks().Status != nil {
		t.Error("stocks snapshot must stay empty")
	}
}
