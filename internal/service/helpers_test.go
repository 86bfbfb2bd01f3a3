package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/souq/internal/models"
	"github.com/Skotchmaster/souq/internal/repo"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, event map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

func (p *recordingPublisher) last() recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type fakeIndex struct {
	indexed map[string]models.Product
	deleted []string
	hits    []models.Product
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[string]models.Product{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[p.ID.String()] = p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []models.Product, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

var errBroker = errors.New("broker unavailable")

func newTestRepo() *repo.MemRepo {
	r := repo.NewMemRepo()
	t := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	r.Now = func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
	return r
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func str(s string) *string { return &s }
