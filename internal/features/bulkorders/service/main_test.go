package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"qc-dashboard/internal/features/bulkorders/domain"
	"qc-dashboard/internal/features/bulkorders/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var may1 = domain.DateRange{From: "2024-05-01", To: "2024-05-01"}

// MockOrderSearcher is a mock implementation of ports.OrderSearcher.
type MockOrderSearcher struct {
	mock.Mock
}

func (m *MockOrderSearcher) SearchOrders(ctx context.Context, q domain.SearchQuery) (*domain.Page, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page), args.Error(1)
}

func (m *MockOrderSearcher) GetCompletionDetails(ctx context.Context, orderNos []string) (*domain.CompletionBatch, error) {
	args := m.Called(ctx, orderNos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletionBatch), args.Error(1)
}

// scriptedFetcher serves pages keyed by the request's after tag.
type scriptedFetcher struct {
	mu    sync.Mutex
	pages map[string]*domain.Page
	errs  map[string]error
	calls []ports.PageRequest
	// block makes FetchPage wait for ctx cancellation.
	block bool
}

func (f *scriptedFetcher) FetchPage(ctx context.Context, req ports.PageRequest) (*domain.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	page, err, block := f.pages[req.AfterTag], f.errs[req.AfterTag], f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, errors.New("no page scripted for tag " + req.AfterTag)
	}
	cp := *page
	return &cp, nil
}

func (f *scriptedFetcher) Calls() []ports.PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.PageRequest(nil), f.calls...)
}

// recordingNotifier collects notices.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) titled(title string) []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.Notice
	for _, notice := range n.notices {
		if notice.Title == title {
			out = append(out, notice)
		}
	}
	return out
}

// memorySessions is an in-memory ports.SessionRepository.
type memorySessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.FetchSession
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[uuid.UUID]*domain.FetchSession)}
}

func (r *memorySessions) Save(_ context.Context, s *domain.FetchSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *memorySessions) Get(_ context.Context, id uuid.UUID) (*domain.FetchSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// memoryCompletionCache is an in-memory ports.CompletionCache.
type memoryCompletionCache struct {
	mu      sync.Mutex
	entries map[string]domain.CompletionDetails
}

func (c *memoryCompletionCache) GetMany(_ context.Context, orderNos []string) (map[string]domain.CompletionDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]domain.CompletionDetails)
	for _, no := range orderNos {
		if d, ok := c.entries[no]; ok {
			out[no] = d
		}
	}
	return out, nil
}

func (c *memoryCompletionCache) Put(_ context.Context, details map[string]domain.CompletionDetails) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]domain.CompletionDetails)
	}
	for no, d := range details {
		if d.Terminal() {
			c.entries[no] = d
		}
	}
	return nil
}

func finished(status string) *domain.CompletionDetails {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	return &domain.CompletionDetails{
		Success: true,
		Data:    &domain.CompletionData{Status: status, StartTime: &start, EndTime: &end},
	}
}
