package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"qc-dashboard/internal/core/config"
	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/features/bulkorders/domain"
	"qc-dashboard/internal/features/bulkorders/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionRunning is returned when resuming a session that is still fetching.
	ErrSessionRunning = errors.New("fetch session is still running")
	// ErrSessionFinished is returned when cancelling a session that already stopped.
	ErrSessionFinished = errors.New("fetch session already finished")
	// ErrSessionNotCompleted is returned when importing a session that did not complete.
	ErrSessionNotCompleted = errors.New("fetch session is not completed")
	// ErrImportDisabled is returned when no work order importer is configured.
	ErrImportDisabled = errors.New("work order import is not configured")
)

// saveTimeout bounds session writes that happen after the run context is gone.
const saveTimeout = 5 * time.Second

var _ ports.BulkOrderService = (*BulkOrderService)(nil)

// BulkOrderService owns fetch sessions and the background runs that fill them.
type BulkOrderService struct {
	fetcher  *UpstreamPageFetcher
	driver   *Driver
	sessions ports.SessionRepository
	importer ports.WorkOrderImporter
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running map[uuid.UUID]context.CancelFunc
}

// NewBulkOrderService creates a new BulkOrderService. importer may be nil.
func NewBulkOrderService(fetcher *UpstreamPageFetcher, sessions ports.SessionRepository, importer ports.WorkOrderImporter, cfg config.BulkOrdersConfig) *BulkOrderService {
	ctx, cancel := context.WithCancel(context.Background())
	return &BulkOrderService{
		fetcher:  fetcher,
		driver:   NewDriver(fetcher, cfg),
		sessions: sessions,
		importer: importer,
		log:      logger.Named("bulk_orders"),
		ctx:      ctx,
		cancel:   cancel,
		running:  make(map[uuid.UUID]context.CancelFunc),
	}
}

// FetchPage fetches and returns a single upstream page.
func (s *BulkOrderService) FetchPage(ctx context.Context, req ports.PageRequest) (*domain.Page, error) {
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}
	if !req.Mode.Valid() {
		return nil, domain.ErrInvalidMode
	}
	return s.fetcher.FetchPage(ctx, req)
}

// CompletionDetails looks up completion details for the given order numbers.
func (s *BulkOrderService) CompletionDetails(ctx context.Context, orderNos []string) (*domain.CompletionBatch, error) {
	return s.fetcher.CompletionDetails(ctx, orderNos)
}

// StartFetch creates a session and fills it in the background. The returned session is a
// snapshot; poll GetSession for progress.
func (s *BulkOrderService) StartFetch(ctx context.Context, req ports.StartFetchRequest) (*domain.FetchSession, error) {
	session, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("service: failed to save session: %w", err)
	}
	snapshot := session.Clone()

	runCtx, cancel := context.WithCancel(s.ctx)
	s.mu.Lock()
	s.running[session.ID] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.run(runCtx, session)

		// Unregistering and the final save happen under mu so CancelFetch never sees a
		// session that is neither running nor saved in its final state.
		s.mu.Lock()
		delete(s.running, session.ID)
		s.save(runCtx, session)
		s.mu.Unlock()
	}()

	return snapshot, nil
}

// Fetch runs a fetch to the end on the caller's goroutine.
func (s *BulkOrderService) Fetch(ctx context.Context, req ports.StartFetchRequest) (*domain.FetchSession, error) {
	session, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("service: failed to save session: %w", err)
	}
	s.run(ctx, session)
	s.save(ctx, session)
	return session, nil
}

// GetSession returns the stored state of a session.
func (s *BulkOrderService) GetSession(ctx context.Context, id uuid.UUID) (*domain.FetchSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get session: %w", err)
	}
	return session, nil
}

// CancelFetch stops a running session. A session left unfinished by a previous process is
// marked cancelled directly.
func (s *BulkOrderService) CancelFetch(ctx context.Context, id uuid.UUID) (*domain.FetchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.running[id]; ok {
		cancel()
		return s.GetSession(ctx, id)
	}

	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State.Finished() {
		return session, ErrSessionFinished
	}
	session.Finish(domain.SessionCancelled, "")
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("service: failed to save session: %w", err)
	}
	return session, nil
}

// ImportSession upserts the orders of a completed session as work orders.
func (s *BulkOrderService) ImportSession(ctx context.Context, id uuid.UUID) (*domain.ImportResult, error) {
	if s.importer == nil {
		return nil, ErrImportDisabled
	}
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State != domain.SessionCompleted {
		return nil, fmt.Errorf("session %s is %s: %w", id, session.State, ErrSessionNotCompleted)
	}

	imported, err := s.importer.ImportOrders(ctx, session.Orders)
	if err != nil {
		return nil, fmt.Errorf("service: failed to import orders: %w", err)
	}

	s.log.Info("Session imported", zap.Stringer("session_id", id), zap.Int("imported", imported))
	return &domain.ImportResult{
		SessionID: id.String(),
		Imported:  imported,
		Skipped:   len(session.Orders) - imported,
	}, nil
}

// Shutdown cancels the background runs and waits for them to record their final state.
func (s *BulkOrderService) Shutdown() {
	s.cancel()
	s.wg.Wait()
}

func (s *BulkOrderService) prepare(ctx context.Context, req ports.StartFetchRequest) (*domain.FetchSession, error) {
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}
	if !req.Mode.Valid() {
		return nil, domain.ErrInvalidMode
	}

	session := domain.NewFetchSession(req.Range, req.Mode)
	if req.ResumeSessionID != nil {
		prev, err := s.GetSession(ctx, *req.ResumeSessionID)
		if err != nil {
			return nil, err
		}
		if !prev.State.Finished() && prev.State != domain.SessionIdle {
			return nil, ErrSessionRunning
		}
		if session.Seed(prev) {
			session.AddNotice(domain.NewNotice(domain.NoticeInfo, "Resuming fetch",
				fmt.Sprintf("Continuing with %d orders already collected", len(session.Orders))))
		} else {
			session.AddNotice(domain.NewNotice(domain.NoticeInfo, "Starting over",
				"The previous session cannot be resumed for this range and mode"))
		}
	}
	session.Begin()
	return session, nil
}

// run drives the fetch and records the outcome on session. The caller saves the final state.
func (s *BulkOrderService) run(ctx context.Context, session *domain.FetchSession) {
	notifier := &sessionNotifier{session: session, save: s.save, log: s.log.With(zap.Stringer("session_id", session.ID))}

	res, err := s.driver.Run(ctx, FetchRequest{
		Range:    session.Range,
		Mode:     session.Mode,
		AfterTag: session.AfterTag,
		Seed:     session.Orders,
		OnPage: func(page *domain.Page, rec Reconciliation) {
			session.ApplyPage(len(page.Orders), rec.AfterTag, rec.Accumulated, page.Raw)
			if !rec.Continue {
				session.AfterTag = ""
			}
			s.save(ctx, session)
		},
	}, notifier)

	switch {
	case res.State == domain.SessionFailed && err != nil:
		session.Fail(err)
	case res.State == domain.SessionFailed:
		session.Finish(domain.SessionFailed, res.Failure)
	default:
		session.AfterTag = res.AfterTag
		session.Finish(res.State, "")
	}
	if err != nil && !IsCancellation(err) {
		s.log.Error("Fetch failed", zap.Stringer("session_id", session.ID), zap.Error(err))
	}
}

// save persists the session. It keeps working after ctx is cancelled so the final
// state of a cancelled run is recorded.
func (s *BulkOrderService) save(ctx context.Context, session *domain.FetchSession) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := s.sessions.Save(saveCtx, session); err != nil {
		s.log.Warn("Failed to save session", zap.Stringer("session_id", session.ID), zap.Error(err))
	}
}

// sessionNotifier records notices on the session and mirrors them to the log.
type sessionNotifier struct {
	session *domain.FetchSession
	save    func(context.Context, *domain.FetchSession)
	log     *zap.Logger
}

func (n *sessionNotifier) Notify(ctx context.Context, notice domain.Notice) {
	n.session.AddNotice(notice)
	fields := []zap.Field{zap.String("title", notice.Title), zap.String("message", notice.Message)}
	switch notice.Level {
	case domain.NoticeError:
		n.log.Error("Notice", fields...)
	case domain.NoticeWarning:
		n.log.Warn("Notice", fields...)
	default:
		n.log.Debug("Notice", fields...)
	}
	n.save(ctx, n.session)
}
