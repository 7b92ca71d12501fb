package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/google/uuid"
)

const DefaultSessionTTL = 24 * time.Hour

// Board tracks client sessions. Each session id owns a session record,
// stored under "session:<id>:" in the shared store, and an edit session.
// Open sessions and their expiry are indexed under cc_sessions so Sweep can
// drop abandoned ones after a restart too.
type Board struct {
	store  domain.KeyValueStore
	logger *logger.Logger
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	editors map[string]*EditSession

	indexMu sync.Mutex

	stopCh   chan struct{}
	stopOnce sync.Once
}

type BoardOption func(*Board)

func WithSessionTTL(ttl time.Duration) BoardOption {
	return func(b *Board) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

func WithBoardClock(now func() time.Time) BoardOption {
	return func(b *Board) { b.now = now }
}

func NewBoard(store domain.KeyValueStore, log *logger.Logger, opts ...BoardOption) *Board {
	b := &Board{
		store:   store,
		logger:  log,
		ttl:     DefaultSessionTTL,
		now:     time.Now,
		editors: make(map[string]*EditSession),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) sessions(sessionID string) *SessionUsecase {
	return NewSessionUsecase(newPrefixedStore(b.store, "session:"+sessionID+":"), b.logger)
}

// SignIn opens a new session for email and returns its id.
func (b *Board) SignIn(ctx context.Context, email string) (string, domain.Identity, error) {
	sessionID := uuid.NewString()
	identity, err := b.sessions(sessionID).SignIn(ctx, email)
	if err != nil {
		return "", domain.Identity{}, err
	}
	expiresAt := b.now().Add(b.ttl)
	if err := b.updateIndex(ctx, func(index map[string]int64) { index[sessionID] = expiresAt.UnixMilli() }); err != nil {
		b.logger.Error("Board.SignIn: failed to index session", "session_id", sessionID, "error", err.Error())
		_ = b.sessions(sessionID).SignOut(ctx)
		return "", domain.Identity{}, err
	}
	b.logger.Info("Board.SignIn: session opened", "session_id", sessionID, "email", identity.Email)
	return sessionID, identity, nil
}

// Identity returns the identity signed in on sessionID, nil when signed out.
func (b *Board) Identity(ctx context.Context, sessionID string) (*domain.Identity, error) {
	if !validSessionID(sessionID) {
		return nil, nil
	}
	return b.sessions(sessionID).Current(ctx)
}

// SignOut clears the session record and discards any pending edit.
func (b *Board) SignOut(ctx context.Context, sessionID string) error {
	if !validSessionID(sessionID) {
		return domain.ErrInvalidSession
	}
	if err := b.closeSession(ctx, sessionID); err != nil {
		return err
	}
	if err := b.updateIndex(ctx, func(index map[string]int64) { delete(index, sessionID) }); err != nil {
		b.logger.Warn("Board.SignOut: failed to unindex session", "session_id", sessionID, "error", err.Error())
	}
	b.logger.Info("Board.SignOut: session closed", "session_id", sessionID)
	return nil
}

// Editor returns the edit session of sessionID, creating it on first use.
func (b *Board) Editor(sessionID string) *EditSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	editor, ok := b.editors[sessionID]
	if !ok {
		editor = NewEditSession()
		b.editors[sessionID] = editor
	}
	return editor
}

// Sweep closes every session whose expiry has passed and returns how many
// were closed.
func (b *Board) Sweep(ctx context.Context) (int, error) {
	now := b.now().UnixMilli()
	var expired []string
	err := b.updateIndex(ctx, func(index map[string]int64) {
		for sessionID, expiresAt := range index {
			if expiresAt <= now {
				expired = append(expired, sessionID)
				delete(index, sessionID)
			}
		}
	})
	if err != nil {
		return 0, err
	}
	for _, sessionID := range expired {
		if err := b.closeSession(ctx, sessionID); err != nil {
			b.logger.Warn("Board.Sweep: failed to close expired session", "session_id", sessionID, "error", err.Error())
		}
	}
	if len(expired) > 0 {
		b.logger.Info("Board.Sweep: expired sessions closed", "count", len(expired))
	}
	return len(expired), nil
}

// StartSweeper runs Sweep every interval until Stop is called.
func (b *Board) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := b.Sweep(context.Background()); err != nil {
					b.logger.Error("Board.Sweep: failed", "error", err.Error())
				}
			case <-b.stopCh:
				return
			}
		}
	}()
}

func (b *Board) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
}

func (b *Board) closeSession(ctx context.Context, sessionID string) error {
	b.mu.Lock()
	if editor, ok := b.editors[sessionID]; ok {
		editor.Reset()
		delete(b.editors, sessionID)
	}
	b.mu.Unlock()
	return b.sessions(sessionID).SignOut(ctx)
}

func (b *Board) updateIndex(ctx context.Context, mutate func(map[string]int64)) error {
	b.indexMu.Lock()
	defer b.indexMu.Unlock()

	index := make(map[string]int64)
	raw, found, err := b.store.Load(ctx, sessionIndexKey)
	if err != nil {
		return fmt.Errorf("load %s: %w", sessionIndexKey, err)
	}
	if found {
		decoded, err := decodeSessionIndex(raw)
		if err != nil {
			decodeErr := &domain.StorageDecodeError{Key: sessionIndexKey, Err: err}
			b.logger.Warn("Board: session index is malformed, starting a new one", "error", decodeErr.Error())
		} else {
			index = decoded
		}
	}
	mutate(index)
	raw, err = encodeSessionIndex(index)
	if err != nil {
		return fmt.Errorf("encode %s: %w", sessionIndexKey, err)
	}
	if err := b.store.Save(ctx, sessionIndexKey, raw); err != nil {
		return fmt.Errorf("save %s: %w", sessionIndexKey, err)
	}
	return nil
}

func validSessionID(sessionID string) bool {
	_, err := uuid.Parse(sessionID)
	return err == nil
}
