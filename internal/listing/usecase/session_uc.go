package usecase

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
)

// SessionUsecase holds the one signed-in identity of a client.
type SessionUsecase struct {
	store  domain.KeyValueStore
	logger *logger.Logger
}

func NewSessionUsecase(store domain.KeyValueStore, log *logger.Logger) *SessionUsecase {
	return &SessionUsecase{store: store, logger: log}
}

func (uc *SessionUsecase) SignIn(ctx context.Context, email string) (domain.Identity, error) {
	identity, err := domain.NewIdentity(email)
	if err != nil {
		uc.logger.Info("SessionUsecase.SignIn: rejected email", "email", email)
		return domain.Identity{}, err
	}
	raw, err := encodeSession(identity)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("encode %s: %w", sessionKey, err)
	}
	if err := uc.store.Save(ctx, sessionKey, raw); err != nil {
		uc.logger.Error("SessionUsecase.SignIn: failed to save session", "error", err.Error())
		return domain.Identity{}, fmt.Errorf("save %s: %w", sessionKey, err)
	}
	uc.logger.Info("SessionUsecase.SignIn: signed in", "email", identity.Email)
	return identity, nil
}

// SignOut clears the stored identity. Signing out twice is fine.
func (uc *SessionUsecase) SignOut(ctx context.Context) error {
	if err := uc.store.Remove(ctx, sessionKey); err != nil {
		uc.logger.Error("SessionUsecase.SignOut: failed to remove session", "error", err.Error())
		return fmt.Errorf("remove %s: %w", sessionKey, err)
	}
	return nil
}

// Current returns the signed-in identity, or nil when there is none or the
// stored record cannot be read.
func (uc *SessionUsecase) Current(ctx context.Context) (*domain.Identity, error) {
	raw, found, err := uc.store.Load(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", sessionKey, err)
	}
	if !found {
		return nil, nil
	}
	identity, err := decodeSession(raw)
	if err != nil {
		decodeErr := &domain.StorageDecodeError{Key: sessionKey, Err: err}
		uc.logger.Warn("SessionUsecase.Current: stored session is malformed, treating as signed out", "error", decodeErr.Error())
		return nil, nil
	}
	return identity, nil
}
