package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
)

const DefaultMaxPhotoBytes = 5 << 20

// PhotoSlot holds the pending photo of an edit session. Reads are numbered;
// only the most recently started read may store its result, so re-selecting
// a photo abandons the earlier one. Commits use whatever completed last.
type PhotoSlot struct {
	mu     sync.Mutex
	latest uint64
	value  string
}

// Begin starts a read and abandons any read still in flight.
func (p *PhotoSlot) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest++
	return p.latest
}

// Complete stores value if ticket is still the latest read.
func (p *PhotoSlot) Complete(ticket uint64, value string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ticket != p.latest {
		return false
	}
	p.value = value
	return true
}

func (p *PhotoSlot) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Set replaces the value directly and abandons in-flight reads.
func (p *PhotoSlot) Set(value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest++
	p.value = value
}

func (p *PhotoSlot) Clear() {
	p.Set("")
}

// PhotoUsecase turns an uploaded image into the value stored in Listing.Photo:
// an object URL when photo storage is configured, a data URL otherwise.
type PhotoUsecase struct {
	storage  domain.PhotoStorage
	logger   *logger.Logger
	maxBytes int64
}

func NewPhotoUsecase(storage domain.PhotoStorage, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{storage: storage, logger: log, maxBytes: DefaultMaxPhotoBytes}
}

// Load reads r into slot. applied is false when a newer read started before
// this one finished; the slot then keeps the newer value.
func (uc *PhotoUsecase) Load(ctx context.Context, slot *PhotoSlot, fileName, contentType string, r io.Reader) (value string, applied bool, err error) {
	ticket := slot.Begin()

	data, err := io.ReadAll(io.LimitReader(r, uc.maxBytes+1))
	if err != nil {
		return "", false, fmt.Errorf("read photo: %w", err)
	}
	if int64(len(data)) > uc.maxBytes {
		return "", false, &domain.ValidationError{Field: "photo", Err: domain.ErrPhotoTooLarge}
	}
	if len(data) == 0 {
		return "", false, &domain.ValidationError{Field: "photo", Err: domain.ErrMissingRequiredField}
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", false, &domain.ValidationError{Field: "photo", Err: domain.ErrPhotoNotImage}
	}

	if uc.storage != nil {
		value, err = uc.storage.Upload(ctx, fileName, contentType, bytes.NewReader(data), int64(len(data)))
		if err != nil {
			uc.logger.Error("PhotoUsecase.Load: upload failed", "file_name", fileName, "error", err.Error())
			return "", false, fmt.Errorf("upload photo: %w", err)
		}
	} else {
		value = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	}

	applied = slot.Complete(ticket, value)
	if !applied {
		uc.logger.Info("PhotoUsecase.Load: superseded by a newer photo", "file_name", fileName)
	}
	return value, applied, nil
}
