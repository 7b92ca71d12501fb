package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestPhotoSlot_LatestReadWins(t *testing.T) {
	slot := &PhotoSlot{}
	first := slot.Begin()
	second := slot.Begin()

	assert.True(t, slot.Complete(second, "second"))
	assert.False(t, slot.Complete(first, "first"))
	assert.Equal(t, "second", slot.Current())

	pending := slot.Begin()
	slot.Clear()
	assert.False(t, slot.Complete(pending, "late"))
	assert.Empty(t, slot.Current())
}

func TestPhotoUsecase_LoadAsDataURL(t *testing.T) {
	uc := NewPhotoUsecase(nil, logger.NewNop())
	slot := &PhotoSlot{}

	value, applied, err := uc.Load(context.Background(), slot, "bike.png", "", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, strings.HasPrefix(value, "data:image/png;base64,"))
	assert.Equal(t, value, slot.Current())
}

func TestPhotoUsecase_LoadRejects(t *testing.T) {
	uc := NewPhotoUsecase(nil, logger.NewNop())
	uc.maxBytes = 8
	ctx := context.Background()
	slot := &PhotoSlot{}

	_, _, err := uc.Load(ctx, slot, "big.png", "image/png", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, domain.ErrPhotoTooLarge)

	_, _, err = uc.Load(ctx, slot, "notes.txt", "text/plain", strings.NewReader("hello"))
	assert.ErrorIs(t, err, domain.ErrPhotoNotImage)

	_, _, err = uc.Load(ctx, slot, "empty.png", "image/png", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	assert.Empty(t, slot.Current())
}

func TestPhotoUsecase_LoadUploadsToStorage(t *testing.T) {
	storage := new(MockPhotoStorage)
	storage.On("Upload", mock.Anything, "bike.png", "image/png", mock.Anything, int64(len(pngHeader))).
		Return("http://minio:9000/photos/abc.png", nil).Once()
	uc := NewPhotoUsecase(storage, logger.NewNop())
	slot := &PhotoSlot{}

	value, applied, err := uc.Load(context.Background(), slot, "bike.png", "image/png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "http://minio:9000/photos/abc.png", value)
	storage.AssertExpectations(t)
}

func TestPhotoUsecase_UploadFailureLeavesSlot(t *testing.T) {
	storage := new(MockPhotoStorage)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket gone"))
	uc := NewPhotoUsecase(storage, logger.NewNop())
	slot := &PhotoSlot{}
	slot.Set("data:image/png;base64,OLD")

	_, applied, err := uc.Load(context.Background(), slot, "bike.png", "image/png", bytes.NewReader(pngHeader))
	require.Error(t, err)
	assert.False(t, applied)
	assert.Equal(t, "data:image/png;base64,OLD", slot.Current())
}
