package usecase

import (
	"context"
	"strings"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/microcosm-cc/bluemonday"
)

const maxInquiryLength = 4000

// ListingReader looks listings up by id.
type ListingReader interface {
	Get(ctx context.Context, id string) (domain.Listing, error)
}

// InquiryUsecase sends a signed-in buyer's message to a listing's owner.
type InquiryUsecase struct {
	listings ListingReader
	mailer   domain.Mailer
	policy   *bluemonday.Policy
	logger   *logger.Logger
}

func NewInquiryUsecase(listings ListingReader, mailer domain.Mailer, log *logger.Logger) *InquiryUsecase {
	return &InquiryUsecase{
		listings: listings,
		mailer:   mailer,
		policy:   bluemonday.UGCPolicy(),
		logger:   log,
	}
}

func (uc *InquiryUsecase) ContactSeller(ctx context.Context, listingID string, buyer *domain.Identity, message string) error {
	if buyer == nil {
		return domain.ErrNotSignedIn
	}
	if uc.mailer == nil {
		return domain.ErrMailerDisabled
	}
	message = strings.TrimSpace(message)
	if len(message) > maxInquiryLength {
		return &domain.ValidationError{Field: "message", Err: domain.ErrInvalidField}
	}
	listing, err := uc.listings.Get(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.OwnerEmail == buyer.Email {
		return &domain.ValidationError{Field: "listing", Err: domain.ErrSelfInquiry}
	}

	inquiry := domain.Inquiry{
		ListingID:  listing.ID,
		Title:      listing.Title,
		SellerMail: listing.OwnerEmail,
		BuyerMail:  buyer.Email,
		BuyerName:  buyer.DisplayName,
		Message:    uc.policy.Sanitize(message),
	}
	if err := uc.mailer.SendInquiry(ctx, inquiry); err != nil {
		uc.logger.Error("InquiryUsecase.ContactSeller: failed to send inquiry",
			"listing_id", listingID, "buyer", buyer.Email, "error", err.Error())
		return err
	}
	uc.logger.Info("InquiryUsecase.ContactSeller: inquiry sent", "listing_id", listingID, "buyer", buyer.Email)
	return nil
}
