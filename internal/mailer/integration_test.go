package mailer

import (
	"context"
	"os"
	"testing"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/joho/godotenv"
)

func TestSendListingCreated_Integration(t *testing.T) {
	_ = godotenv.Load("../../.env")

	to := os.Getenv("TEST_RECEIVER_EMAIL")
	if to == "" {
		t.Skip("TEST_RECEIVER_EMAIL is not set, skipping SMTP integration test")
	}
	m, err := NewSMTPMailer(Config{
		From:     os.Getenv("SMTP_EMAIL"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}, logger.NewNop())
	if err != nil {
		t.Skipf("SMTP not configured: %v", err)
	}

	err = m.SendListingCreated(context.Background(), to, domain.Listing{ID: "it", Title: "Integration Test Listing"})
	if err != nil {
		t.Errorf("failed to send email: %v", err)
	}
}
