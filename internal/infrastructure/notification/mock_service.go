package notification

import (
	"context"

	"payhub-backend/pkg/logger"
)

// Sender delivers a transaction status notification to a user.
// The real channel (push, SMS, email) lives outside this service.
type Sender interface {
	SendTransactionStatus(ctx context.Context, userID, transactionID, status, amount string) error
}

// MockSender logs instead of delivering. Used in development and tests.
type MockSender struct{}

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (s *MockSender) SendTransactionStatus(ctx context.Context, userID, transactionID, status, amount string) error {
	logger.Info("mock notification sent", map[string]interface{}{
		"user_id":        userID,
		"transaction_id": transactionID,
		"status":         status,
		"amount":         amount,
	})
	return nil
}
