package service

import (
	"context"

	"github.com/google/uuid"

	"payhub-backend/internal/domains/wallet/model"
	"payhub-backend/internal/domains/wallet/repository"
)

// WalletService exposes read access to wallet balances. All balance
// mutations happen inside ledger transitions, never through here.
type WalletService interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)
}

type walletService struct {
	walletRepo repository.WalletRepoInterface
}

func NewWalletService(walletRepo repository.WalletRepoInterface) WalletService {
	return &walletService{walletRepo: walletRepo}
}

func (s *walletService) GetWallet(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	return s.walletRepo.GetByUserID(ctx, userID)
}
