package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

// UseCase fronts the token ledger for the HTTP collaborators: approve,
// allowance and balance reads, plus the bootstrap mint. Purchases bypass it
// and go through the registry's transactional path.
type UseCase struct {
	tokens repository.TokenLedger
	logger *zap.Logger
}

func New(tokens repository.TokenLedger, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tokens: tokens,
		logger: logger,
	}
}

// Mint seeds a balance at bootstrap. Steady-state operation never mints.
func (uc *UseCase) Mint(ctx context.Context, to domain.Identity, amount uint64) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if err := uc.tokens.Mint(ctx, to, amount); err != nil {
		return err
	}
	uc.logger.Info("minted tokens", zap.String("to", to.String()), zap.Uint64("amount", amount))
	return nil
}

func (uc *UseCase) Approve(ctx context.Context, owner, spender domain.Identity, amount uint64) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if err := spender.Validate(); err != nil {
		return err
	}
	if err := uc.tokens.Approve(ctx, owner, spender, amount); err != nil {
		return err
	}
	uc.logger.Debug("allowance set",
		zap.String("owner", owner.String()),
		zap.String("spender", spender.String()),
		zap.Uint64("amount", amount))
	return nil
}

func (uc *UseCase) Allowance(ctx context.Context, owner, spender domain.Identity) (uint64, error) {
	return uc.tokens.Allowance(ctx, owner, spender)
}

func (uc *UseCase) BalanceOf(ctx context.Context, owner domain.Identity) (uint64, error) {
	return uc.tokens.BalanceOf(ctx, owner)
}
