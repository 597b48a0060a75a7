package repository

import (
	"context"

	"github.com/edulingo/backend/domain"
)

// TokenLedger tracks balances and per-owner/per-spender allowances for the
// single marketplace token. Amounts are base units of an 18-decimal asset.
// All arithmetic fails closed with domain.ErrOverflow, never wraps.
type TokenLedger interface {
	Mint(ctx context.Context, to domain.Identity, amount uint64) error
	Approve(ctx context.Context, owner, spender domain.Identity, amount uint64) error
	Allowance(ctx context.Context, owner, spender domain.Identity) (uint64, error)
	BalanceOf(ctx context.Context, owner domain.Identity) (uint64, error)
	TransferFrom(ctx context.Context, spender, owner, to domain.Identity, amount uint64) error
}

// TransactionalLedger extends TokenLedger with a commit-hook transfer.
//
// TransferFromTx validates allowance and balance, runs commit inside the
// ledger's critical section, and applies the transfer only if commit returns
// nil. Either the transfer and the commit's effects become visible together
// or neither does; this is the transaction boundary a purchase runs under.
type TransactionalLedger interface {
	TokenLedger
	TransferFromTx(ctx context.Context, spender, owner, to domain.Identity, amount uint64, commit func() error) error
}
