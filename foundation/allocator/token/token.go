// Package token implements the balance book for the issuance token. It
// tracks per-account balances and the total supply. The ledger holds the
// only mint path; everything else moves existing tokens.
package token

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
)

// Set of errors for token operations.
var (
	ErrInvalidAccount    = errors.New("account is not valid")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSupplyOverflow    = errors.New("total supply overflows 64 bits")
)

// Info describes the token.
type Info struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Token maintains the account balances and the total supply.
type Token struct {
	info        Info
	balances    map[ledger.AccountID]uint64
	totalSupply uint64
}

// New constructs a token with the specified pre-mined balances.
func New(info Info, balances map[ledger.AccountID]uint64) (*Token, error) {
	tkn := Token{
		info:     info,
		balances: make(map[ledger.AccountID]uint64),
	}

	for account, balance := range balances {
		if account.IsZero() || !account.IsAccountID() {
			return nil, fmt.Errorf("balance for %q: %w", account, ErrInvalidAccount)
		}
		if balance > math.MaxUint64-tkn.totalSupply {
			return nil, ErrSupplyOverflow
		}

		tkn.balances[account] = balance
		tkn.totalSupply += balance
	}

	return &tkn, nil
}

// Info returns the token metadata.
func (t *Token) Info() Info {
	return t.info
}

// Mint creates new tokens in the specified account. This is the capability
// the ledger distributes issuance through.
func (t *Token) Mint(account ledger.AccountID, amount uint64) error {
	if account.IsZero() || !account.IsAccountID() {
		return ErrInvalidAccount
	}
	if amount > math.MaxUint64-t.totalSupply {
		return ErrSupplyOverflow
	}

	t.balances[account] += amount
	t.totalSupply += amount

	return nil
}

// Transfer moves tokens between accounts.
func (t *Token) Transfer(from ledger.AccountID, to ledger.AccountID, amount uint64) error {
	if from.IsZero() || !from.IsAccountID() {
		return ErrInvalidAccount
	}
	if to.IsZero() || !to.IsAccountID() {
		return ErrInvalidAccount
	}
	if amount == 0 || from == to {
		return nil
	}

	balance := t.balances[from]
	if balance < amount {
		return ErrInsufficientFunds
	}

	t.balances[from] = balance - amount
	t.balances[to] += amount

	return nil
}

// BalanceOf returns the balance for the specified account.
func (t *Token) BalanceOf(account ledger.AccountID) uint64 {
	return t.balances[account]
}

// TotalSupply returns the number of tokens in existence.
func (t *Token) TotalSupply() uint64 {
	return t.totalSupply
}

// Balances makes a copy of every account balance.
func (t *Token) Balances() map[ledger.AccountID]uint64 {
	balances := make(map[ledger.AccountID]uint64, len(t.balances))
	for account, balance := range t.balances {
		balances[account] = balance
	}

	return balances
}

// Accounts returns the accounts holding a balance in sorted order.
func (t *Token) Accounts() []ledger.AccountID {
	accounts := make([]ledger.AccountID, 0, len(t.balances))
	for account := range t.balances {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	return accounts
}
