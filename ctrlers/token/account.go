package token

import (
	v1 "github.com/beatoz/beatoz-rwdpool/ledger/v1"
	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
)

type TokenAccount struct {
	Address types.Address `json:"address"`
	Balance *uint256.Int  `json:"balance"`
}

func NewTokenAccount(addr types.Address) *TokenAccount {
	return &TokenAccount{
		Address: addr,
		Balance: uint256.NewInt(0),
	}
}

func (acct *TokenAccount) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(acct)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (acct *TokenAccount) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, acct); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (acct *TokenAccount) AddBalance(amt *uint256.Int) xerrors.XError {
	sum, overflow := new(uint256.Int).AddOverflow(acct.Balance, amt)
	if overflow {
		return xerrors.ErrOverFlow.Wrapf("balance of %v", acct.Address)
	}
	acct.Balance = sum
	return nil
}

func (acct *TokenAccount) SubBalance(amt *uint256.Int) xerrors.XError {
	if acct.Balance.Lt(amt) {
		return xerrors.ErrInsufficientBalance.Wrapf("address: %v, balance: %v, amount: %v", acct.Address, acct.Balance.Dec(), amt.Dec())
	}
	acct.Balance = new(uint256.Int).Sub(acct.Balance, amt)
	return nil
}

type Allowance struct {
	Owner   types.Address `json:"owner"`
	Spender types.Address `json:"spender"`
	Amount  *uint256.Int  `json:"amount"`
}

func (a *Allowance) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(a)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (a *Allowance) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, a); err != nil {
		return xerrors.From(err)
	}
	return nil
}

type TokenInfo struct {
	Name        string       `json:"name"`
	TotalSupply *uint256.Int `json:"totalSupply"`
}

func (info *TokenInfo) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(info)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (info *TokenInfo) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, info); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ v1.ILedgerItem = (*TokenAccount)(nil)
var _ v1.ILedgerItem = (*Allowance)(nil)
var _ v1.ILedgerItem = (*TokenInfo)(nil)

func newItemFor(key v1.LedgerKey) v1.ILedgerItem {
	switch v1.KeyPrefixOf(key) {
	case v1.KeyPrefixTokenAccount[0]:
		return &TokenAccount{}
	case v1.KeyPrefixAllowance[0]:
		return &Allowance{}
	case v1.KeyPrefixTokenInfo[0]:
		return &TokenInfo{}
	}
	panic("unknown token ledger key prefix")
}
