package token

import (
	"sync"

	ctrlertypes "github.com/beatoz/beatoz-rwdpool/ctrlers/types"
	v1 "github.com/beatoz/beatoz-rwdpool/ledger/v1"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// TokenCtrler is a fungible token kept in its own ledger.
type TokenCtrler struct {
	name       string
	tokenState v1.IStateLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewTokenCtrler(name, dbDir string, cacheSize int, logger tmlog.Logger) (*TokenCtrler, xerrors.XError) {
	lg := logger.With("module", "rwdpool_TokenCtrler", "token", name)

	_state, xerr := v1.NewStateLedger("token_"+name, dbDir, cacheSize, newItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &TokenCtrler{
		name:       name,
		tokenState: _state,
		logger:     lg,
	}, nil
}

func (ctrler *TokenCtrler) Name() string {
	return ctrler.name
}

func (ctrler *TokenCtrler) Version() int64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.tokenState.Version()
}

func (ctrler *TokenCtrler) BalanceOf(addr types.Address) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	acct, xerr := ctrler.findOrNewAccount(ctrler.tokenState, addr)
	if xerr != nil {
		ctrler.logger.Error("fail to get account", "address", addr, "error", xerr.Error())
		return uint256.NewInt(0)
	}
	return acct.Balance
}

func (ctrler *TokenCtrler) TotalSupply() *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	info, xerr := ctrler.tokenInfo(ctrler.tokenState)
	if xerr != nil {
		ctrler.logger.Error("fail to get token info", "error", xerr.Error())
		return uint256.NewInt(0)
	}
	return info.TotalSupply
}

func (ctrler *TokenCtrler) Allowance(owner, spender types.Address) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	allowance, xerr := ctrler.allowance(ctrler.tokenState, owner, spender)
	if xerr != nil {
		ctrler.logger.Error("fail to get allowance", "owner", owner, "spender", spender, "error", xerr.Error())
		return uint256.NewInt(0)
	}
	return allowance.Amount
}

func (ctrler *TokenCtrler) Mint(to types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.atomically(func() xerrors.XError {
		info, xerr := ctrler.tokenInfo(ctrler.tokenState)
		if xerr != nil {
			return xerr
		}
		supply, overflow := new(uint256.Int).AddOverflow(info.TotalSupply, amt)
		if overflow {
			return xerrors.ErrOverFlow.Wrapf("total supply of %s", ctrler.name)
		}
		info.TotalSupply = supply

		acct, xerr := ctrler.findOrNewAccount(ctrler.tokenState, to)
		if xerr != nil {
			return xerr
		}
		if xerr := acct.AddBalance(amt); xerr != nil {
			return xerr
		}
		if xerr := ctrler.tokenState.Set(v1.LedgerKeyTokenInfo(), info); xerr != nil {
			return xerr
		}
		return ctrler.tokenState.Set(v1.LedgerKeyTokenAccount(to), acct)
	})
}

func (ctrler *TokenCtrler) Transfer(from, to types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.atomically(func() xerrors.XError {
		return ctrler.transfer(from, to, amt)
	})
}

func (ctrler *TokenCtrler) TransferFrom(spender, from, to types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.atomically(func() xerrors.XError {
		allowance, xerr := ctrler.allowance(ctrler.tokenState, from, spender)
		if xerr != nil {
			return xerr
		}
		if allowance.Amount.Lt(amt) {
			return xerrors.ErrInsufficientAllowance.Wrapf("owner: %v, spender: %v, allowance: %v, amount: %v",
				from, spender, allowance.Amount.Dec(), amt.Dec())
		}
		allowance.Amount = new(uint256.Int).Sub(allowance.Amount, amt)
		if xerr := ctrler.tokenState.Set(v1.LedgerKeyAllowance(from, spender), allowance); xerr != nil {
			return xerr
		}
		return ctrler.transfer(from, to, amt)
	})
}

func (ctrler *TokenCtrler) Approve(owner, spender types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if xerr := validateAddrs(owner, spender); xerr != nil {
		return xerr
	}
	return ctrler.tokenState.Set(
		v1.LedgerKeyAllowance(owner, spender),
		&Allowance{Owner: owner, Spender: spender, Amount: amt.Clone()})
}

func (ctrler *TokenCtrler) transfer(from, to types.Address, amt *uint256.Int) xerrors.XError {
	if xerr := validateAddrs(from, to); xerr != nil {
		return xerr
	}

	sender, xerr := ctrler.findOrNewAccount(ctrler.tokenState, from)
	if xerr != nil {
		return xerr
	}
	if xerr := sender.SubBalance(amt); xerr != nil {
		return xerr
	}
	if xerr := ctrler.tokenState.Set(v1.LedgerKeyTokenAccount(from), sender); xerr != nil {
		return xerr
	}

	// `from` and `to` may be the same account.
	receiver, xerr := ctrler.findOrNewAccount(ctrler.tokenState, to)
	if xerr != nil {
		return xerr
	}
	if xerr := receiver.AddBalance(amt); xerr != nil {
		return xerr
	}
	return ctrler.tokenState.Set(v1.LedgerKeyTokenAccount(to), receiver)
}

// atomically reverts every change made by fn if it fails.
func (ctrler *TokenCtrler) atomically(fn func() xerrors.XError) xerrors.XError {
	snap := ctrler.tokenState.Snapshot()
	if xerr := fn(); xerr != nil {
		if rerr := ctrler.tokenState.RevertToSnapshot(snap); rerr != nil {
			ctrler.logger.Error("fail to revert", "error", rerr.Error())
			return rerr.Wrap(xerr)
		}
		ctrler.logger.Debug("token call failed", "error", xerr.Error())
		return xerr
	}
	return nil
}

// findOrNewAccount returns an empty account if `addr` has never been used.
// Other ledger errors are returned as they are.
func (ctrler *TokenCtrler) findOrNewAccount(ledger v1.IGettable, addr types.Address) (*TokenAccount, xerrors.XError) {
	item, xerr := ledger.Get(v1.LedgerKeyTokenAccount(addr))
	if xerr == xerrors.ErrNotFoundResult {
		return NewTokenAccount(addr), nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*TokenAccount), nil
}

func (ctrler *TokenCtrler) allowance(ledger v1.IGettable, owner, spender types.Address) (*Allowance, xerrors.XError) {
	item, xerr := ledger.Get(v1.LedgerKeyAllowance(owner, spender))
	if xerr == xerrors.ErrNotFoundResult {
		return &Allowance{Owner: owner, Spender: spender, Amount: uint256.NewInt(0)}, nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*Allowance), nil
}

func (ctrler *TokenCtrler) tokenInfo(ledger v1.IGettable) (*TokenInfo, xerrors.XError) {
	item, xerr := ledger.Get(v1.LedgerKeyTokenInfo())
	if xerr == xerrors.ErrNotFoundResult {
		return &TokenInfo{Name: ctrler.name, TotalSupply: uint256.NewInt(0)}, nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*TokenInfo), nil
}

func (ctrler *TokenCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.tokenState.Commit()
}

func (ctrler *TokenCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.tokenState != nil {
		if xerr := ctrler.tokenState.Close(); xerr != nil {
			ctrler.logger.Error("tokenState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.tokenState = nil
	}
	return nil
}

func validateAddrs(addrs ...types.Address) xerrors.XError {
	for _, addr := range addrs {
		if xerr := types.ValidateAddress(addr); xerr != nil {
			return xerr
		}
	}
	return nil
}

var _ ctrlertypes.ITokenHandler = (*TokenCtrler)(nil)
var _ ctrlertypes.ILedgerHandler = (*TokenCtrler)(nil)
