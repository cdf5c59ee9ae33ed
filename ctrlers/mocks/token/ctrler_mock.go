package token

import (
	"sync"

	ctrlertypes "github.com/beatoz/beatoz-rwdpool/ctrlers/types"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
)

// TokenHandlerMock is an in-memory ITokenHandler.
// FailNext makes the next Transfer or TransferFrom return the given error without any effect.
type TokenHandlerMock struct {
	name       string
	balances   map[string]*uint256.Int
	allowances map[string]*uint256.Int
	failNext   xerrors.XError

	TransferCnt     int
	TransferFromCnt int

	mtx sync.Mutex
}

var _ ctrlertypes.ITokenHandler = (*TokenHandlerMock)(nil)

func NewTokenHandlerMock(name string) *TokenHandlerMock {
	return &TokenHandlerMock{
		name:       name,
		balances:   make(map[string]*uint256.Int),
		allowances: make(map[string]*uint256.Int),
	}
}

func (mock *TokenHandlerMock) Name() string {
	return mock.name
}

func (mock *TokenHandlerMock) Mint(to types.Address, amt *uint256.Int) {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.balances[string(to)] = new(uint256.Int).Add(mock.balanceOf(to), amt)
}

func (mock *TokenHandlerMock) FailNext(xerr xerrors.XError) {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.failNext = xerr
}

func (mock *TokenHandlerMock) BalanceOf(addr types.Address) *uint256.Int {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	return mock.balanceOf(addr).Clone()
}

func (mock *TokenHandlerMock) balanceOf(addr types.Address) *uint256.Int {
	if bal, ok := mock.balances[string(addr)]; ok {
		return bal
	}
	return uint256.NewInt(0)
}

func (mock *TokenHandlerMock) Transfer(from, to types.Address, amt *uint256.Int) xerrors.XError {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.TransferCnt++
	if xerr := mock.takeFailure(); xerr != nil {
		return xerr
	}
	return mock.transfer(from, to, amt)
}

func (mock *TokenHandlerMock) TransferFrom(spender, from, to types.Address, amt *uint256.Int) xerrors.XError {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.TransferFromCnt++
	if xerr := mock.takeFailure(); xerr != nil {
		return xerr
	}

	key := string(from) + string(spender)
	allowance, ok := mock.allowances[key]
	if !ok || allowance.Lt(amt) {
		return xerrors.ErrInsufficientAllowance
	}
	if xerr := mock.transfer(from, to, amt); xerr != nil {
		return xerr
	}
	mock.allowances[key] = new(uint256.Int).Sub(allowance, amt)
	return nil
}

func (mock *TokenHandlerMock) Approve(owner, spender types.Address, amt *uint256.Int) xerrors.XError {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.allowances[string(owner)+string(spender)] = amt.Clone()
	return nil
}

func (mock *TokenHandlerMock) Allowance(owner, spender types.Address) *uint256.Int {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	if allowance, ok := mock.allowances[string(owner)+string(spender)]; ok {
		return allowance.Clone()
	}
	return uint256.NewInt(0)
}

func (mock *TokenHandlerMock) transfer(from, to types.Address, amt *uint256.Int) xerrors.XError {
	bal := mock.balanceOf(from)
	if bal.Lt(amt) {
		return xerrors.ErrInsufficientBalance
	}
	mock.balances[string(from)] = new(uint256.Int).Sub(bal, amt)
	mock.balances[string(to)] = new(uint256.Int).Add(mock.balanceOf(to), amt)
	return nil
}

func (mock *TokenHandlerMock) takeFailure() xerrors.XError {
	xerr := mock.failNext
	mock.failNext = nil
	return xerr
}
