package rwdpool

import (
	v1 "github.com/beatoz/beatoz-rwdpool/ledger/v1"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
)

// Deposit transfers `amount` stake tokens of `owner` to the free balance of `owner` in the pool.
// Deposited tokens earn nothing until they are staked by StartStake.
func (ctrler *PoolCtrler) Deposit(owner types.Address, amount *uint256.Int) xerrors.XError {
	if xerr := ctrler.lock(); xerr != nil {
		return xerr
	}
	defer ctrler.mtx.Unlock()

	if xerr := validateStakeArgs(owner, amount); xerr != nil {
		return xerr
	}

	return ctrler.execute("deposit", func() xerrors.XError {
		if xerr := ctrler.deposit(owner, amount); xerr != nil {
			return xerr
		}
		return ctrler.pull(ctrler.stakeToken, owner, amount)
	})
}

// Withdraw transfers `amount` from the free balance of `owner` in the pool back to `owner`.
func (ctrler *PoolCtrler) Withdraw(owner types.Address, amount *uint256.Int) xerrors.XError {
	if xerr := ctrler.lock(); xerr != nil {
		return xerr
	}
	defer ctrler.mtx.Unlock()

	if xerr := validateStakeArgs(owner, amount); xerr != nil {
		return xerr
	}

	return ctrler.execute("withdraw", func() xerrors.XError {
		if xerr := ctrler.withdraw(owner, amount); xerr != nil {
			return xerr
		}
		return ctrler.push(ctrler.stakeToken, owner, amount)
	})
}

// StartStake stakes `amount` out of the free balance of `owner`.
func (ctrler *PoolCtrler) StartStake(owner types.Address, amount *uint256.Int, now int64) (uint64, xerrors.XError) {
	if xerr := ctrler.lock(); xerr != nil {
		return 0, xerr
	}
	defer ctrler.mtx.Unlock()

	if xerr := validateStakeArgs(owner, amount); xerr != nil {
		return 0, xerr
	}

	var id uint64
	xerr := ctrler.execute("start_stake", func() xerrors.XError {
		stk, xerr := ctrler.startStake(owner, amount, now)
		if xerr != nil {
			return xerr
		}
		id = stk.ID
		return nil
	})
	if xerr != nil {
		return 0, xerr
	}
	return id, nil
}

// EndStake closes the stake `id` of `owner`. Its amount returns to the free balance of `owner`.
func (ctrler *PoolCtrler) EndStake(owner types.Address, id uint64, now int64) xerrors.XError {
	if xerr := ctrler.lock(); xerr != nil {
		return xerr
	}
	defer ctrler.mtx.Unlock()

	if xerr := types.ValidateAddress(owner); xerr != nil {
		return xerr
	}

	return ctrler.execute("end_stake", func() xerrors.XError {
		_, xerr := ctrler.endStake(owner, id, now)
		return xerr
	})
}

// Balance is the free balance of `owner` in the pool.
func (ctrler *PoolCtrler) Balance(owner types.Address) *uint256.Int {
	if xerr := ctrler.rlock(); xerr != nil {
		ctrler.logger.Error("lock failed", "error", xerr.Error())
		return uint256.NewInt(0)
	}
	defer ctrler.mtx.RUnlock()

	staker, xerr := ctrler.getStaker(ctrler.poolState, owner)
	if xerr != nil {
		return uint256.NewInt(0)
	}
	return staker.Balance
}

func (ctrler *PoolCtrler) deposit(owner types.Address, amount *uint256.Int) xerrors.XError {
	staker, xerr := ctrler.getStaker(ctrler.poolState, owner)
	if xerr != nil {
		return xerr
	}
	balance, overflow := new(uint256.Int).AddOverflow(staker.Balance, amount)
	if overflow {
		return xerrors.ErrOverFlow.Wrapf("pool balance of %v", owner)
	}
	staker.Balance = balance
	return ctrler.poolState.Set(v1.LedgerKeyStaker(owner), staker)
}

func (ctrler *PoolCtrler) withdraw(owner types.Address, amount *uint256.Int) xerrors.XError {
	staker, xerr := ctrler.getStaker(ctrler.poolState, owner)
	if xerr != nil {
		return xerr
	}
	if staker.Balance.Lt(amount) {
		return xerrors.ErrInsufficientBalance.Wrapf("pool balance of %v: %v, withdrawal: %v", owner, staker.Balance.Dec(), amount.Dec())
	}
	staker.Balance = new(uint256.Int).Sub(staker.Balance, amount)
	return ctrler.poolState.Set(v1.LedgerKeyStaker(owner), staker)
}
