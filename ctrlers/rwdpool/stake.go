package rwdpool

import (
	v1 "github.com/beatoz/beatoz-rwdpool/ledger/v1"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
)

// OpenStake transfers `amount` stake tokens of `owner` to the pool and stakes them.
// The pool must be approved to spend `amount` on behalf of `owner`.
func (ctrler *PoolCtrler) OpenStake(owner types.Address, amount *uint256.Int, now int64) (uint64, xerrors.XError) {
	if xerr := ctrler.lock(); xerr != nil {
		return 0, xerr
	}
	defer ctrler.mtx.Unlock()

	if xerr := validateStakeArgs(owner, amount); xerr != nil {
		return 0, xerr
	}

	var id uint64
	xerr := ctrler.execute("open_stake", func() xerrors.XError {
		if xerr := ctrler.deposit(owner, amount); xerr != nil {
			return xerr
		}
		stk, xerr := ctrler.startStake(owner, amount, now)
		if xerr != nil {
			return xerr
		}
		if xerr := ctrler.pull(ctrler.stakeToken, owner, amount); xerr != nil {
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

// CloseStake closes the stake `id` of `owner` and transfers its amount back to `owner`.
// The reward earned by the stake stays claimable.
func (ctrler *PoolCtrler) CloseStake(owner types.Address, id uint64, now int64) xerrors.XError {
	if xerr := ctrler.lock(); xerr != nil {
		return xerr
	}
	defer ctrler.mtx.Unlock()

	if xerr := types.ValidateAddress(owner); xerr != nil {
		return xerr
	}

	return ctrler.execute("close_stake", func() xerrors.XError {
		stk, xerr := ctrler.endStake(owner, id, now)
		if xerr != nil {
			return xerr
		}
		if xerr := ctrler.withdraw(owner, stk.Amount); xerr != nil {
			return xerr
		}
		return ctrler.push(ctrler.stakeToken, owner, stk.Amount)
	})
}

// OpenStakesOf returns the stakes of `owner` that are not closed, in the order of creation.
func (ctrler *PoolCtrler) OpenStakesOf(owner types.Address) ([]*Stake, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	stakes, xerr := ctrler.stakesOf(ctrler.poolState, owner)
	if xerr != nil {
		return nil, xerr
	}
	open := stakes[:0]
	for _, stk := range stakes {
		if stk.IsOpen() {
			open = append(open, stk)
		}
	}
	return open, nil
}

// AllStakesOf returns every stake of `owner`, open or closed, in the order of creation.
func (ctrler *PoolCtrler) AllStakesOf(owner types.Address) ([]*Stake, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	return ctrler.stakesOf(ctrler.poolState, owner)
}

func (ctrler *PoolCtrler) Stake(owner types.Address, id uint64) (*Stake, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	return ctrler.getStake(ctrler.poolState, owner, id)
}

// StakedBalance is the sum of the open stakes of `owner`.
func (ctrler *PoolCtrler) StakedBalance(owner types.Address) *uint256.Int {
	if xerr := ctrler.rlock(); xerr != nil {
		ctrler.logger.Error("lock failed", "error", xerr.Error())
		return uint256.NewInt(0)
	}
	defer ctrler.mtx.RUnlock()

	staker, xerr := ctrler.getStaker(ctrler.poolState, owner)
	if xerr != nil {
		return uint256.NewInt(0)
	}
	return staker.Staked
}

// TotalWeight is the sum of all open stakes.
func (ctrler *PoolCtrler) TotalWeight() *uint256.Int {
	if xerr := ctrler.rlock(); xerr != nil {
		ctrler.logger.Error("lock failed", "error", xerr.Error())
		return uint256.NewInt(0)
	}
	defer ctrler.mtx.RUnlock()

	state, xerr := ctrler.getPoolState(ctrler.poolState)
	if xerr != nil {
		return uint256.NewInt(0)
	}
	return state.TotalWeight
}

// startStake opens a stake funded by the free balance of `owner`.
func (ctrler *PoolCtrler) startStake(owner types.Address, amount *uint256.Int, now int64) (*Stake, xerrors.XError) {
	state, xerr := ctrler.advance(now)
	if xerr != nil {
		return nil, xerr
	}
	staker, xerr := ctrler.getStaker(ctrler.poolState, owner)
	if xerr != nil {
		return nil, xerr
	}
	if staker.Balance.Lt(amount) {
		return nil, xerrors.ErrInsufficientBalance.Wrapf("pool balance of %v: %v, stake amount: %v", owner, staker.Balance.Dec(), amount.Dec())
	}

	totalWeight, overflow := new(uint256.Int).AddOverflow(state.TotalWeight, amount)
	if overflow {
		return nil, xerrors.ErrOverFlow.Wrapf("total weight")
	}

	stk := &Stake{
		ID:         staker.StakesCount,
		Owner:      owner,
		Amount:     amount.Clone(),
		OpenTime:   now,
		Checkpoint: state.RewardPerWeight.Clone(),
		Accrued:    uint256.NewInt(0),
		Paid:       uint256.NewInt(0),
	}
	staker.StakesCount++
	staker.Balance = new(uint256.Int).Sub(staker.Balance, amount)
	staker.Staked = new(uint256.Int).Add(staker.Staked, amount)
	state.TotalWeight = totalWeight

	if xerr := ctrler.saveStake(stk, staker, state); xerr != nil {
		return nil, xerr
	}

	ctrler.logger.Debug("open stake", "owner", owner, "id", stk.ID, "amount", amount.Dec(),
		"totalWeight", state.TotalWeight.Dec(), "rewardPerWeight", state.RewardPerWeight.Dec())
	return stk, nil
}

// endStake settles and closes a stake. Its amount returns to the free balance of `owner`.
func (ctrler *PoolCtrler) endStake(owner types.Address, id uint64, now int64) (*Stake, xerrors.XError) {
	stk, xerr := ctrler.getStake(ctrler.poolState, owner, id)
	if xerr != nil {
		if xerr.Contains(xerrors.ErrNotFoundStake) {
			return nil, xerrors.ErrNoActiveStake.Wrap(xerr)
		}
		return nil, xerr
	}
	if !stk.IsOpen() {
		return nil, xerrors.ErrNoActiveStake.Wrapf("stake %d of %v is already closed at %d", id, owner, stk.CloseTime)
	}

	state, xerr := ctrler.advance(now)
	if xerr != nil {
		return nil, xerr
	}
	staker, xerr := ctrler.getStaker(ctrler.poolState, owner)
	if xerr != nil {
		return nil, xerr
	}

	settle(stk, state.RewardPerWeight)
	stk.CloseTime = now
	stk.Closed = true
	staker.Staked = new(uint256.Int).Sub(staker.Staked, stk.Amount)
	staker.Balance = new(uint256.Int).Add(staker.Balance, stk.Amount)
	state.TotalWeight = new(uint256.Int).Sub(state.TotalWeight, stk.Amount)

	if xerr := ctrler.saveStake(stk, staker, state); xerr != nil {
		return nil, xerr
	}

	ctrler.logger.Debug("close stake", "owner", owner, "id", id, "amount", stk.Amount.Dec(),
		"accrued", stk.Accrued.Dec(), "totalWeight", state.TotalWeight.Dec())
	return stk, nil
}

func (ctrler *PoolCtrler) saveStake(stk *Stake, staker *Staker, state *PoolState) xerrors.XError {
	if xerr := ctrler.poolState.Set(v1.LedgerKeyStake(stk.Owner, stk.ID), stk); xerr != nil {
		return xerr
	}
	if xerr := ctrler.poolState.Set(v1.LedgerKeyStaker(staker.Address), staker); xerr != nil {
		return xerr
	}
	return ctrler.poolState.Set(v1.LedgerKeyPoolState(), state)
}

func validateStakeArgs(owner types.Address, amount *uint256.Int) xerrors.XError {
	if xerr := types.ValidateAddress(owner); xerr != nil {
		return xerr
	}
	if amount == nil || amount.IsZero() {
		return xerrors.ErrInvalidStakeAmount
	}
	return nil
}
