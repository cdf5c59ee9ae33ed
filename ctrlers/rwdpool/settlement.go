package rwdpool

import (
	v1 "github.com/beatoz/beatoz-rwdpool/ledger/v1"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
)

// RewardProjection is the reward of one stake as it would be settled at a given time.
type RewardProjection struct {
	StakeID     uint64       `json:"stakeId"`
	Reward      *uint256.Int `json:"reward"`
	Rate        *uint256.Int `json:"rate"`
	StakeAmount *uint256.Int `json:"stakeAmount"`
	Weight      *uint256.Int `json:"weight"`
	TotalWeight *uint256.Int `json:"totalWeight"`
	Interval    int64        `json:"interval"`
}

// ClaimableReward returns the reward `owner` would receive from ClaimReward at `now`.
func (ctrler *PoolCtrler) ClaimableReward(owner types.Address, now int64) (*uint256.Int, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	return ctrler.claimable(ctrler.poolState, owner, now)
}

// ClaimReward settles every stake of `owner` and transfers the accrued reward to `owner`.
// It returns the transferred amount, which is zero if nothing has accrued.
func (ctrler *PoolCtrler) ClaimReward(owner types.Address, now int64) (*uint256.Int, xerrors.XError) {
	if xerr := ctrler.lock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.Unlock()

	if xerr := types.ValidateAddress(owner); xerr != nil {
		return nil, xerr
	}

	claimable, xerr := ctrler.claimable(ctrler.poolState, owner, now)
	if xerr != nil {
		return nil, xerr
	}
	if claimable.IsZero() {
		return claimable, nil
	}

	total := uint256.NewInt(0)
	xerr = ctrler.execute("claim_reward", func() xerrors.XError {
		state, xerr := ctrler.advance(now)
		if xerr != nil {
			return xerr
		}
		stakes, xerr := ctrler.stakesOf(ctrler.poolState, owner)
		if xerr != nil {
			return xerr
		}
		for _, stk := range stakes {
			if stk.IsOpen() {
				settle(stk, state.RewardPerWeight)
			}
			if stk.Accrued.IsZero() {
				continue
			}
			total.Add(total, stk.Accrued)
			stk.Paid = new(uint256.Int).Add(stk.Paid, stk.Accrued)
			stk.Accrued = uint256.NewInt(0)
			if xerr := ctrler.poolState.Set(v1.LedgerKeyStake(owner, stk.ID), stk); xerr != nil {
				return xerr
			}
		}

		staker, xerr := ctrler.getStaker(ctrler.poolState, owner)
		if xerr != nil {
			return xerr
		}
		staker.RewardsPaid = new(uint256.Int).Add(staker.RewardsPaid, total)
		if xerr := ctrler.poolState.Set(v1.LedgerKeyStaker(owner), staker); xerr != nil {
			return xerr
		}
		state.TotalPaid = new(uint256.Int).Add(state.TotalPaid, total)
		if xerr := ctrler.poolState.Set(v1.LedgerKeyPoolState(), state); xerr != nil {
			return xerr
		}

		if xerr := ctrler.push(ctrler.rewardToken, owner, total); xerr != nil {
			return xerr
		}
		ctrler.logger.Debug("claim reward", "owner", owner, "amount", total.Dec(), "totalPaid", state.TotalPaid.Dec())
		return nil
	})
	if xerr != nil {
		return nil, xerr
	}
	return total, nil
}

// CalculateReward projects the stake `id` of `owner` to `now` without saving anything.
func (ctrler *PoolCtrler) CalculateReward(owner types.Address, id uint64, now int64) (*RewardProjection, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	return ctrler.calculateReward(ctrler.poolState, owner, id, now)
}

// Accumulator returns the pool state as it would be at `now`.
func (ctrler *PoolCtrler) Accumulator(now int64) (*PoolState, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	return ctrler.project(ctrler.poolState, now)
}

func (ctrler *PoolCtrler) claimable(ledger v1.IGettable, owner types.Address, now int64) (*uint256.Int, xerrors.XError) {
	state, xerr := ctrler.project(ledger, now)
	if xerr != nil {
		return nil, xerr
	}
	stakes, xerr := ctrler.stakesOf(ledger, owner)
	if xerr != nil {
		return nil, xerr
	}

	sum := uint256.NewInt(0)
	for _, stk := range stakes {
		sum.Add(sum, projectedReward(stk, state))
	}
	return sum, nil
}

func (ctrler *PoolCtrler) calculateReward(ledger v1.IGettable, owner types.Address, id uint64, now int64) (*RewardProjection, xerrors.XError) {
	stk, xerr := ctrler.getStake(ledger, owner, id)
	if xerr != nil {
		return nil, xerr
	}
	state, xerr := ctrler.project(ledger, now)
	if xerr != nil {
		return nil, xerr
	}
	current, xerr := ctrler.currentPeriod(ledger, now)
	if xerr != nil {
		return nil, xerr
	}

	rate := uint256.NewInt(0)
	if current != nil {
		rate = current.Rate.Clone()
	}
	weight := uint256.NewInt(0)
	until := stk.CloseTime
	if stk.IsOpen() {
		weight = stk.Amount.Clone()
		until = now
	}

	return &RewardProjection{
		StakeID:     stk.ID,
		Reward:      projectedReward(stk, state),
		Rate:        rate,
		StakeAmount: stk.Amount.Clone(),
		Weight:      weight,
		TotalWeight: state.TotalWeight.Clone(),
		Interval:    max(until-stk.OpenTime, 0),
	}, nil
}

// projectedReward is the accrued reward of `stk` after settling it against `state`.
// A closed stake was settled when it was closed.
func projectedReward(stk *Stake, state *PoolState) *uint256.Int {
	if !stk.IsOpen() {
		return stk.Accrued.Clone()
	}
	scratch := stk.clone()
	settle(scratch, state.RewardPerWeight)
	return scratch.Accrued
}
