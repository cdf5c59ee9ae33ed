package rwdpool

import (
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
)

// RewardPerWeightUnit scales the accumulator.
// A reward of 1 per unit of weight is stored as 1e18.
var RewardPerWeightUnit = uint256.NewInt(1_000_000_000_000_000_000)

type funcGetPeriod func(uint64) (*RewardPeriod, xerrors.XError)

// catchUp advances the accumulator of `state` to `now` one period at a time.
// Slices of time outside any period, or with no weight staked, move LastUpdate only.
// The periods whose statistics changed are returned and must be saved by the caller.
func catchUp(state *PoolState, now int64, getPeriod funcGetPeriod) ([]*RewardPeriod, xerrors.XError) {
	var touched []*RewardPeriod

	for state.LastUpdate < now {
		var period *RewardPeriod
		for state.PeriodCursor < state.PeriodsCount {
			p, xerr := getPeriod(state.PeriodCursor)
			if xerr != nil {
				return nil, xerr
			}
			if p.End > state.LastUpdate {
				period = p
				break
			}
			state.PeriodCursor++
		}

		if period == nil || period.Start >= now {
			// no period overlaps [LastUpdate, now)
			state.LastUpdate = now
			break
		}

		from, to := max(state.LastUpdate, period.Start), min(now, period.End)
		if !state.TotalWeight.IsZero() {
			inc, xerr := rewardPerWeightIncrement(period.Rate, to-from, state.TotalWeight)
			if xerr != nil {
				return nil, xerr
			}
			state.RewardPerWeight = new(uint256.Int).Add(state.RewardPerWeight, inc)
			period.RewardPerWeight = new(uint256.Int).Add(period.RewardPerWeight, inc)
			emitted := new(uint256.Int).Mul(period.Rate, uint256.NewInt(uint64(to-from)))
			period.Emitted = new(uint256.Int).Add(period.Emitted, emitted)
		}
		period.TotalStaked = state.TotalWeight.Clone()
		period.LastUpdated = to
		touched = append(touched, period)

		state.LastUpdate = to
		if to == period.End {
			state.PeriodCursor++
		}
	}
	return touched, nil
}

// rewardPerWeightIncrement returns floor(rate * window * RewardPerWeightUnit / totalWeight).
func rewardPerWeightIncrement(rate *uint256.Int, window int64, totalWeight *uint256.Int) (*uint256.Int, xerrors.XError) {
	// rate * window never exceeds the reward of the period.
	emission := new(uint256.Int).Mul(rate, uint256.NewInt(uint64(window)))
	inc, overflow := new(uint256.Int).MulDivOverflow(emission, RewardPerWeightUnit, totalWeight)
	if overflow {
		return nil, xerrors.ErrOverFlow.Wrapf("reward per weight increment: rate=%v, window=%v, totalWeight=%v",
			rate.Dec(), window, totalWeight.Dec())
	}
	return inc, nil
}

// accrual returns floor(amount * (rewardPerWeight - checkpoint) / RewardPerWeightUnit).
func accrual(amount, rewardPerWeight, checkpoint *uint256.Int) *uint256.Int {
	if !rewardPerWeight.Gt(checkpoint) {
		return uint256.NewInt(0)
	}
	delta := new(uint256.Int).Sub(rewardPerWeight, checkpoint)
	ret, overflow := new(uint256.Int).MulDivOverflow(amount, delta, RewardPerWeightUnit)
	if overflow {
		// amount * delta / 1e18 is bounded by the funded reward.
		panic("reward accrual overflow")
	}
	return ret
}

// settle moves the reward earned since the checkpoint of `stk` into Accrued.
// Calling it again with the same accumulator value changes nothing.
func settle(stk *Stake, rewardPerWeight *uint256.Int) *uint256.Int {
	delta := accrual(stk.Amount, rewardPerWeight, stk.Checkpoint)
	stk.Accrued = new(uint256.Int).Add(stk.Accrued, delta)
	stk.Checkpoint = rewardPerWeight.Clone()
	return delta
}
