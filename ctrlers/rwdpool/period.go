package rwdpool

import (
	v1 "github.com/beatoz/beatoz-rwdpool/ledger/v1"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
)

// CreatePeriod appends a reward period funded with `reward` reward tokens of `funder`.
// The pool must be approved to spend `reward` on behalf of `funder`.
func (ctrler *PoolCtrler) CreatePeriod(funder types.Address, reward *uint256.Int, start, end, now int64) (uint64, xerrors.XError) {
	if xerr := ctrler.lock(); xerr != nil {
		return 0, xerr
	}
	defer ctrler.mtx.Unlock()

	if xerr := types.ValidateAddress(funder); xerr != nil {
		return 0, xerr
	}
	if !ctrler.isAdmin(funder) {
		return 0, xerrors.ErrUnauthorized.Wrapf("%v is not allowed to fund reward periods", funder)
	}
	if reward == nil || reward.IsZero() {
		return 0, xerrors.ErrInvalidRewardAmount
	}
	if end <= start {
		return 0, xerrors.ErrInvalidRewardInterval.Wrapf("start: %d, end: %d", start, end)
	}
	if end <= now {
		return 0, xerrors.ErrInvalidRewardInterval.Wrapf("the period ends(%d) before now(%d)", end, now)
	}

	var id uint64
	xerr := ctrler.execute("create_period", func() xerrors.XError {
		// the accumulator must not use the new period for the time before it is created.
		state, xerr := ctrler.advance(now)
		if xerr != nil {
			return xerr
		}
		if state.PeriodsCount > 0 {
			prev, xerr := ctrler.getPeriod(ctrler.poolState, state.PeriodsCount-1)
			if xerr != nil {
				return xerr
			}
			if start < prev.End {
				return xerrors.ErrInvalidPeriodStart.Wrapf("start(%d) is before the end(%d) of the previous period", start, prev.End)
			}
		}

		funded, overflow := new(uint256.Int).AddOverflow(state.TotalFunded, reward)
		if overflow {
			return xerrors.ErrOverFlow.Wrapf("total funded reward")
		}

		period := newRewardPeriod(state.PeriodsCount, funder, reward, start, end)
		state.TotalFunded = funded
		state.PeriodsCount++
		if xerr := ctrler.poolState.Set(v1.LedgerKeyPeriod(period.ID), period); xerr != nil {
			return xerr
		}
		if xerr := ctrler.poolState.Set(v1.LedgerKeyPoolState(), state); xerr != nil {
			return xerr
		}

		if xerr := ctrler.pull(ctrler.rewardToken, funder, reward); xerr != nil {
			return xerr
		}

		id = period.ID
		ctrler.logger.Debug("create reward period", "id", id, "funder", funder,
			"reward", reward.Dec(), "rate", period.Rate.Dec(), "start", start, "end", end)
		return nil
	})
	if xerr != nil {
		return 0, xerr
	}
	return id, nil
}

// CurrentPeriodID returns the period containing `now`.
// The second value is false if there is no such period.
func (ctrler *PoolCtrler) CurrentPeriodID(now int64) (uint64, bool) {
	if xerr := ctrler.rlock(); xerr != nil {
		ctrler.logger.Error("lock failed", "error", xerr.Error())
		return 0, false
	}
	defer ctrler.mtx.RUnlock()

	p, xerr := ctrler.currentPeriod(ctrler.poolState, now)
	if xerr != nil || p == nil {
		return 0, false
	}
	return p.ID, true
}

func (ctrler *PoolCtrler) currentPeriod(ledger v1.IGettable, now int64) (*RewardPeriod, xerrors.XError) {
	state, xerr := ctrler.getPoolState(ledger)
	if xerr != nil {
		return nil, xerr
	}
	// periods are sorted and never overlap.
	for id := state.PeriodsCount; id > 0; id-- {
		p, xerr := ctrler.getPeriod(ledger, id-1)
		if xerr != nil {
			return nil, xerr
		}
		if p.Contains(now) {
			return p, nil
		}
		if p.End <= now {
			break
		}
	}
	return nil, nil
}

func (ctrler *PoolCtrler) PeriodsCount() uint64 {
	if xerr := ctrler.rlock(); xerr != nil {
		ctrler.logger.Error("lock failed", "error", xerr.Error())
		return 0
	}
	defer ctrler.mtx.RUnlock()

	state, xerr := ctrler.getPoolState(ctrler.poolState)
	if xerr != nil {
		return 0
	}
	return state.PeriodsCount
}

func (ctrler *PoolCtrler) Period(id uint64) (*RewardPeriod, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	return ctrler.getPeriod(ctrler.poolState, id)
}

// Periods returns all periods in the order of creation.
func (ctrler *PoolCtrler) Periods() ([]*RewardPeriod, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	return ctrler.periods(ctrler.poolState)
}

func (ctrler *PoolCtrler) periods(ledger v1.IGettable) ([]*RewardPeriod, xerrors.XError) {
	state, xerr := ctrler.getPoolState(ledger)
	if xerr != nil {
		return nil, xerr
	}
	periods := make([]*RewardPeriod, 0, state.PeriodsCount)
	for id := uint64(0); id < state.PeriodsCount; id++ {
		p, xerr := ctrler.getPeriod(ledger, id)
		if xerr != nil {
			return nil, xerr
		}
		periods = append(periods, p)
	}
	return periods, nil
}
