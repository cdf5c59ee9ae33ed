package rwdpool

import (
	"time"

	v1 "github.com/beatoz/beatoz-rwdpool/ledger/v1"
	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

// RewardsStats is the reward summary of an account.
type RewardsStats struct {
	Claimable *uint256.Int `json:"claimable"`
	Paid      *uint256.Int `json:"paid"`
	// Rate is the reward emitted per second by the current period.
	Rate      *uint256.Int `json:"rate"`
	TotalPaid *uint256.Int `json:"totalPaid"`
}

// PoolInfo is the response of the `pool` query.
type PoolInfo struct {
	Address       types.Address `json:"address"`
	Version       int64         `json:"version"`
	RewardBalance *uint256.Int  `json:"rewardBalance"`
	State         *PoolState    `json:"state"`
}

// AccountBalance is the response of the `balance` query.
type AccountBalance struct {
	Address types.Address `json:"address"`
	Balance *uint256.Int  `json:"balance"`
	Staked  *uint256.Int  `json:"staked"`
}

// QueryParams is carried as JSON in RequestQuery.Data.
// A zero Now means the wall clock of the server.
type QueryParams struct {
	Address types.Address `json:"address,omitempty"`
	ID      uint64        `json:"id,omitempty"`
	Now     int64         `json:"now,omitempty"`
}

// RewardBalance is the funded reward held by the pool and not paid yet.
func (ctrler *PoolCtrler) RewardBalance() *uint256.Int {
	if xerr := ctrler.rlock(); xerr != nil {
		ctrler.logger.Error("lock failed", "error", xerr.Error())
		return uint256.NewInt(0)
	}
	defer ctrler.mtx.RUnlock()

	state, xerr := ctrler.getPoolState(ctrler.poolState)
	if xerr != nil {
		return uint256.NewInt(0)
	}
	return state.RewardBalance()
}

func (ctrler *PoolCtrler) RewardsStats(owner types.Address, now int64) (*RewardsStats, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	return ctrler.rewardsStats(ctrler.poolState, owner, now)
}

func (ctrler *PoolCtrler) rewardsStats(ledger v1.IGettable, owner types.Address, now int64) (*RewardsStats, xerrors.XError) {
	claimable, xerr := ctrler.claimable(ledger, owner, now)
	if xerr != nil {
		return nil, xerr
	}
	staker, xerr := ctrler.getStaker(ledger, owner)
	if xerr != nil {
		return nil, xerr
	}
	state, xerr := ctrler.getPoolState(ledger)
	if xerr != nil {
		return nil, xerr
	}
	current, xerr := ctrler.currentPeriod(ledger, now)
	if xerr != nil {
		return nil, xerr
	}

	rate := uint256.NewInt(0)
	if current != nil {
		rate = current.Rate
	}
	return &RewardsStats{
		Claimable: claimable,
		Paid:      staker.RewardsPaid,
		Rate:      rate,
		TotalPaid: state.TotalPaid,
	}, nil
}

// Query serves the read side of the pool at the committed version req.Height.
func (ctrler *PoolCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	if xerr := ctrler.rlock(); xerr != nil {
		return nil, xerr
	}
	defer ctrler.mtx.RUnlock()

	params := &QueryParams{}
	if len(req.Data) > 0 {
		if err := jsonx.Unmarshal(req.Data, params); err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
	}
	if params.Now == 0 {
		params.Now = time.Now().Unix()
	}

	immuLedger, xerr := ctrler.poolState.ImitableLedgerAt(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	version := req.Height
	if version <= 0 {
		version = ctrler.poolState.Version()
	}

	var resp interface{}
	switch req.Path {
	case "pool":
		state, xerr := ctrler.project(immuLedger, params.Now)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = &PoolInfo{
			Address:       ctrler.poolAddr,
			Version:       version,
			RewardBalance: state.RewardBalance(),
			State:         state,
		}
	case "period":
		p, xerr := ctrler.getPeriod(immuLedger, params.ID)
		if xerr != nil {
			return nil, xerr
		}
		resp = p
	case "periods":
		periods, xerr := ctrler.periods(immuLedger)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = periods
	case "period/current":
		p, xerr := ctrler.currentPeriod(immuLedger, params.Now)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		if p == nil {
			return nil, xerrors.ErrNotFoundPeriod.Wrapf("no period at %d", params.Now)
		}
		resp = p
	case "stakes":
		if xerr := types.ValidateAddress(params.Address); xerr != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(xerr)
		}
		stakes, xerr := ctrler.stakesOf(immuLedger, params.Address)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = stakes
	case "claimable":
		if xerr := types.ValidateAddress(params.Address); xerr != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(xerr)
		}
		claimable, xerr := ctrler.claimable(immuLedger, params.Address, params.Now)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = claimable
	case "reward":
		if xerr := types.ValidateAddress(params.Address); xerr != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(xerr)
		}
		proj, xerr := ctrler.calculateReward(immuLedger, params.Address, params.ID, params.Now)
		if xerr != nil {
			return nil, xerr
		}
		resp = proj
	case "stats":
		if xerr := types.ValidateAddress(params.Address); xerr != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(xerr)
		}
		stats, xerr := ctrler.rewardsStats(immuLedger, params.Address, params.Now)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = stats
	case "balance":
		if xerr := types.ValidateAddress(params.Address); xerr != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(xerr)
		}
		staker, xerr := ctrler.getStaker(immuLedger, params.Address)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = &AccountBalance{
			Address: params.Address,
			Balance: staker.Balance,
			Staked:  staker.Staked,
		}
	default:
		return nil, xerrors.ErrInvalidQueryPath.Wrapf("path: %s", req.Path)
	}

	raw, err := jsonx.Marshal(resp)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}
