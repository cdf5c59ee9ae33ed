package rwdpool

import (
	"sync"
	"sync/atomic"
	"time"

	cfg "github.com/beatoz/beatoz-rwdpool/cmd/config"
	ctrlertypes "github.com/beatoz/beatoz-rwdpool/ctrlers/types"
	v1 "github.com/beatoz/beatoz-rwdpool/ledger/v1"
	"github.com/beatoz/beatoz-rwdpool/metrics"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// PoolCtrler distributes funded reward periods to stakers in proportion to
// amount staked times time staked.
//
// Every public method holds the controller lock until it returns, including the
// calls into the token handlers. A method that fails leaves the ledger as it was.
// A token handler calling back into the pool gets ErrReentrant instead of a deadlock.
type PoolCtrler struct {
	poolState v1.IStateLedger

	rewardToken ctrlertypes.ITokenHandler
	stakeToken  ctrlertypes.ITokenHandler
	poolAddr    types.Address
	adminAddr   types.Address

	metrics *metrics.PoolMetrics
	logger  tmlog.Logger
	mtx     sync.RWMutex

	// set while a token handler is being called with mtx held.
	inTokenCall atomic.Bool
}

// reentryTimeout bounds how long a caller waits for the lock while a token call is in flight.
// A token handler calling back into the pool fails with ErrReentrant after it.
var reentryTimeout = time.Second

func NewPoolCtrler(config *cfg.Config, rewardToken, stakeToken ctrlertypes.ITokenHandler, logger tmlog.Logger) (*PoolCtrler, xerrors.XError) {
	lg := logger.With("module", "rwdpool_PoolCtrler")

	poolAddr, xerr := config.PoolAddress()
	if xerr != nil {
		return nil, xerr
	}
	adminAddr, xerr := config.AdminAddress()
	if xerr != nil {
		return nil, xerr
	}

	_state, xerr := v1.NewStateLedger("rwdpool", config.DBDir(), config.RewardPool.CacheSize, newItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}

	return &PoolCtrler{
		poolState:   _state,
		rewardToken: rewardToken,
		stakeToken:  stakeToken,
		poolAddr:    poolAddr,
		adminAddr:   adminAddr,
		logger:      lg,
	}, nil
}

// SetMetrics installs m. A nil m disables metrics.
func (ctrler *PoolCtrler) SetMetrics(m *metrics.PoolMetrics) {
	if xerr := ctrler.lock(); xerr != nil {
		ctrler.logger.Error("lock failed", "error", xerr.Error())
		return
	}
	defer ctrler.mtx.Unlock()

	ctrler.metrics = m
	if state, xerr := ctrler.getPoolState(ctrler.poolState); xerr == nil {
		m.SetState(state.TotalWeight, state.RewardPerWeight, state.TotalPaid, state.PeriodsCount)
	}
}

func (ctrler *PoolCtrler) PoolAddress() types.Address {
	return ctrler.poolAddr
}

func (ctrler *PoolCtrler) Version() int64 {
	if xerr := ctrler.rlock(); xerr != nil {
		ctrler.logger.Error("lock failed", "error", xerr.Error())
		return 0
	}
	defer ctrler.mtx.RUnlock()

	return ctrler.poolState.Version()
}

func (ctrler *PoolCtrler) Commit() ([]byte, int64, xerrors.XError) {
	if xerr := ctrler.lock(); xerr != nil {
		return nil, 0, xerr
	}
	defer ctrler.mtx.Unlock()

	return ctrler.poolState.Commit()
}

func (ctrler *PoolCtrler) Close() xerrors.XError {
	if xerr := ctrler.lock(); xerr != nil {
		return xerr
	}
	defer ctrler.mtx.Unlock()

	if ctrler.poolState != nil {
		if xerr := ctrler.poolState.Close(); xerr != nil {
			ctrler.logger.Error("poolState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.poolState = nil
	}
	return nil
}

func (ctrler *PoolCtrler) lock() xerrors.XError {
	return ctrler.acquire(ctrler.mtx.TryLock, ctrler.mtx.Lock)
}

func (ctrler *PoolCtrler) rlock() xerrors.XError {
	return ctrler.acquire(ctrler.mtx.TryRLock, ctrler.mtx.RLock)
}

// acquire blocks as usual unless a token call is in flight.
// Then the caller may be that token handler, so it polls until reentryTimeout.
func (ctrler *PoolCtrler) acquire(tryLock func() bool, lock func()) xerrors.XError {
	if tryLock() {
		return nil
	}
	if !ctrler.inTokenCall.Load() {
		lock()
		return nil
	}
	deadline := time.Now().Add(reentryTimeout)
	for !tryLock() {
		if time.Now().After(deadline) {
			return xerrors.ErrReentrant.Wrapf("the pool is calling a token handler")
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

// pull moves `amt` of `tok` from `from` to the pool.
func (ctrler *PoolCtrler) pull(tok ctrlertypes.ITokenHandler, from types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.inTokenCall.Store(true)
	defer ctrler.inTokenCall.Store(false)
	return tok.TransferFrom(ctrler.poolAddr, from, ctrler.poolAddr, amt)
}

// push moves `amt` of `tok` from the pool to `to`.
func (ctrler *PoolCtrler) push(tok ctrlertypes.ITokenHandler, to types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.inTokenCall.Store(true)
	defer ctrler.inTokenCall.Store(false)
	return tok.Transfer(ctrler.poolAddr, to, amt)
}

// execute runs fn as one atomic step.
// The ledger is reverted to its state before fn if fn returns an error.
func (ctrler *PoolCtrler) execute(op string, fn func() xerrors.XError) xerrors.XError {
	snap := ctrler.poolState.Snapshot()
	xerr := fn()
	if xerr != nil {
		if rerr := ctrler.poolState.RevertToSnapshot(snap); rerr != nil {
			ctrler.logger.Error("fail to revert", "op", op, "error", rerr.Error())
			xerr = rerr.Wrap(xerr)
		} else {
			ctrler.logger.Debug("operation failed", "op", op, "error", xerr.Error())
		}
	} else if state, _xerr := ctrler.getPoolState(ctrler.poolState); _xerr == nil {
		ctrler.metrics.SetState(state.TotalWeight, state.RewardPerWeight, state.TotalPaid, state.PeriodsCount)
	}
	ctrler.metrics.ObserveOp(op, xerr)
	return xerr
}

// advance brings the accumulator up to `now` and saves it with the periods it touched.
func (ctrler *PoolCtrler) advance(now int64) (*PoolState, xerrors.XError) {
	state, xerr := ctrler.getPoolState(ctrler.poolState)
	if xerr != nil {
		return nil, xerr
	}
	touched, xerr := catchUp(state, now, func(id uint64) (*RewardPeriod, xerrors.XError) {
		return ctrler.getPeriod(ctrler.poolState, id)
	})
	if xerr != nil {
		return nil, xerr
	}
	for _, p := range touched {
		if xerr := ctrler.poolState.Set(v1.LedgerKeyPeriod(p.ID), p); xerr != nil {
			return nil, xerr
		}
	}
	if xerr := ctrler.poolState.Set(v1.LedgerKeyPoolState(), state); xerr != nil {
		return nil, xerr
	}
	return state, nil
}

// project returns the accumulator as it would be at `now` without saving anything.
func (ctrler *PoolCtrler) project(ledger v1.IGettable, now int64) (*PoolState, xerrors.XError) {
	state, xerr := ctrler.getPoolState(ledger)
	if xerr != nil {
		return nil, xerr
	}
	if _, xerr := catchUp(state, now, func(id uint64) (*RewardPeriod, xerrors.XError) {
		return ctrler.getPeriod(ledger, id)
	}); xerr != nil {
		return nil, xerr
	}
	return state, nil
}

func (ctrler *PoolCtrler) getPoolState(ledger v1.IGettable) (*PoolState, xerrors.XError) {
	item, xerr := ledger.Get(v1.LedgerKeyPoolState())
	if xerr == xerrors.ErrNotFoundResult {
		return newPoolState(), nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*PoolState), nil
}

func (ctrler *PoolCtrler) getPeriod(ledger v1.IGettable, id uint64) (*RewardPeriod, xerrors.XError) {
	item, xerr := ledger.Get(v1.LedgerKeyPeriod(id))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundPeriod.Wrapf("period id: %d", id)
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*RewardPeriod), nil
}

func (ctrler *PoolCtrler) getStaker(ledger v1.IGettable, addr types.Address) (*Staker, xerrors.XError) {
	item, xerr := ledger.Get(v1.LedgerKeyStaker(addr))
	if xerr == xerrors.ErrNotFoundResult {
		return newStaker(addr), nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*Staker), nil
}

func (ctrler *PoolCtrler) getStake(ledger v1.IGettable, owner types.Address, id uint64) (*Stake, xerrors.XError) {
	item, xerr := ledger.Get(v1.LedgerKeyStake(owner, id))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundStake.Wrapf("owner: %v, stake id: %d", owner, id)
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*Stake), nil
}

// stakesOf returns all stakes of `owner` in the order of creation.
func (ctrler *PoolCtrler) stakesOf(ledger v1.IGettable, owner types.Address) ([]*Stake, xerrors.XError) {
	staker, xerr := ctrler.getStaker(ledger, owner)
	if xerr != nil {
		return nil, xerr
	}
	stakes := make([]*Stake, 0, staker.StakesCount)
	for id := uint64(0); id < staker.StakesCount; id++ {
		stk, xerr := ctrler.getStake(ledger, owner, id)
		if xerr != nil {
			return nil, xerr
		}
		stakes = append(stakes, stk)
	}
	return stakes, nil
}

func (ctrler *PoolCtrler) isAdmin(addr types.Address) bool {
	return ctrler.adminAddr == nil || addr.Compare(ctrler.adminAddr) == 0
}

var _ ctrlertypes.ILedgerHandler = (*PoolCtrler)(nil)
var _ ctrlertypes.IRewardPoolHandler = (*PoolCtrler)(nil)
