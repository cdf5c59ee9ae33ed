package rwdpool

import (
	"fmt"
	"sync"
	"testing"
	"time"

	cfg "github.com/beatoz/beatoz-rwdpool/cmd/config"
	tokenmock "github.com/beatoz/beatoz-rwdpool/ctrlers/mocks/token"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// run with -race
func TestPoolCtrler_ConcurrentReadWrite(t *testing.T) {
	const (
		writers = 8
		readers = 8
		now     = t0 + 500
	)

	pool := newTestPool(t, nil)
	pool.fund(t, 1000, t0, t0+1000, t0)
	x := types.RandAddress()
	pool.open(t, x, 10, t0)

	owners := make([]types.Address, writers)
	for i := range owners {
		owners[i] = types.RandAddress()
		pool.stakeToken.Mint(owners[i], uint256.NewInt(10))
		require.NoError(t, pool.stakeToken.Approve(owners[i], pool.PoolAddress(), uint256.NewInt(10)))
	}

	errCh := make(chan error, writers+readers)
	var wg sync.WaitGroup

	for _, owner := range owners {
		wg.Add(1)
		go func(owner types.Address) {
			defer wg.Done()
			if _, xerr := pool.OpenStake(owner, uint256.NewInt(10), now); xerr != nil {
				errCh <- xerr
				return
			}
			if _, xerr := pool.ClaimReward(owner, now); xerr != nil {
				errCh <- xerr
			}
		}(owner)
	}

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := uint256.NewInt(0)
			for j := 0; j < 50; j++ {
				state, xerr := pool.Accumulator(now)
				if xerr != nil {
					errCh <- xerr
					return
				}
				if state.RewardPerWeight.Lt(last) {
					errCh <- fmt.Errorf("rewardPerWeight decreased: %v -> %v", last, state.RewardPerWeight)
					return
				}
				last = state.RewardPerWeight
				if _, xerr := pool.ClaimableReward(x, now); xerr != nil {
					errCh <- xerr
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	require.Equal(t, uint256.NewInt(90), pool.TotalWeight())
	state, xerr := pool.Accumulator(now)
	require.NoError(t, xerr)
	// 1 reward/sec * 500 sec / 10 weight
	require.Equal(t, scaled(50), state.RewardPerWeight)
	require.Equal(t, uint64(500), pool.claimable(t, x, now))
	for _, owner := range owners {
		require.Equal(t, uint64(0), pool.claimable(t, owner, now))
		require.Equal(t, uint256.NewInt(10), pool.StakedBalance(owner))
	}
}

// reentrantToken calls back into the pool from Transfer.
type reentrantToken struct {
	*tokenmock.TokenHandlerMock
	pool  *PoolCtrler
	owner types.Address
	errs  []xerrors.XError
}

func (tok *reentrantToken) Transfer(from, to types.Address, amt *uint256.Int) xerrors.XError {
	_, xerr := tok.pool.ClaimableReward(tok.owner, t0+1000)
	tok.errs = append(tok.errs, xerr)
	_, xerr = tok.pool.OpenStake(tok.owner, uint256.NewInt(1), t0+1000)
	tok.errs = append(tok.errs, xerr)
	return tok.TokenHandlerMock.Transfer(from, to, amt)
}

func TestPoolCtrler_ReentrantToken(t *testing.T) {
	defer func(d time.Duration) { reentryTimeout = d }(reentryTimeout)
	reentryTimeout = 20 * time.Millisecond

	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	x := types.RandAddress()
	rewardToken := &reentrantToken{TokenHandlerMock: tokenmock.NewTokenHandlerMock("reward"), owner: x}
	stakeToken := tokenmock.NewTokenHandlerMock("stake")

	ctrler, xerr := NewPoolCtrler(config, rewardToken, stakeToken, log.NewNopLogger())
	require.NoError(t, xerr)
	t.Cleanup(func() { _ = ctrler.Close() })
	rewardToken.pool = ctrler

	funder := types.RandAddress()
	rewardToken.Mint(funder, uint256.NewInt(1000))
	require.NoError(t, rewardToken.Approve(funder, ctrler.PoolAddress(), uint256.NewInt(1000)))
	_, xerr = ctrler.CreatePeriod(funder, uint256.NewInt(1000), t0, t0+1000, t0)
	require.NoError(t, xerr)

	stakeToken.Mint(x, uint256.NewInt(11))
	require.NoError(t, stakeToken.Approve(x, ctrler.PoolAddress(), uint256.NewInt(11)))
	_, xerr = ctrler.OpenStake(x, uint256.NewInt(10), t0)
	require.NoError(t, xerr)

	done := make(chan struct{})
	var claimed *uint256.Int
	go func() {
		defer close(done)
		claimed, xerr = ctrler.ClaimReward(x, t0+1000)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "ClaimReward is blocked by the reentrant token")
	}

	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(1000), claimed)
	require.Len(t, rewardToken.errs, 2)
	for _, err := range rewardToken.errs {
		require.ErrorIs(t, err, xerrors.ErrReentrant)
	}
	require.Equal(t, uint256.NewInt(1000), rewardToken.BalanceOf(x))

	// the rejected callbacks left nothing behind and the lock is free again.
	require.Equal(t, uint256.NewInt(10), ctrler.TotalWeight())
	amt, xerr := ctrler.ClaimableReward(x, t0+1000)
	require.NoError(t, xerr)
	require.True(t, amt.IsZero())
	_, xerr = ctrler.OpenStake(x, uint256.NewInt(1), t0+1000)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(11), ctrler.TotalWeight())
}
