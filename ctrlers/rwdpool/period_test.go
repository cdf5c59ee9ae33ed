package rwdpool

import (
	"testing"

	cfg "github.com/beatoz/beatoz-rwdpool/cmd/config"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestCreatePeriod(t *testing.T) {
	pool := newTestPool(t, nil)

	id := pool.fund(t, 1000, t0, t0+1000, t0)
	require.Equal(t, uint64(0), id)
	require.Equal(t, uint64(1), pool.PeriodsCount())
	require.Equal(t, uint256.NewInt(1000), pool.RewardBalance())
	require.Equal(t, uint256.NewInt(1000), pool.rewardToken.BalanceOf(pool.PoolAddress()))

	p, xerr := pool.Period(id)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(1000), p.Reward)
	require.Equal(t, uint256.NewInt(1), p.Rate)
	require.Equal(t, t0, p.Start)
	require.Equal(t, t0+1000, p.End)
	require.True(t, p.Emitted.IsZero())

	// adjacent periods are allowed.
	id = pool.fund(t, 3000, t0+1000, t0+2000, t0+10)
	require.Equal(t, uint64(1), id)
	require.Equal(t, uint256.NewInt(4000), pool.RewardBalance())

	periods, xerr := pool.Periods()
	require.NoError(t, xerr)
	require.Len(t, periods, 2)
	require.Equal(t, uint256.NewInt(3), periods[1].Rate)

	_, xerr = pool.Period(2)
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundPeriod)
}

func TestCreatePeriod_Errors(t *testing.T) {
	pool := newTestPool(t, nil)
	funder := types.RandAddress()
	pool.rewardToken.Mint(funder, uint256.NewInt(10_000))

	_, xerr := pool.CreatePeriod(funder, uint256.NewInt(0), t0, t0+1000, t0)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidRewardAmount)

	_, xerr = pool.CreatePeriod(funder, uint256.NewInt(1000), t0, t0, t0)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidRewardInterval)

	_, xerr = pool.CreatePeriod(funder, uint256.NewInt(1000), t0+10, t0, t0)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidRewardInterval)

	// already over
	_, xerr = pool.CreatePeriod(funder, uint256.NewInt(1000), t0, t0+1000, t0+1000)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidRewardInterval)

	_, xerr = pool.CreatePeriod(types.Address{0x01}, uint256.NewInt(1000), t0, t0+1000, t0)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidAddress)

	// not approved
	_, xerr = pool.CreatePeriod(funder, uint256.NewInt(1000), t0, t0+1000, t0)
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientAllowance)
	require.Equal(t, uint64(0), pool.PeriodsCount())
	require.True(t, pool.RewardBalance().IsZero())

	require.NoError(t, pool.rewardToken.Approve(funder, pool.PoolAddress(), uint256.NewInt(20_000)))
	_, xerr = pool.CreatePeriod(funder, uint256.NewInt(1000), t0, t0+1000, t0)
	require.NoError(t, xerr)

	// overlaps the previous period
	_, xerr = pool.CreatePeriod(funder, uint256.NewInt(1000), t0+999, t0+2000, t0)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidPeriodStart)
	require.Equal(t, uint64(1), pool.PeriodsCount())

	// more than the balance of the funder
	_, xerr = pool.CreatePeriod(funder, uint256.NewInt(9001), t0+1000, t0+2000, t0)
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientBalance)
	require.Equal(t, uint64(1), pool.PeriodsCount())
	require.Equal(t, uint256.NewInt(9000), pool.rewardToken.BalanceOf(funder))
}

func TestCreatePeriod_PastStart(t *testing.T) {
	pool := newTestPool(t, nil)
	x := types.RandAddress()
	id := pool.open(t, x, 10, t0-100)

	// [t0, t0+500) is already past and is not credited to anyone.
	pool.fund(t, 1000, t0, t0+1000, t0+500)
	require.Equal(t, uint64(0), pool.claimable(t, x, t0+500))
	require.Equal(t, uint64(250), pool.claimable(t, x, t0+750))

	require.NoError(t, pool.CloseStake(x, id, t0+1000))
	require.Equal(t, uint64(500), pool.claim(t, x, t0+1000))
	require.Equal(t, uint256.NewInt(500), pool.RewardBalance())
	require.Equal(t, uint256.NewInt(500), pool.rewardToken.BalanceOf(pool.PoolAddress()))
}

func TestCreatePeriod_Admin(t *testing.T) {
	admin := types.RandAddress()
	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	config.RewardPool.AdminAddress = admin.String()
	pool := newTestPool(t, config)

	other := types.RandAddress()
	for _, addr := range []types.Address{admin, other} {
		pool.rewardToken.Mint(addr, uint256.NewInt(1000))
		require.NoError(t, pool.rewardToken.Approve(addr, pool.PoolAddress(), uint256.NewInt(1000)))
	}

	_, xerr := pool.CreatePeriod(other, uint256.NewInt(1000), t0, t0+1000, t0)
	require.ErrorIs(t, xerr, xerrors.ErrUnauthorized)
	require.Equal(t, 0, pool.rewardToken.TransferFromCnt)

	id, xerr := pool.CreatePeriod(admin, uint256.NewInt(1000), t0, t0+1000, t0)
	require.NoError(t, xerr)
	require.Equal(t, uint64(0), id)
}

func TestCurrentPeriodID(t *testing.T) {
	pool := newTestPool(t, nil)

	_, ok := pool.CurrentPeriodID(t0)
	require.False(t, ok)

	pool.fund(t, 1000, t0, t0+100, t0)
	pool.fund(t, 500, t0+200, t0+300, t0)

	tests := []struct {
		now int64
		id  uint64
		ok  bool
	}{
		{t0 - 1, 0, false},
		{t0, 0, true},
		{t0 + 99, 0, true},
		{t0 + 100, 0, false},
		{t0 + 150, 0, false},
		{t0 + 200, 1, true},
		{t0 + 299, 1, true},
		{t0 + 300, 0, false},
	}
	for _, tc := range tests {
		id, ok := pool.CurrentPeriodID(tc.now)
		require.Equal(t, tc.ok, ok, "now: %d", tc.now)
		if tc.ok {
			require.Equal(t, tc.id, id, "now: %d", tc.now)
		}
	}
}
