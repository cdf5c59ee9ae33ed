package rwdpool

import (
	"testing"

	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestOpenCloseStake(t *testing.T) {
	pool := newTestPool(t, nil)
	pool.fund(t, 1000, t0, t0+1000, t0)
	x := types.RandAddress()

	id0 := pool.open(t, x, 10, t0)
	id1 := pool.open(t, x, 30, t0+100)
	require.Equal(t, uint64(0), id0)
	require.Equal(t, uint64(1), id1)
	require.Equal(t, uint256.NewInt(40), pool.StakedBalance(x))
	require.Equal(t, uint256.NewInt(40), pool.TotalWeight())
	require.Equal(t, uint256.NewInt(40), pool.stakeToken.BalanceOf(pool.PoolAddress()))
	require.True(t, pool.stakeToken.BalanceOf(x).IsZero())
	require.True(t, pool.Balance(x).IsZero())

	stk, xerr := pool.Stake(x, id1)
	require.NoError(t, xerr)
	require.Equal(t, t0+100, stk.OpenTime)
	// 1 reward/sec * 100 sec / 10 weight
	require.Equal(t, scaled(10), stk.Checkpoint)
	require.True(t, stk.Accrued.IsZero())

	require.NoError(t, pool.CloseStake(x, id0, t0+200))
	require.Equal(t, uint256.NewInt(30), pool.StakedBalance(x))
	require.Equal(t, uint256.NewInt(30), pool.TotalWeight())
	require.Equal(t, uint256.NewInt(10), pool.stakeToken.BalanceOf(x))
	require.True(t, pool.Balance(x).IsZero())

	stk, xerr = pool.Stake(x, id0)
	require.NoError(t, xerr)
	require.False(t, stk.IsOpen())
	require.Equal(t, t0+200, stk.CloseTime)
	// 100 + 100/4
	require.Equal(t, uint256.NewInt(125), stk.Accrued)

	open, xerr := pool.OpenStakesOf(x)
	require.NoError(t, xerr)
	require.Len(t, open, 1)
	require.Equal(t, id1, open[0].ID)

	all, xerr := pool.AllStakesOf(x)
	require.NoError(t, xerr)
	require.Len(t, all, 2)
	require.Equal(t, id0, all[0].ID)
	require.Equal(t, id1, all[1].ID)

	none, xerr := pool.AllStakesOf(types.RandAddress())
	require.NoError(t, xerr)
	require.Empty(t, none)
}

func TestStake_Errors(t *testing.T) {
	pool := newTestPool(t, nil)
	pool.fund(t, 1000, t0, t0+1000, t0)
	x, y := types.RandAddress(), types.RandAddress()

	_, xerr := pool.OpenStake(x, uint256.NewInt(0), t0)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidStakeAmount)

	_, xerr = pool.OpenStake(types.Address{0x01, 0x02}, uint256.NewInt(1), t0)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidAddress)

	// not approved
	pool.stakeToken.Mint(x, uint256.NewInt(10))
	_, xerr = pool.OpenStake(x, uint256.NewInt(10), t0)
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientAllowance)
	require.True(t, pool.TotalWeight().IsZero())

	// more than the balance of the owner
	require.NoError(t, pool.stakeToken.Approve(x, pool.PoolAddress(), uint256.NewInt(100)))
	_, xerr = pool.OpenStake(x, uint256.NewInt(11), t0)
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientBalance)
	require.True(t, pool.TotalWeight().IsZero())
	require.True(t, pool.Balance(x).IsZero())

	all, xerr := pool.AllStakesOf(x)
	require.NoError(t, xerr)
	require.Empty(t, all)

	id := pool.open(t, x, 10, t0)

	require.ErrorIs(t, pool.CloseStake(x, id+1, t0+10), xerrors.ErrNoActiveStake)
	// stake ids are scoped to the owner.
	require.ErrorIs(t, pool.CloseStake(y, id, t0+10), xerrors.ErrNoActiveStake)

	require.NoError(t, pool.CloseStake(x, id, t0+10))
	require.ErrorIs(t, pool.CloseStake(x, id, t0+20), xerrors.ErrNoActiveStake)
	require.ErrorIs(t, pool.EndStake(x, id, t0+20), xerrors.ErrNoActiveStake)
}

func TestCloseStake_RevertOnTransferFailure(t *testing.T) {
	pool := newTestPool(t, nil)
	pool.fund(t, 1000, t0, t0+1000, t0)
	x := types.RandAddress()
	id := pool.open(t, x, 10, t0)

	before, xerr := pool.getPoolState(pool.poolState)
	require.NoError(t, xerr)

	pool.stakeToken.FailNext(xerrors.ErrInsufficientBalance)
	require.ErrorIs(t, pool.CloseStake(x, id, t0+500), xerrors.ErrInsufficientBalance)

	after, xerr := pool.getPoolState(pool.poolState)
	require.NoError(t, xerr)
	require.Equal(t, before, after)

	stk, xerr := pool.Stake(x, id)
	require.NoError(t, xerr)
	require.True(t, stk.IsOpen())
	require.True(t, stk.Accrued.IsZero())
	require.Equal(t, uint256.NewInt(10), pool.StakedBalance(x))
	require.True(t, pool.Balance(x).IsZero())

	p, xerr := pool.Period(0)
	require.NoError(t, xerr)
	require.True(t, p.Emitted.IsZero())

	// the same call succeeds once the token does.
	require.NoError(t, pool.CloseStake(x, id, t0+500))
	require.Equal(t, uint64(500), pool.claimable(t, x, t0+900))
}

func TestPoolWallet(t *testing.T) {
	pool := newTestPool(t, nil)
	pool.fund(t, 1000, t0, t0+1000, t0)
	x := types.RandAddress()

	pool.stakeToken.Mint(x, uint256.NewInt(100))
	require.NoError(t, pool.stakeToken.Approve(x, pool.PoolAddress(), uint256.NewInt(100)))

	require.ErrorIs(t, pool.Deposit(x, uint256.NewInt(0)), xerrors.ErrInvalidStakeAmount)
	require.NoError(t, pool.Deposit(x, uint256.NewInt(100)))
	require.Equal(t, uint256.NewInt(100), pool.Balance(x))
	require.True(t, pool.StakedBalance(x).IsZero())
	require.True(t, pool.TotalWeight().IsZero())

	_, xerr := pool.StartStake(x, uint256.NewInt(101), t0)
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientBalance)

	id, xerr := pool.StartStake(x, uint256.NewInt(50), t0)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(50), pool.Balance(x))
	require.Equal(t, uint256.NewInt(50), pool.StakedBalance(x))
	require.Equal(t, uint256.NewInt(50), pool.TotalWeight())

	require.ErrorIs(t, pool.Withdraw(x, uint256.NewInt(51)), xerrors.ErrInsufficientBalance)
	require.NoError(t, pool.Withdraw(x, uint256.NewInt(50)))
	require.True(t, pool.Balance(x).IsZero())
	require.Equal(t, uint256.NewInt(50), pool.stakeToken.BalanceOf(x))

	require.NoError(t, pool.EndStake(x, id, t0+100))
	require.Equal(t, uint256.NewInt(50), pool.Balance(x))
	require.True(t, pool.StakedBalance(x).IsZero())
	require.True(t, pool.TotalWeight().IsZero())
	// the tokens stay in the pool until they are withdrawn.
	require.Equal(t, uint256.NewInt(50), pool.stakeToken.BalanceOf(pool.PoolAddress()))
	require.Equal(t, uint64(100), pool.claimable(t, x, t0+100))

	require.NoError(t, pool.Withdraw(x, uint256.NewInt(50)))
	require.Equal(t, uint256.NewInt(100), pool.stakeToken.BalanceOf(x))
}
