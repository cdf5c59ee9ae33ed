package node

import (
	"testing"

	cfg "github.com/beatoz/beatoz-rwdpool/cmd/config"
	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/containerd/continuity/fs"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const t0 = int64(1_700_000_000)

func newTestApp(t *testing.T, config *cfg.Config) *PoolApp {
	app, xerr := NewPoolApp(config, log.NewNopLogger())
	require.NoError(t, xerr)
	return app
}

func TestPoolApp_CommitAndReopen(t *testing.T) {
	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	app := newTestApp(t, config)

	funder, staker := types.RandAddress(), types.RandAddress()
	poolAddr := app.Pool().PoolAddress()

	require.NoError(t, app.RewardToken().Mint(funder, uint256.NewInt(1000)))
	require.NoError(t, app.RewardToken().Approve(funder, poolAddr, uint256.NewInt(1000)))
	_, xerr := app.Pool().CreatePeriod(funder, uint256.NewInt(1000), t0, t0+1000, t0)
	require.NoError(t, xerr)

	require.NoError(t, app.StakeToken().Mint(staker, uint256.NewInt(50)))
	require.NoError(t, app.StakeToken().Approve(staker, poolAddr, uint256.NewInt(50)))
	_, xerr = app.Pool().OpenStake(staker, uint256.NewInt(50), t0)
	require.NoError(t, xerr)

	hash, ver, xerr := app.Commit()
	require.NoError(t, xerr)
	require.Len(t, hash, 32)
	require.Equal(t, int64(1), ver)

	claimed, xerr := app.Pool().ClaimReward(staker, t0+100)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(100), claimed)
	_, ver, xerr = app.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(2), ver)
	require.NoError(t, app.Stop())

	// reopen a copy of the committed data
	copied := cfg.DefaultConfig().SetRoot(t.TempDir())
	require.NoError(t, fs.CopyDir(copied.RootDir, config.RootDir))

	app = newTestApp(t, copied)
	defer func() { require.NoError(t, app.Stop()) }()

	require.Equal(t, uint256.NewInt(100), app.RewardToken().BalanceOf(staker))
	require.Equal(t, uint256.NewInt(900), app.RewardToken().BalanceOf(poolAddr))
	require.Equal(t, uint256.NewInt(50), app.StakeToken().BalanceOf(poolAddr))
	require.Equal(t, uint256.NewInt(900), app.Pool().RewardBalance())
	require.Equal(t, int64(2), app.Pool().Version())

	last := app.LastCommit()
	require.NotNil(t, last)
	require.Equal(t, int64(2), last.Version)
	require.Len(t, last.AppHash, 32)
}

func TestPoolApp_OutOfSync(t *testing.T) {
	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	app := newTestApp(t, config)
	require.Nil(t, app.LastCommit())

	_, _, xerr := app.Commit()
	require.NoError(t, xerr)

	// the reward token goes ahead of the others
	require.NoError(t, app.RewardToken().Mint(types.RandAddress(), uint256.NewInt(1)))
	_, _, xerr = app.RewardToken().Commit()
	require.NoError(t, xerr)
	require.NoError(t, app.Stop())

	_, xerr = NewPoolApp(config, log.NewNopLogger())
	require.ErrorIs(t, xerr, xerrors.ErrCommit)
}

func TestCheckVersions(t *testing.T) {
	require.NoError(t, checkVersions(nil, 0, 0, 0))
	require.Error(t, checkVersions(nil, 0, 1, 0))
	require.NoError(t, checkVersions(&CommitInfo{Version: 3}, 3, 3))
	require.Error(t, checkVersions(&CommitInfo{Version: 3}, 3, 2))
}

func TestPoolApp_SameToken(t *testing.T) {
	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	config.RewardPool.StakeToken = config.RewardPool.RewardToken
	app := newTestApp(t, config)
	defer func() { require.NoError(t, app.Stop()) }()

	require.Same(t, app.RewardToken(), app.StakeToken())

	_, ver, xerr := app.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(1), ver)
}

func TestPoolApp_Query(t *testing.T) {
	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	app := newTestApp(t, config)
	defer func() { require.NoError(t, app.Stop()) }()

	addr := types.RandAddress()
	require.NoError(t, app.RewardToken().Mint(addr, uint256.NewInt(77)))
	_, _, xerr := app.Commit()
	require.NoError(t, xerr)

	resp := app.Query(abcitypes.RequestQuery{Path: "token/reward/balance", Data: addr})
	require.Equal(t, abcitypes.CodeTypeOK, resp.Code, resp.Log)
	acct := &struct {
		Balance string `json:"balance"`
	}{}
	require.NoError(t, jsonx.Unmarshal(resp.Value, acct))
	require.Equal(t, "77", acct.Balance)

	resp = app.Query(abcitypes.RequestQuery{Path: "pool"})
	require.Equal(t, abcitypes.CodeTypeOK, resp.Code, resp.Log)

	resp = app.Query(abcitypes.RequestQuery{Path: "commit"})
	require.Equal(t, abcitypes.CodeTypeOK, resp.Code, resp.Log)
	info := &CommitInfo{}
	require.NoError(t, jsonx.Unmarshal(resp.Value, info))
	require.Equal(t, int64(1), info.Version)

	resp = app.Query(abcitypes.RequestQuery{Path: "token/unknown/balance", Data: addr})
	require.Equal(t, xerrors.ErrCodeNotFoundToken, resp.Code)

	resp = app.Query(abcitypes.RequestQuery{Path: "token/reward"})
	require.Equal(t, xerrors.ErrCodeInvalidQueryPath, resp.Code)
}

func TestPoolApp_Metrics(t *testing.T) {
	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	app := newTestApp(t, config)
	require.NotNil(t, app.Registry())
	require.NoError(t, app.Stop())

	config.RPC.MetricsEnabled = false
	app = newTestApp(t, config)
	defer func() { require.NoError(t, app.Stop()) }()
	require.Nil(t, app.Registry())
}
