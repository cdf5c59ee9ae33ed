package rwdpool

import (
	"testing"

	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func queryData(t *testing.T, params *QueryParams) []byte {
	bz, err := jsonx.Marshal(params)
	require.NoError(t, err)
	return bz
}

func TestQuery(t *testing.T) {
	pool := newTestPool(t, nil)
	pool.fund(t, 1000, t0, t0+1000, t0)
	x := types.RandAddress()
	pool.open(t, x, 10, t0)
	_, _, xerr := pool.Commit()
	require.NoError(t, xerr)

	// not committed; invisible to queries.
	pool.open(t, x, 10, t0+100)

	raw, xerr := pool.Query(abcitypes.RequestQuery{
		Path: "claimable",
		Data: queryData(t, &QueryParams{Address: x, Now: t0 + 200}),
	})
	require.NoError(t, xerr)
	var claimable string
	require.NoError(t, jsonx.Unmarshal(raw, &claimable))
	require.Equal(t, "200", claimable)

	raw, xerr = pool.Query(abcitypes.RequestQuery{
		Path: "stakes",
		Data: queryData(t, &QueryParams{Address: x}),
	})
	require.NoError(t, xerr)
	var stakes []*Stake
	require.NoError(t, jsonx.Unmarshal(raw, &stakes))
	require.Len(t, stakes, 1)
	require.Equal(t, x, stakes[0].Owner)
	require.Equal(t, "10", stakes[0].Amount.Dec())

	raw, xerr = pool.Query(abcitypes.RequestQuery{Path: "periods"})
	require.NoError(t, xerr)
	var periods []*RewardPeriod
	require.NoError(t, jsonx.Unmarshal(raw, &periods))
	require.Len(t, periods, 1)
	require.Equal(t, t0+1000, periods[0].End)

	raw, xerr = pool.Query(abcitypes.RequestQuery{
		Path: "period/current",
		Data: queryData(t, &QueryParams{Now: t0 + 10}),
	})
	require.NoError(t, xerr)
	current := &RewardPeriod{}
	require.NoError(t, jsonx.Unmarshal(raw, current))
	require.Equal(t, uint64(0), current.ID)

	_, xerr = pool.Query(abcitypes.RequestQuery{
		Path: "period/current",
		Data: queryData(t, &QueryParams{Now: t0 + 1000}),
	})
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundPeriod)

	raw, xerr = pool.Query(abcitypes.RequestQuery{
		Path: "reward",
		Data: queryData(t, &QueryParams{Address: x, ID: 0, Now: t0 + 500}),
	})
	require.NoError(t, xerr)
	proj := &RewardProjection{}
	require.NoError(t, jsonx.Unmarshal(raw, proj))
	require.Equal(t, "500", proj.Reward.Dec())

	raw, xerr = pool.Query(abcitypes.RequestQuery{
		Path: "pool",
		Data: queryData(t, &QueryParams{Now: t0 + 500}),
	})
	require.NoError(t, xerr)
	info := &PoolInfo{}
	require.NoError(t, jsonx.Unmarshal(raw, info))
	require.Equal(t, int64(1), info.Version)
	require.Equal(t, pool.PoolAddress(), info.Address)
	require.Equal(t, "1000", info.RewardBalance.Dec())
	require.Equal(t, "10", info.State.TotalWeight.Dec())
	require.Equal(t, t0+500, info.State.LastUpdate)

	raw, xerr = pool.Query(abcitypes.RequestQuery{
		Path: "balance",
		Data: queryData(t, &QueryParams{Address: x}),
	})
	require.NoError(t, xerr)
	bal := &AccountBalance{}
	require.NoError(t, jsonx.Unmarshal(raw, bal))
	require.Equal(t, "10", bal.Staked.Dec())
	require.Equal(t, "0", bal.Balance.Dec())

	raw, xerr = pool.Query(abcitypes.RequestQuery{
		Path: "stats",
		Data: queryData(t, &QueryParams{Address: x, Now: t0 + 500}),
	})
	require.NoError(t, xerr)
	stats := &RewardsStats{}
	require.NoError(t, jsonx.Unmarshal(raw, stats))
	require.Equal(t, "500", stats.Claimable.Dec())
	require.Equal(t, "1", stats.Rate.Dec())
}

func TestQuery_Errors(t *testing.T) {
	pool := newTestPool(t, nil)

	_, xerr := pool.Query(abcitypes.RequestQuery{Path: "unknown"})
	require.ErrorIs(t, xerr, xerrors.ErrInvalidQueryPath)

	_, xerr = pool.Query(abcitypes.RequestQuery{Path: "stakes", Data: []byte("{")})
	require.ErrorIs(t, xerr, xerrors.ErrInvalidQueryParams)

	_, xerr = pool.Query(abcitypes.RequestQuery{Path: "stakes", Data: []byte("{}")})
	require.ErrorIs(t, xerr, xerrors.ErrInvalidQueryParams)

	_, xerr = pool.Query(abcitypes.RequestQuery{Path: "period", Data: []byte(`{"id":"3"}`)})
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundPeriod)

	_, xerr = pool.Query(abcitypes.RequestQuery{Path: "pool", Height: 5})
	require.ErrorIs(t, xerr, xerrors.ErrQuery)
}
