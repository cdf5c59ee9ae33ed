package types

import (
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type ILedgerHandler interface {
	Commit() ([]byte, int64, xerrors.XError)
	Query(abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Close() xerrors.XError
}

// ITokenHandler is the fungible token the pool takes custody of.
// A call that returns an error must leave every balance and allowance unchanged.
type ITokenHandler interface {
	Name() string
	BalanceOf(types.Address) *uint256.Int
	Transfer(from, to types.Address, amt *uint256.Int) xerrors.XError
	TransferFrom(spender, from, to types.Address, amt *uint256.Int) xerrors.XError
	Approve(owner, spender types.Address, amt *uint256.Int) xerrors.XError
	Allowance(owner, spender types.Address) *uint256.Int
}

// IRewardPoolHandler is the read side of the reward pool.
type IRewardPoolHandler interface {
	Query(abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Version() int64
	PoolAddress() types.Address
}
