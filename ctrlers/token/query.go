package token

import (
	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

// Query serves `balance` (Data: address), `allowance` (Data: owner address followed by spender address)
// and `supply` at the committed version req.Height.
func (ctrler *TokenCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	immuLedger, xerr := ctrler.tokenState.ImitableLedgerAt(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}

	var resp interface{}
	switch req.Path {
	case "balance":
		if xerr := types.ValidateAddress(req.Data); xerr != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(xerr)
		}
		acct, xerr := ctrler.findOrNewAccount(immuLedger, req.Data)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = acct
	case "allowance":
		if len(req.Data) != 2*types.AddrSize {
			return nil, xerrors.ErrInvalidQueryParams.Wrapf("wrong data length: %d", len(req.Data))
		}
		owner, spender := types.Address(req.Data[:types.AddrSize]), types.Address(req.Data[types.AddrSize:])
		allowance, xerr := ctrler.allowance(immuLedger, owner, spender)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = allowance
	case "supply":
		info, xerr := ctrler.tokenInfo(immuLedger)
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = info
	default:
		return nil, xerrors.ErrInvalidQueryPath.Wrapf("path: %s", req.Path)
	}

	raw, err := jsonx.Marshal(resp)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}
