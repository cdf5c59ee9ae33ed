package node

import (
	"strings"

	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

// Query dispatches `token/<name>/<path>` to the token ledger <name>,
// `commit` to the meta db and everything else to the pool.
func (app *PoolApp) Query(req abcitypes.RequestQuery) abcitypes.ResponseQuery {
	response := abcitypes.ResponseQuery{
		Code:   abcitypes.CodeTypeOK,
		Key:    req.Data,
		Height: req.Height,
	}

	var xerr xerrors.XError
	if strings.HasPrefix(req.Path, "token/") {
		parts := strings.SplitN(strings.TrimPrefix(req.Path, "token/"), "/", 2)
		if len(parts) != 2 {
			xerr = xerrors.ErrInvalidQueryPath.Wrapf("path: %s", req.Path)
		} else if ctrler, _xerr := app.Token(parts[0]); _xerr != nil {
			xerr = _xerr
		} else {
			req.Path = parts[1]
			response.Value, xerr = ctrler.Query(req)
		}
	} else if req.Path == "commit" {
		response.Value, xerr = app.queryLastCommit()
	} else {
		response.Value, xerr = app.poolCtrler.Query(req)
	}

	if xerr != nil {
		app.logger.Error("PoolApp - Query returns error", "error", xerr, "path", req.Path)
		response.Code = xerr.Code()
		response.Log = xerr.Error()
	}

	return response
}

func (app *PoolApp) queryLastCommit() ([]byte, xerrors.XError) {
	info := app.LastCommit()
	if info == nil {
		return nil, xerrors.ErrNotFoundResult.Wrapf("no commit")
	}
	bz, err := jsonx.Marshal(info)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return bz, nil
}
