package rpc

import (
	"net/http"

	"github.com/beatoz/beatoz-rwdpool/ctrlers/rwdpool"
	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/go-chi/chi/v5"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

// IQuerier answers ABCI style queries; node.PoolApp is the one used by the server.
type IQuerier interface {
	Query(abcitypes.RequestQuery) abcitypes.ResponseQuery
}

type handlers struct {
	querier IQuerier
}

// query runs `path` with the parameters of the request.
// `withAddr` and `withID` take the address and the id from the url.
func (h *handlers) query(w http.ResponseWriter, r *http.Request, path string, withAddr, withID bool) {
	height, xerr := parseHeight(r)
	if xerr != nil {
		writeError(w, xerr)
		return
	}
	params := &rwdpool.QueryParams{}
	if params.Now, xerr = parseNow(r); xerr != nil {
		writeError(w, xerr)
		return
	}
	if withAddr {
		if params.Address, xerr = parseAddress(r); xerr != nil {
			writeError(w, xerr)
			return
		}
	}
	if withID {
		if params.ID, xerr = parseID(r); xerr != nil {
			writeError(w, xerr)
			return
		}
	}

	data, err := jsonx.Marshal(params)
	if err != nil {
		writeError(w, xerrors.ErrQuery.Wrap(err))
		return
	}
	writeResponse(w, h.querier.Query(abcitypes.RequestQuery{Path: path, Data: data, Height: height}))
}

func (h *handlers) QueryPool(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "pool", false, false)
}

func (h *handlers) QueryPeriods(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "periods", false, false)
}

func (h *handlers) QueryCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "period/current", false, false)
}

func (h *handlers) QueryPeriod(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "period", false, true)
}

func (h *handlers) QueryStakes(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "stakes", true, false)
}

func (h *handlers) QueryClaimable(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "claimable", true, false)
}

func (h *handlers) QueryStats(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "stats", true, false)
}

func (h *handlers) QueryBalance(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "balance", true, false)
}

func (h *handlers) QueryReward(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "reward", true, true)
}

func (h *handlers) QueryTokenBalance(w http.ResponseWriter, r *http.Request) {
	height, xerr := parseHeight(r)
	if xerr != nil {
		writeError(w, xerr)
		return
	}
	addr, xerr := parseAddress(r)
	if xerr != nil {
		writeError(w, xerr)
		return
	}
	path := "token/" + chi.URLParam(r, "name") + "/balance"
	writeResponse(w, h.querier.Query(abcitypes.RequestQuery{Path: path, Data: addr, Height: height}))
}
