package rpc

import (
	"net/http"
	"strconv"
	"time"

	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/go-chi/chi/v5"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type errorResponse struct {
	Code  uint32 `json:"code"`
	Error string `json:"error"`
}

// parseHeight returns 0, the latest committed height, if `height` is absent.
func parseHeight(r *http.Request) (int64, xerrors.XError) {
	s := r.URL.Query().Get("height")
	if s == "" {
		return 0, nil
	}
	height, err := strconv.ParseInt(s, 10, 64)
	if err != nil || height < 0 {
		return 0, xerrors.ErrInvalidQueryParams.Wrapf("height: %q", s)
	}
	return height, nil
}

// parseNow returns the wall clock if `now` is absent.
func parseNow(r *http.Request) (int64, xerrors.XError) {
	s := r.URL.Query().Get("now")
	if s == "" {
		return time.Now().Unix(), nil
	}
	now, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, xerrors.ErrInvalidQueryParams.Wrapf("now: %q", s)
	}
	return now, nil
}

func parseAddress(r *http.Request) (types.Address, xerrors.XError) {
	addr, xerr := types.HexToAddress(chi.URLParam(r, "addr"))
	if xerr != nil {
		return nil, xerrors.ErrInvalidQueryParams.Wrap(xerr)
	}
	return addr, nil
}

func parseID(r *http.Request) (uint64, xerrors.XError) {
	s := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, xerrors.ErrInvalidQueryParams.Wrapf("id: %q", s)
	}
	return id, nil
}

func writeResponse(w http.ResponseWriter, resp abcitypes.ResponseQuery) {
	if resp.Code != abcitypes.CodeTypeOK {
		writeError(w, xerrors.New(resp.Code, resp.Log))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Value)
}

func writeError(w http.ResponseWriter, xerr xerrors.XError) {
	status := http.StatusBadRequest
	switch xerr.Code() {
	case xerrors.ErrCodeNotFoundPeriod, xerrors.ErrCodeNotFoundStake, xerrors.ErrCodeNotFoundToken,
		xerrors.ErrCodeNotFoundResult:
		status = http.StatusNotFound
	}

	bz, err := jsonx.Marshal(&errorResponse{Code: xerr.Code(), Error: xerr.Error()})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bz)
}
