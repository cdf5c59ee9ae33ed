package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/node"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/holiman/uint256"
)

// withApp opens the ledgers, runs fn and closes them.
// If `commit` is true and fn succeeds, the changes are committed.
func withApp(commit bool, fn func(app *node.PoolApp) error) error {
	app, xerr := node.NewPoolApp(rootConfig, logger)
	if xerr != nil {
		return xerr
	}
	defer func() {
		if xerr := app.Stop(); xerr != nil {
			logger.Error("unable to stop the rwdpool", "error", xerr)
		}
	}()

	if err := fn(app); err != nil {
		return err
	}
	if commit {
		if _, _, xerr := app.Commit(); xerr != nil {
			return xerr
		}
	}
	return nil
}

func printJSON(v interface{}) error {
	bz, err := jsonx.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}

func parseAddress(s string) (types.Address, error) {
	addr, xerr := types.HexToAddress(s)
	if xerr != nil {
		return nil, xerr
	}
	return addr, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	amt, xerr := types.ParseCoins(s)
	if xerr != nil {
		return nil, xerr
	}
	return amt, nil
}

func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// parseTime accepts unix seconds or RFC3339.
func parseTime(s string) (int64, error) {
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sec, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: use unix seconds or RFC3339", s)
	}
	return t.Unix(), nil
}

// now is the execution time of every command.
func now() int64 {
	return time.Now().Unix()
}
