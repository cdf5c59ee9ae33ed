package types

import (
	"fmt"

	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	DECIMAL int32 = 18
)

var (
	oneCoinGrans = uint256.NewInt(1_000_000_000_000_000_000)
)

func ToGrans(n int64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(uint64(n)), oneCoinGrans)
}

// from grans to coin and Remain
func FromGransRem(grans *uint256.Int) (int64, int64) {
	r := new(uint256.Int)
	q, r := new(uint256.Int).DivMod(grans, oneCoinGrans, r)
	return int64(q.Uint64()), int64(r.Uint64())
}

func FromGrans(grans *uint256.Int) int64 {
	r := new(uint256.Int)
	q, _ := new(uint256.Int).DivMod(grans, oneCoinGrans, r)
	return int64(q.Uint64())
}

func FormattedString(grans *uint256.Int) string {
	q, r := FromGransRem(grans)
	return fmt.Sprintf("%d.%018d", q, r)
}

// ParseCoins converts a human readable coin amount such as "1.5" into grans.
// Fractions finer than one gran are rejected.
func ParseCoins(s string) (*uint256.Int, xerrors.XError) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, xerrors.From(err)
	}
	if d.IsNegative() {
		return nil, xerrors.NewOrdinary("negative amount").Wrapf("amount: %s", s)
	}
	grans := d.Shift(DECIMAL)
	if !grans.IsInteger() {
		return nil, xerrors.NewOrdinary("too many decimal places").Wrapf("amount: %s", s)
	}
	ret, err := uint256.FromDecimal(grans.BigInt().String())
	if err != nil {
		return nil, xerrors.ErrOverFlow.Wrap(err)
	}
	return ret, nil
}

// CoinsString is the inverse of ParseCoins. Trailing zeros are dropped.
func CoinsString(grans *uint256.Int) string {
	d, err := decimal.NewFromString(grans.Dec())
	if err != nil {
		return grans.Dec()
	}
	return d.Shift(-DECIMAL).String()
}
