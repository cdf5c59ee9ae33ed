package v1

import (
	"testing"

	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func newCommittedLedger(t *testing.T) *MutableLedger {
	ledger := newTestMutableLedger(t, t.TempDir())
	it := newItem(100, "committed")
	require.NoError(t, ledger.Set(it.Key(), it))
	_, _, xerr := ledger.Commit()
	require.NoError(t, xerr)
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger
}

func TestMemLedger_ReadThrough(t *testing.T) {
	source := newCommittedLedger(t)

	ledger, xerr := NewMemLedgerAt(1, source, log.NewNopLogger())
	require.NoError(t, xerr)
	require.Equal(t, int64(1), ledger.Version())

	_item, xerr := ledger.Get(itemKey(100))
	require.NoError(t, xerr)
	require.Equal(t, "committed", _item.(*Item).data)

	// writes stay in memory
	it := newItem(100, "overlaid")
	require.NoError(t, ledger.Set(it.Key(), it))
	_item, xerr = ledger.Get(itemKey(100))
	require.NoError(t, xerr)
	require.Equal(t, "overlaid", _item.(*Item).data)

	_item, xerr = source.Get(itemKey(100))
	require.NoError(t, xerr)
	require.Equal(t, "committed", _item.(*Item).data)
}

func TestMemLedger_Del(t *testing.T) {
	source := newCommittedLedger(t)

	ledger, xerr := NewMemLedgerAt(1, source, log.NewNopLogger())
	require.NoError(t, xerr)

	snap := ledger.Snapshot()
	require.NoError(t, ledger.Del(itemKey(100)))
	ok, xerr := ledger.Has(itemKey(100))
	require.NoError(t, xerr)
	require.False(t, ok)
	_, xerr = ledger.Get(itemKey(100))
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	require.NoError(t, ledger.RevertToSnapshot(snap))
	ok, xerr = ledger.Has(itemKey(100))
	require.NoError(t, xerr)
	require.True(t, ok)
}

func TestMemLedger_RevertToSnapshot(t *testing.T) {
	source := newCommittedLedger(t)

	ledger, xerr := NewMemLedgerAt(1, source, log.NewNopLogger())
	require.NoError(t, xerr)

	it := newItem(1, "a")
	require.NoError(t, ledger.Set(it.Key(), it))
	snap := ledger.Snapshot()

	it = newItem(1, "b")
	require.NoError(t, ledger.Set(it.Key(), it))
	it = newItem(2, "c")
	require.NoError(t, ledger.Set(it.Key(), it))

	require.NoError(t, ledger.RevertToSnapshot(snap))

	_item, xerr := ledger.Get(itemKey(1))
	require.NoError(t, xerr)
	require.Equal(t, "a", _item.(*Item).data)
	_, xerr = ledger.Get(itemKey(2))
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	require.NoError(t, ledger.RevertToSnapshot(0))
	_, xerr = ledger.Get(itemKey(1))
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
}

func TestMemLedger_Empty(t *testing.T) {
	source := newTestMutableLedger(t, t.TempDir())
	defer func() { require.NoError(t, source.Close()) }()

	ledger, xerr := NewMemLedgerAt(0, source, log.NewNopLogger())
	require.NoError(t, xerr)
	require.Equal(t, int64(0), ledger.Version())
	_, xerr = ledger.Get(itemKey(1))
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
}

func TestStateLedger_ImitableLedgerAt(t *testing.T) {
	ledger, xerr := NewStateLedger("state_test", t.TempDir(), 1000, newItemFor, log.NewNopLogger())
	require.NoError(t, xerr)
	defer func() { require.NoError(t, ledger.Close()) }()

	it := newItem(1, "v1")
	require.NoError(t, ledger.Set(it.Key(), it))
	_, _, xerr = ledger.Commit()
	require.NoError(t, xerr)

	it = newItem(1, "v2")
	require.NoError(t, ledger.Set(it.Key(), it))
	_, _, xerr = ledger.Commit()
	require.NoError(t, xerr)

	view, xerr := ledger.ImitableLedgerAt(1)
	require.NoError(t, xerr)
	_item, xerr := view.Get(itemKey(1))
	require.NoError(t, xerr)
	require.Equal(t, "v1", _item.(*Item).data)

	view, xerr = ledger.ImitableLedgerAt(0)
	require.NoError(t, xerr)
	_item, xerr = view.Get(itemKey(1))
	require.NoError(t, xerr)
	require.Equal(t, "v2", _item.(*Item).data)

	_, xerr = ledger.ImitableLedgerAt(3)
	require.Error(t, xerr)
}
