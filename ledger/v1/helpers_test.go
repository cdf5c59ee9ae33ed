package v1

import (
	"encoding/binary"

	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
)

type Item struct {
	key  []byte
	data string
}

func newItem(n int, data string) *Item {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, uint32(n))
	return &Item{key: k, data: data}
}

func itemKey(n int) LedgerKey {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, uint32(n))
	return k
}

func newItemFor(key LedgerKey) ILedgerItem {
	k := make([]byte, len(key))
	copy(k, key)
	return &Item{key: k}
}

func (i *Item) Key() LedgerKey {
	return i.key
}

func (i *Item) Encode() ([]byte, xerrors.XError) {
	return []byte(i.data), nil
}

func (i *Item) Decode(bz []byte) xerrors.XError {
	i.data = string(bz)
	return nil
}
