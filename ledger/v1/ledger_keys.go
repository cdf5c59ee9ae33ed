package v1

import (
	"encoding/binary"

	"github.com/beatoz/beatoz-rwdpool/types"
)

var (
	KeyPrefixTokenAccount = []byte{0x00}
	KeyPrefixAllowance    = []byte{0x01}
	KeyPrefixTokenInfo    = []byte{0x02}
	KeyPrefixPeriod       = []byte{0x40}
	KeyPrefixStake        = []byte{0x41}
	KeyPrefixStaker       = []byte{0x42}
	KeyPrefixPoolState    = []byte{0x43}
)

func LedgerKeyTokenAccount(addr types.Address) LedgerKey {
	return concatKey(KeyPrefixTokenAccount, addr)
}

func LedgerKeyAllowance(owner, spender types.Address) LedgerKey {
	return concatKey(KeyPrefixAllowance, owner, spender)
}

func LedgerKeyTokenInfo() LedgerKey {
	return concatKey(KeyPrefixTokenInfo)
}

func LedgerKeyPeriod(id uint64) LedgerKey {
	return concatKey(KeyPrefixPeriod, uint64Bytes(id))
}

func LedgerKeyStake(owner types.Address, id uint64) LedgerKey {
	return concatKey(KeyPrefixStake, owner, uint64Bytes(id))
}

func LedgerKeyStaker(owner types.Address) LedgerKey {
	return concatKey(KeyPrefixStaker, owner)
}

func LedgerKeyPoolState() LedgerKey {
	return concatKey(KeyPrefixPoolState)
}

func KeyPrefixOf(key LedgerKey) byte {
	return key[0]
}

func UnwrapKeyPrefix(key LedgerKey) []byte {
	return key[1:]
}

func uint64Bytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}

func concatKey(parts ...[]byte) LedgerKey {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	k := make([]byte, 0, n)
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}
