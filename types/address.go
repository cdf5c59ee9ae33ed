package types

import (
	"crypto/rand"

	"github.com/beatoz/beatoz-rwdpool/types/bytes"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const AddrSize = ethcommon.AddressLength

type Address = bytes.HexBytes

func ZeroAddress() Address {
	return make(Address, AddrSize)
}

func IsZeroAddress(addr Address) bool {
	for _, b := range addr {
		if b != 0 {
			return false
		}
	}
	return true
}

func RandAddress() Address {
	addr := make(Address, AddrSize)
	_, _ = rand.Read(addr)
	return addr
}

// HexToAddress accepts a 20 byte hex string with or without the 0x prefix.
func HexToAddress(s string) (Address, xerrors.XError) {
	if !ethcommon.IsHexAddress(s) {
		return nil, xerrors.ErrInvalidAddress.Wrapf("address: %q", s)
	}
	return ethcommon.HexToAddress(s).Bytes(), nil
}

// ValidateAddress returns an error if addr is not a 20 byte account address.
func ValidateAddress(addr Address) xerrors.XError {
	if len(addr) != AddrSize {
		return xerrors.ErrInvalidAddress.Wrapf("wrong address length: %d", len(addr))
	}
	return nil
}

// ChecksumAddress returns the EIP-55 representation of addr.
func ChecksumAddress(addr Address) string {
	return ethcommon.BytesToAddress(addr).Hex()
}

// NewAddressForModule derives a fixed account address that no private key controls.
func NewAddressForModule(name string) Address {
	hash := ethcrypto.Keccak256([]byte("module:" + name))
	return Address(hash[len(hash)-AddrSize:])
}
