package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionParsing(t *testing.T) {
	orig := []uint64{majorVer, minorVer, patchVer, commitVer}
	defer func() {
		majorVer, minorVer, patchVer, commitVer = orig[0], orig[1], orig[2], orig[3]
	}()

	require.NoError(t, parseVersions("v1.2.3", "abcdef01"))
	require.Equal(t, uint64(1), Major())
	require.Equal(t, uint64(2), Minor())
	require.Equal(t, uint64(3), Patch())
	require.Equal(t, uint64(0xabcdef01), CommitHash())
	require.Equal(t, uint64(0x01020003abcdef01), Uint64())

	require.NoError(t, parseVersions("", ""))
	require.Equal(t, uint64(1), Major())
}

func TestVersionParsing_Errors(t *testing.T) {
	orig := []uint64{majorVer, minorVer, patchVer, commitVer}
	defer func() {
		majorVer, minorVer, patchVer, commitVer = orig[0], orig[1], orig[2], orig[3]
	}()

	require.Error(t, parseVersions("latest", ""))
	require.Error(t, parseVersions("v256.0.0", ""))
	require.Error(t, parseVersions("v1.0.0", "not-hex"))
	require.Error(t, parseVersions("v1.0.0", "abcdef0123"))
	// failed parsing leaves the version untouched
	require.Equal(t, orig[0], Major())
	require.Equal(t, orig[1], Minor())
}
