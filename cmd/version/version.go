package version

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tendermint/tendermint/version"
)

const (
	FMT_VERSTR      = "v%v.%v.%v-%x@%s"
	MASK_MAJOR_VER  = uint64(0xFF00000000000000)
	MASK_MINOR_VER  = uint64(0x00FF000000000000)
	MASK_PATCH_VER  = uint64(0x0000FFFF00000000)
	MASK_COMMIT_VER = uint64(0x00000000FFFFFFFF)
)

var (
	// set by ldflags.
	//  ex) -ldflags "-X 'github.com/beatoz/beatoz-rwdpool/cmd/version.GitCommit=$(git rev-parse --short=8 HEAD)'"
	Version   string
	GitCommit string

	majorVer  uint64 = 0
	minorVer  uint64 = 1
	patchVer  uint64 = 0
	commitVer uint64 = 0
)

var verRegexp = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)`)

func init() {
	if err := parseVersions(Version, GitCommit); err != nil {
		panic(err)
	}
}

func parseVersions(versionStr, gitCommit string) error {
	if versionStr == "" {
		return nil
	}

	matches := verRegexp.FindStringSubmatch(versionStr)
	if matches == nil {
		return fmt.Errorf("invalid version string: %v", versionStr)
	}
	major, _ := strconv.ParseUint(matches[1], 10, 64)
	minor, _ := strconv.ParseUint(matches[2], 10, 64)
	patch, _ := strconv.ParseUint(matches[3], 10, 64)
	if major > 0xFF || minor > 0xFF || patch > 0xFFFF {
		return fmt.Errorf("version out of range: %v", versionStr)
	}

	commit := uint64(0)
	if gitCommit != "" {
		var err error
		commit, err = strconv.ParseUint(gitCommit, 16, 32)
		if err != nil {
			return fmt.Errorf("error: %v, invalid git commit: %v", err, gitCommit)
		}
	}

	majorVer, minorVer, patchVer, commitVer = major, minor, patch, commit
	return nil
}

func String() string {
	return fmt.Sprintf(FMT_VERSTR, majorVer, minorVer, patchVer, commitVer, version.TMCoreSemVer)
}

// Uint64 packs the version into one number laid out by the MASK_* constants.
func Uint64() uint64 {
	return (majorVer<<56)&MASK_MAJOR_VER |
		(minorVer<<48)&MASK_MINOR_VER |
		(patchVer<<32)&MASK_PATCH_VER |
		commitVer&MASK_COMMIT_VER
}

func Major() uint64 {
	return majorVer
}

func Minor() uint64 {
	return minorVer
}

func Patch() uint64 {
	return patchVer
}

func CommitHash() uint64 {
	return commitVer
}
