package types

import (
	"strconv"
	"strings"
)

// Replica identifies one query-serving replica of the fleet.
type Replica struct {
	// Identity is the replica's stable name as reported by the inventory
	// (e.g. "archive-store-3"). The hosting environment supplies an agent's
	// own identity; it is never discovered.
	Identity string `json:"identity" yaml:"identity"`

	// Ordinal is the replica's numeric index within its fleet, derived from
	// the trailing numeric suffix of Identity.
	Ordinal uint `json:"ordinal" yaml:"ordinal"`
}

// ParseOrdinal extracts the replica ordinal from an identity string.
//
// The ordinal is the numeric suffix after the last '-' ("archive-store-12"
// yields 12). A missing or non-numeric suffix defaults to 0, which keeps
// single-replica and ad-hoc deployments working without naming conventions.
func ParseOrdinal(identity string) uint {
	idx := strings.LastIndexByte(identity, '-')
	if idx < 0 || idx == len(identity)-1 {
		return 0
	}

	n, err := strconv.ParseUint(identity[idx+1:], 10, 32)
	if err != nil {
		return 0
	}

	return uint(n)
}
