package aim

import (
	"fmt"
	"strings"
)

// Tier names one of the configured ability radii.
type Tier uint8

const (
	TierNone Tier = iota
	TierClose
	TierMid
	TierFar
)

func (t Tier) String() string {
	switch t {
	case TierClose:
		return "close"
	case TierMid:
		return "mid"
	case TierFar:
		return "far"
	}
	return ""
}

// ParseTier accepts "", "close", "mid" and "far" in any case.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TierNone, nil
	case "close":
		return TierClose, nil
	case "mid":
		return TierMid, nil
	case "far":
		return TierFar, nil
	}
	return TierNone, fmt.Errorf("unknown distance tier %q", s)
}
