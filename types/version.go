package types

import (
	"fmt"
	"strings"
)

// APIVersion selects one of the supported VirtualBox API generations.
// The vtable layouts differ between them, so it is decided once at start-up.
type APIVersion int

const (
	APIUnknown APIVersion = iota
	APIv6_1
	APIv7_0
	APIv7_1
)

// DefaultAPIVersion is used when the configuration does not name one.
const DefaultAPIVersion = APIv7_1

// SupportedAPIVersions lists the generations in ascending order.
var SupportedAPIVersions = []APIVersion{APIv6_1, APIv7_0, APIv7_1}

func (v APIVersion) String() string {
	switch v {
	case APIv6_1:
		return "v6_1"
	case APIv7_0:
		return "v7_0"
	case APIv7_1:
		return "v7_1"
	default:
		return "unknown"
	}
}

// Major and Minor return the VirtualBox release the generation belongs to.
func (v APIVersion) Major() uint32 {
	switch v {
	case APIv6_1:
		return 6
	case APIv7_0, APIv7_1:
		return 7
	}
	return 0
}

func (v APIVersion) Minor() uint32 {
	switch v {
	case APIv6_1, APIv7_1:
		return 1
	}
	return 0
}

// ParseAPIVersion accepts "7.1", "7_1", "v7_1" and "v7.1".
func ParseAPIVersion(s string) (APIVersion, error) {
	norm := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "v")
	norm = strings.ReplaceAll(norm, ".", "_")
	for _, v := range SupportedAPIVersions {
		if v.String()[1:] == norm {
			return v, nil
		}
	}
	return APIUnknown, fmt.Errorf("unsupported api version %q", s)
}

// APIVersionFromRelease maps a pfnGetVersion value (major*1000000 +
// minor*1000 + build) to its generation.
func APIVersionFromRelease(release uint32) APIVersion {
	major := release / 1_000_000
	minor := (release / 1_000) % 1_000
	for _, v := range SupportedAPIVersions {
		if v.Major() == major && v.Minor() == minor {
			return v
		}
	}
	return APIUnknown
}

// UnmarshalText lets APIVersion be used directly in config files.
func (v *APIVersion) UnmarshalText(text []byte) error {
	parsed, err := ParseAPIVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v APIVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
