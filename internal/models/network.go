package models

import (
	"fmt"
	"strings"
)

// Method selects how an existing match is handled
type Method string

const (
	MethodIntegrate Method = "integrate"
	MethodReplace   Method = "replace"
)

// DefaultKeyMgmt is used when the desired profile names none
const DefaultKeyMgmt = "WPA-PSK"

// ParseMethod validates a METHOD value. Case is ignored.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodIntegrate, MethodReplace:
		return m, nil
	default:
		return "", fmt.Errorf("invalid METHOD %q (must be integrate or replace)", s)
	}
}

// NetworkProfile is one network entry as configured in the daemon
type NetworkProfile struct {
	ID      int    `yaml:"id" json:"id"`
	SSID    string `yaml:"ssid" json:"ssid"`
	BSSID   string `yaml:"bssid,omitempty" json:"bssid,omitempty"`
	Flags   string `yaml:"flags,omitempty" json:"flags,omitempty"`
	IDStr   string `yaml:"id_str,omitempty" json:"id_str,omitempty"`
	KeyMgmt string `yaml:"key_mgmt,omitempty" json:"key_mgmt,omitempty"`
	// Priority is nil when the daemon does not report one
	Priority *int `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// DesiredProfile is the target state loaded from a credential file.
// It is not modified after loading.
type DesiredProfile struct {
	Iface  string
	Method Method

	SSID    string
	PSK     string
	KeyMgmt string
	IDStr   string
	// IDStrExplicit is false when IDStr was generated
	IDStrExplicit bool
	Priority      *int

	// Source is the file the profile was read from
	Source string
}

// MatchKey names the field used to find existing entries.
func (d *DesiredProfile) MatchKey() string {
	if d.IDStrExplicit {
		return "id_str"
	}
	return "ssid"
}

// Matches reports whether an existing entry is the same network.
func (d *DesiredProfile) Matches(p NetworkProfile) bool {
	if d.IDStrExplicit {
		return p.IDStr == d.IDStr
	}
	return p.SSID == d.SSID
}
