package models

import "time"

// Action is the reconciliation path taken
type Action string

const (
	ActionAdd     Action = "add"
	ActionModify  Action = "modify"
	ActionReplace Action = "replace"
)

// Run results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Run is one recorded invocation of apply
type Run struct {
	ID        string            `yaml:"id" json:"id"`
	StartedAt time.Time         `yaml:"started_at" json:"started_at"`
	Source    string            `yaml:"source,omitempty" json:"source,omitempty"`
	Iface     string            `yaml:"iface" json:"iface"`
	SSID      string            `yaml:"ssid" json:"ssid"`
	IDStr     string            `yaml:"id_str,omitempty" json:"id_str,omitempty"`
	Method    Method            `yaml:"method" json:"method"`
	Action    Action            `yaml:"action,omitempty" json:"action,omitempty"`
	NetworkID int               `yaml:"network_id" json:"network_id"`
	DryRun    bool              `yaml:"dry_run,omitempty" json:"dry_run,omitempty"`
	Result    string            `yaml:"result" json:"result"`
	Error     string            `yaml:"error,omitempty" json:"error,omitempty"`
	Status    map[string]string `yaml:"status,omitempty" json:"status,omitempty"`
}
