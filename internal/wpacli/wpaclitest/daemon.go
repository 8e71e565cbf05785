// Package wpaclitest provides an in-memory wpa_supplicant that answers
// wpa_cli invocations, for tests.
package wpaclitest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/all-dot-files/wifiprov/pkg/errors"
)

// Call is one recorded wpa_cli invocation
type Call struct {
	Command string
	Args    []string
}

func (c Call) String() string {
	return strings.TrimSpace(c.Command + " " + strings.Join(c.Args, " "))
}

// mutating commands change daemon state
var mutating = map[string]bool{
	"add_network":    true,
	"set_network":    true,
	"remove_network": true,
	"reconfigure":    true,
	"save_config":    true,
	"reassociate":    true,
	"note":           true,
}

// stringKeys must be sent quoted; intKeys must be bare integers
var (
	stringKeys = map[string]bool{"ssid": true, "psk": true, "id_str": true}
	intKeys    = map[string]bool{"priority": true}
)

// Daemon is a fake wpa_supplicant. Network field values are stored exactly
// as they were sent, quotes included.
type Daemon struct {
	Networks map[int]map[string]string
	Status   map[string]string
	Calls    []Call

	// Failure injection
	FailSet    map[string]bool // set_network fails for these keys
	FailRemove map[int]bool    // remove_network fails for these ids
	FailSave   bool
	IDSkew     int   // added to every assigned id
	SpawnErr   error // returned instead of running

	Saved        bool
	Reconfigured int
	Notes        []string
}

// New creates an empty daemon
func New() *Daemon {
	return &Daemon{
		Networks:   map[int]map[string]string{},
		Status:     map[string]string{"wpa_state": "DISCONNECTED"},
		FailSet:    map[string]bool{},
		FailRemove: map[int]bool{},
	}
}

// Seed adds a network the way a configuration file would.
func (d *Daemon) Seed(id int, ssid, idStr string) {
	fields := map[string]string{
		"ssid":     strconv.Quote(ssid),
		"key_mgmt": "WPA-PSK",
		"priority": "0",
	}
	if idStr != "" {
		fields["id_str"] = strconv.Quote(idStr)
	}
	d.Networks[id] = fields
}

// Field returns a stored value with quotes removed.
func (d *Daemon) Field(id int, key string) string {
	return strings.Trim(d.Networks[id][key], `"`)
}

// IDs returns network ids in ascending order
func (d *Daemon) IDs() []int {
	ids := make([]int, 0, len(d.Networks))
	for id := range d.Networks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Mutations returns the recorded calls that change daemon state.
func (d *Daemon) Mutations() []Call {
	var out []Call
	for _, c := range d.Calls {
		if mutating[c.Command] {
			out = append(out, c)
		}
	}
	return out
}

// CallsOf returns the recorded calls of one command.
func (d *Daemon) CallsOf(command string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Command == command {
			out = append(out, c)
		}
	}
	return out
}

// Run implements wpacli.Runner.
func (d *Daemon) Run(name string, args ...string) ([]string, error) {
	if d.SpawnErr != nil {
		return nil, apperrors.Wrap(d.SpawnErr, apperrors.ErrSpawn, "wpaclitest.Run", "cannot start "+name)
	}
	for len(args) >= 2 && (args[0] == "-i" || args[0] == "-p") {
		args = args[2:]
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no command")
	}
	call := Call{Command: args[0], Args: append([]string(nil), args[1:]...)}
	d.Calls = append(d.Calls, call)
	return d.handle(call), nil
}

func (d *Daemon) handle(c Call) []string {
	switch c.Command {
	case "status":
		keys := make([]string, 0, len(d.Status))
		for k := range d.Status {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, k+"="+d.Status[k])
		}
		return out
	case "list_networks":
		out := []string{"network id / ssid / bssid / flags"}
		for _, id := range d.IDs() {
			line := fmt.Sprintf("%d\t%s\tany\t", id, d.Field(id, "ssid"))
			out = append(out, strings.TrimSpace(line))
		}
		return out
	case "get_network":
		id, ok := d.network(c.Args, 2)
		if !ok {
			return []string{"FAIL"}
		}
		v, ok := d.Networks[id][c.Args[1]]
		if !ok {
			return []string{"FAIL"}
		}
		return []string{v}
	case "add_network":
		id := d.nextID()
		d.Networks[id] = map[string]string{"key_mgmt": "WPA-PSK WPA-EAP", "priority": "0"}
		return []string{strconv.Itoa(id)}
	case "set_network":
		id, ok := d.network(c.Args, 3)
		if !ok {
			return []string{"FAIL"}
		}
		key, value := c.Args[1], c.Args[2]
		if d.FailSet[key] || !validValue(key, value) {
			return []string{"FAIL"}
		}
		d.Networks[id][key] = value
		return []string{"OK"}
	case "remove_network":
		id, ok := d.network(c.Args, 1)
		if !ok || d.FailRemove[id] {
			return []string{"FAIL"}
		}
		delete(d.Networks, id)
		return []string{"OK"}
	case "reconfigure":
		d.Reconfigured++
		return []string{"OK"}
	case "save_config":
		if d.FailSave {
			return []string{"FAIL"}
		}
		d.Saved = true
		return []string{"OK"}
	case "reassociate":
		return []string{"OK"}
	case "note":
		d.Notes = append(d.Notes, strings.Join(c.Args, " "))
		return []string{"OK"}
	}
	return []string{"UNKNOWN COMMAND"}
}

func (d *Daemon) network(args []string, n int) (int, bool) {
	if len(args) < n {
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	_, ok := d.Networks[id]
	return id, ok
}

func (d *Daemon) nextID() int {
	id := -1
	for existing := range d.Networks {
		if existing > id {
			id = existing
		}
	}
	return id + 1 + d.IDSkew
}

func validValue(key, value string) bool {
	quoted := len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)
	switch {
	case stringKeys[key]:
		return quoted
	case intKeys[key]:
		_, err := strconv.Atoi(value)
		return err == nil
	default:
		return !quoted
	}
}
