package reconcile

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/all-dot-files/wifiprov/internal/models"
	"github.com/all-dot-files/wifiprov/internal/wpacli"
	"github.com/all-dot-files/wifiprov/pkg/errors"
)

// Field is one set_network assignment
type Field struct {
	Key   string
	Value string
}

// Plan is the decision for one desired profile against one listing.
type Plan struct {
	Action  models.Action
	Desired *models.DesiredProfile
	// Matches are the ids of matching entries, ascending
	Matches []int
	// MaxID is the highest id in the listing the plan was made from
	MaxID  int
	Fields []Field
}

// Fields returns the assignments for a desired profile in the order they
// are sent: ssid, psk, key_mgmt, id_str, then priority when set.
func Fields(d *models.DesiredProfile) []Field {
	fields := []Field{
		{Key: "ssid", Value: d.SSID},
		{Key: "psk", Value: d.PSK},
		{Key: "key_mgmt", Value: d.KeyMgmt},
		{Key: "id_str", Value: d.IDStr},
	}
	if d.Priority != nil {
		fields = append(fields, Field{Key: "priority", Value: strconv.Itoa(*d.Priority)})
	}
	return fields
}

// NewPlan applies the decision table. It makes no daemon calls.
//
//	matches  METHOD     action
//	0        any        add
//	1        integrate  modify
//	>=1      replace    replace
//	>1       integrate  AMBIGUOUS error
func NewPlan(networks []models.NetworkProfile, desired *models.DesiredProfile) (*Plan, error) {
	var matches []int
	for _, n := range networks {
		if desired.Matches(n) {
			matches = append(matches, n.ID)
		}
	}
	sort.Ints(matches)

	p := &Plan{
		Desired: desired,
		Matches: matches,
		MaxID:   wpacli.MaxID(networks),
		Fields:  Fields(desired),
	}

	switch {
	case len(matches) == 0:
		p.Action = models.ActionAdd
	case desired.Method == models.MethodReplace:
		p.Action = models.ActionReplace
	case len(matches) == 1:
		p.Action = models.ActionModify
	default:
		return nil, errors.New(errors.ErrAmbiguous, "reconcile.NewPlan",
			fmt.Sprintf("%d networks match %s=%q (ids %v) and METHOD=integrate cannot choose one",
				len(matches), desired.MatchKey(), matchValue(desired), matches)).
			WithSuggestion("use METHOD=replace, or give the network a unique id_str")
	}
	return p, nil
}

// ExpectedID is the id the daemon should assign on add: one above the
// highest id left after removals.
func (p *Plan) ExpectedID(networks []models.NetworkProfile) int {
	removed := make(map[int]bool, len(p.Matches))
	if p.Action == models.ActionReplace {
		for _, id := range p.Matches {
			removed[id] = true
		}
	}
	highest := -1
	for _, n := range networks {
		if !removed[n.ID] && n.ID > highest {
			highest = n.ID
		}
	}
	return highest + 1
}

// Commands lists the daemon commands the plan would issue, with secrets
// masked.
func (p *Plan) Commands(networks []models.NetworkProfile) []string {
	var cmds []string
	target := p.ExpectedID(networks)
	switch p.Action {
	case models.ActionModify:
		target = p.Matches[0]
	case models.ActionReplace:
		for _, id := range p.Matches {
			cmds = append(cmds, fmt.Sprintf("remove_network %d", id))
		}
		cmds = append(cmds, "list_networks")
		fallthrough
	case models.ActionAdd:
		cmds = append(cmds, "add_network")
	}
	for _, f := range p.Fields {
		cmds = append(cmds, fmt.Sprintf("set_network %d %s %s", target, f.Key,
			wpacli.MaskValue(f.Key, wpacli.FormatValue(f.Key, f.Value))))
	}
	return append(cmds, "note", "save_config", "reassociate")
}

func matchValue(d *models.DesiredProfile) string {
	if d.IDStrExplicit {
		return d.IDStr
	}
	return d.SSID
}
