package reconcile

import (
	"reflect"
	"testing"

	"github.com/all-dot-files/wifiprov/internal/models"
)

func listing(ssids map[int]string) []models.NetworkProfile {
	var out []models.NetworkProfile
	for id, ssid := range ssids {
		out = append(out, models.NetworkProfile{ID: id, SSID: ssid})
	}
	return out
}

func TestDecisionTable(t *testing.T) {
	cases := []struct {
		name    string
		nets    map[int]string
		method  models.Method
		action  models.Action
		wantErr bool
	}{
		{"none integrate", map[int]string{0: "Other"}, models.MethodIntegrate, models.ActionAdd, false},
		{"none replace", nil, models.MethodReplace, models.ActionAdd, false},
		{"one integrate", map[int]string{0: "Net"}, models.MethodIntegrate, models.ActionModify, false},
		{"one replace", map[int]string{0: "Net"}, models.MethodReplace, models.ActionReplace, false},
		{"many replace", map[int]string{0: "Net", 1: "Net"}, models.MethodReplace, models.ActionReplace, false},
		{"many integrate", map[int]string{0: "Net", 1: "Net"}, models.MethodIntegrate, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := NewPlan(listing(tc.nets), desired(tc.method))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPlan: %v", err)
			}
			if plan.Action != tc.action {
				t.Errorf("action = %s, want %s", plan.Action, tc.action)
			}
		})
	}
}

func TestMatchesSortedAscending(t *testing.T) {
	nets := []models.NetworkProfile{{ID: 5, SSID: "Net"}, {ID: 1, SSID: "Net"}, {ID: 3, SSID: "Net"}}
	plan, err := NewPlan(nets, desired(models.MethodReplace))
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if !reflect.DeepEqual(plan.Matches, []int{1, 3, 5}) {
		t.Errorf("matches %v", plan.Matches)
	}
	if plan.MaxID != 5 || plan.ExpectedID(nets) != 0 {
		t.Errorf("max=%d expected=%d", plan.MaxID, plan.ExpectedID(nets))
	}
}

func TestFieldsOrder(t *testing.T) {
	want := desired(models.MethodIntegrate)
	prio := 2
	want.Priority = &prio

	var keys []string
	for _, f := range Fields(want) {
		keys = append(keys, f.Key)
	}
	if !reflect.DeepEqual(keys, []string{"ssid", "psk", "key_mgmt", "id_str", "priority"}) {
		t.Errorf("field order %v", keys)
	}
}

func TestCommandsMaskSecrets(t *testing.T) {
	nets := []models.NetworkProfile{{ID: 0, SSID: "Other"}}
	plan, err := NewPlan(nets, desired(models.MethodIntegrate))
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	cmds := plan.Commands(nets)
	exp := []string{
		"add_network",
		`set_network 1 ssid "Net"`,
		`set_network 1 psk "********"`,
		"set_network 1 key_mgmt WPA-PSK",
		`set_network 1 id_str "` + plan.Desired.IDStr + `"`,
		"note",
		"save_config",
		"reassociate",
	}
	if !reflect.DeepEqual(cmds, exp) {
		t.Errorf("commands:\n got %q\nwant %q", cmds, exp)
	}
}

func TestCommandsReplace(t *testing.T) {
	nets := []models.NetworkProfile{{ID: 0, SSID: "Other"}, {ID: 4, SSID: "Net"}}
	plan, err := NewPlan(nets, desired(models.MethodReplace))
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	cmds := plan.Commands(nets)
	if cmds[0] != "remove_network 4" || cmds[1] != "list_networks" || cmds[2] != "add_network" {
		t.Errorf("unexpected prefix %q", cmds[:3])
	}
	if cmds[3] != `set_network 1 ssid "Net"` {
		t.Errorf("expected new id 1, got %q", cmds[3])
	}
}
