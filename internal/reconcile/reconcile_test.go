package reconcile

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/all-dot-files/wifiprov/internal/models"
	"github.com/all-dot-files/wifiprov/internal/profile"
	"github.com/all-dot-files/wifiprov/internal/wpacli"
	"github.com/all-dot-files/wifiprov/internal/wpacli/wpaclitest"
	"github.com/all-dot-files/wifiprov/pkg/errors"
)

func desired(method models.Method) *models.DesiredProfile {
	return &models.DesiredProfile{
		Iface:   "wlan0",
		Method:  method,
		SSID:    "Net",
		PSK:     "secret123",
		KeyMgmt: models.DefaultKeyMgmt,
		IDStr:   profile.DefaultIDStr("Net"),
	}
}

// run lists the fake daemon and reconciles against it.
func run(t *testing.T, d *wpaclitest.Daemon, want *models.DesiredProfile, opts Options) (*Report, error) {
	t.Helper()
	client := wpacli.NewClient(d, wpacli.Options{Iface: "wlan0"})
	networks, err := client.ListNetworks()
	if err != nil {
		t.Fatalf("ListNetworks: %v", err)
	}
	d.Calls = nil
	return New(client, opts).Reconcile(networks, want)
}

func assertFields(t *testing.T, d *wpaclitest.Daemon, id int, want *models.DesiredProfile) {
	t.Helper()
	got := map[string]string{
		"ssid":     d.Field(id, "ssid"),
		"psk":      d.Field(id, "psk"),
		"key_mgmt": d.Field(id, "key_mgmt"),
		"id_str":   d.Field(id, "id_str"),
	}
	exp := map[string]string{
		"ssid":     want.SSID,
		"psk":      want.PSK,
		"key_mgmt": want.KeyMgmt,
		"id_str":   want.IDStr,
	}
	if !reflect.DeepEqual(got, exp) {
		t.Errorf("network %d fields = %v, want %v", id, got, exp)
	}
}

func TestAddFromEmpty(t *testing.T) {
	d := wpaclitest.New()
	want := desired(models.MethodIntegrate)

	report, err := run(t, d, want, Options{})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.Action != models.ActionAdd || report.NetworkID != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	var got []string
	for _, c := range d.Mutations() {
		if c.Command == "note" {
			got = append(got, "note")
			continue
		}
		got = append(got, c.String())
	}
	exp := []string{
		"add_network",
		`set_network 0 ssid "Net"`,
		`set_network 0 psk "secret123"`,
		"set_network 0 key_mgmt WPA-PSK",
		fmt.Sprintf(`set_network 0 id_str "%s"`, want.IDStr),
		"note",
		"save_config",
		"reassociate",
	}
	if !reflect.DeepEqual(got, exp) {
		t.Errorf("commands:\n got %q\nwant %q", got, exp)
	}
	assertFields(t, d, 0, want)
	if !d.Saved {
		t.Error("configuration was not saved")
	}
}

func TestAddAssignsMaxPlusOne(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Other", "")
	d.Seed(4, "Cafe", "")
	want := desired(models.MethodReplace)
	prio := 9
	want.Priority = &prio

	report, err := run(t, d, want, Options{})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.NetworkID != 5 {
		t.Fatalf("expected id 5, got %d", report.NetworkID)
	}
	assertFields(t, d, 5, want)
	if d.Networks[5]["priority"] != "9" {
		t.Errorf("priority should be sent bare, got %q", d.Networks[5]["priority"])
	}
	if len(d.Networks) != 3 {
		t.Errorf("expected 3 networks, got %d", len(d.Networks))
	}
}

func TestIntegrateModifiesInPlace(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Other", "")
	d.Seed(1, "Net", "")
	want := desired(models.MethodIntegrate)

	report, err := run(t, d, want, Options{})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.Action != models.ActionModify || report.NetworkID != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if n := len(d.CallsOf("add_network")) + len(d.CallsOf("remove_network")); n != 0 {
		t.Errorf("modify must not add or remove, saw %d", n)
	}
	if !reflect.DeepEqual(d.IDs(), []int{0, 1}) {
		t.Errorf("ids changed: %v", d.IDs())
	}
	assertFields(t, d, 1, want)
}

func TestReplaceRemovesAllMatches(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Net", "")
	d.Seed(1, "Other", "")
	d.Seed(2, "Net", "")
	want := desired(models.MethodReplace)

	report, err := run(t, d, want, Options{})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.Action != models.ActionReplace {
		t.Fatalf("expected replace, got %s", report.Action)
	}
	if !reflect.DeepEqual(report.Removed, []int{0, 2}) {
		t.Errorf("removed %v, want [0 2]", report.Removed)
	}

	var removed []string
	for _, c := range d.CallsOf("remove_network") {
		removed = append(removed, c.Args[0])
	}
	if !reflect.DeepEqual(removed, []string{"0", "2"}) {
		t.Errorf("removal order %v", removed)
	}

	matches := 0
	for _, id := range d.IDs() {
		if d.Field(id, "ssid") == "Net" {
			matches++
		}
	}
	if matches != 1 {
		t.Fatalf("expected exactly one Net entry, got %d", matches)
	}
	// post-removal listing holds only id 1
	if report.NetworkID != 2 {
		t.Errorf("expected new id 2, got %d", report.NetworkID)
	}
	assertFields(t, d, 2, want)
}

func TestReplaceUsesPostRemovalMax(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Other", "")
	d.Seed(7, "Net", "")

	report, err := run(t, d, desired(models.MethodReplace), Options{})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.NetworkID != 1 {
		t.Errorf("expected id 1 after removing 7, got %d", report.NetworkID)
	}
}

func TestIntegrateAmbiguousMutatesNothing(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Net", "")
	d.Seed(1, "Net", "")

	_, err := run(t, d, desired(models.MethodIntegrate), Options{})
	if !errors.IsCode(err, errors.ErrAmbiguous) {
		t.Fatalf("expected ambiguous error, got %v", err)
	}
	if m := d.Mutations(); len(m) != 0 {
		t.Errorf("expected no mutations, got %v", m)
	}
}

func TestMatchByExplicitIDStr(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Net", "home")
	d.Seed(1, "Net", "office")
	want := desired(models.MethodIntegrate)
	want.IDStr = "office"
	want.IDStrExplicit = true

	report, err := run(t, d, want, Options{})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.Action != models.ActionModify || report.NetworkID != 1 {
		t.Fatalf("expected modify of 1, got %+v", report)
	}
	if d.Field(0, "id_str") != "home" {
		t.Error("network 0 must be untouched")
	}
}

func TestAddRollsBackOnSetFailure(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Other", "")
	d.FailSet["psk"] = true

	_, err := run(t, d, desired(models.MethodIntegrate), Options{})
	if !errors.IsCode(err, errors.ErrDaemon) {
		t.Fatalf("expected daemon error, got %v", err)
	}
	if !reflect.DeepEqual(d.IDs(), []int{0}) {
		t.Errorf("added network should be rolled back, ids %v", d.IDs())
	}
	if d.Reconfigured != 1 {
		t.Errorf("expected one reconfigure, got %d", d.Reconfigured)
	}
	if d.Saved || len(d.CallsOf("reassociate")) != 0 {
		t.Error("failed run must not save or reassociate")
	}
	// every field is attempted before rolling back
	if n := len(d.CallsOf("set_network")); n != 4 {
		t.Errorf("expected 4 set_network calls, got %d", n)
	}
}

func TestModifyReconfiguresOnSetFailure(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(3, "Net", "")
	d.FailSet["id_str"] = true

	_, err := run(t, d, desired(models.MethodIntegrate), Options{})
	if !errors.IsCode(err, errors.ErrDaemon) {
		t.Fatalf("expected daemon error, got %v", err)
	}
	if d.Reconfigured != 1 || d.Saved {
		t.Errorf("expected reconfigure without save, reconfigured=%d saved=%v", d.Reconfigured, d.Saved)
	}
	if _, ok := d.Networks[3]; !ok {
		t.Error("modify failure must not remove the entry")
	}
}

func TestReplaceAbortsOnRemoveFailure(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Net", "")
	d.Seed(1, "Net", "")
	d.FailRemove[0] = true

	_, err := run(t, d, desired(models.MethodReplace), Options{})
	if !errors.IsCode(err, errors.ErrDaemon) {
		t.Fatalf("expected daemon error, got %v", err)
	}
	if n := len(d.CallsOf("remove_network")); n != 2 {
		t.Errorf("removal should continue past failures, got %d calls", n)
	}
	if len(d.CallsOf("add_network")) != 0 {
		t.Error("must not add after a failed removal")
	}
	if d.Reconfigured != 1 {
		t.Errorf("expected reconfigure, got %d", d.Reconfigured)
	}
}

func TestUnexpectedIDIsInconsistent(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Other", "")
	d.IDSkew = 3

	_, err := run(t, d, desired(models.MethodIntegrate), Options{})
	if !errors.IsCode(err, errors.ErrInconsistent) {
		t.Fatalf("expected inconsistent error, got %v", err)
	}
	if len(d.CallsOf("set_network")) != 0 {
		t.Error("no fields may be set after an id mismatch")
	}
}

func TestReplaceIDMismatchReconfigures(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Net", "")
	d.IDSkew = 5

	_, err := run(t, d, desired(models.MethodReplace), Options{})
	if !errors.IsCode(err, errors.ErrInconsistent) {
		t.Fatalf("expected inconsistent error, got %v", err)
	}
	if d.Reconfigured != 1 {
		t.Errorf("expected reconfigure to restore removed networks, got %d", d.Reconfigured)
	}
	if len(d.CallsOf("set_network")) != 0 {
		t.Error("no fields may be set after an id mismatch")
	}
}

func TestAddIDMismatchSkipsReconfigure(t *testing.T) {
	d := wpaclitest.New()
	d.Seed(0, "Other", "")
	d.IDSkew = 2

	_, err := run(t, d, desired(models.MethodIntegrate), Options{})
	if !errors.IsCode(err, errors.ErrInconsistent) {
		t.Fatalf("expected inconsistent error, got %v", err)
	}
	if d.Reconfigured != 0 {
		t.Errorf("nothing was removed, expected no reconfigure, got %d", d.Reconfigured)
	}
}

func TestSaveFailureIsDaemonError(t *testing.T) {
	d := wpaclitest.New()
	d.FailSave = true

	_, err := run(t, d, desired(models.MethodIntegrate), Options{})
	if !errors.IsCode(err, errors.ErrDaemon) {
		t.Fatalf("expected daemon error, got %v", err)
	}
}

func TestSpawnFailurePropagates(t *testing.T) {
	d := wpaclitest.New()
	client := wpacli.NewClient(d, wpacli.Options{Iface: "wlan0"})
	d.SpawnErr = fmt.Errorf("exec: not found")

	_, err := New(client, Options{}).Reconcile(nil, desired(models.MethodIntegrate))
	if !errors.IsCode(err, errors.ErrSpawn) {
		t.Fatalf("expected spawn error, got %v", err)
	}
}

func TestNoteCarriesPrefix(t *testing.T) {
	d := wpaclitest.New()
	if _, err := run(t, d, desired(models.MethodIntegrate), Options{NotePrefix: "usb"}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(d.Notes) != 1 || d.Notes[0] != "usb: add network 0 ssid=Net" {
		t.Errorf("unexpected notes %q", d.Notes)
	}
}

func TestDryRunMutatesNothing(t *testing.T) {
	cases := map[string]struct {
		seed   func(d *wpaclitest.Daemon)
		method models.Method
		action models.Action
	}{
		"add":     {func(d *wpaclitest.Daemon) {}, models.MethodIntegrate, models.ActionAdd},
		"modify":  {func(d *wpaclitest.Daemon) { d.Seed(2, "Net", "") }, models.MethodIntegrate, models.ActionModify},
		"replace": {func(d *wpaclitest.Daemon) { d.Seed(0, "Net", ""); d.Seed(1, "Net", "") }, models.MethodReplace, models.ActionReplace},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := wpaclitest.New()
			tc.seed(d)

			report, err := run(t, d, desired(tc.method), Options{DryRun: true})
			if err != nil {
				t.Fatalf("Reconcile: %v", err)
			}
			if !report.DryRun || report.Action != tc.action {
				t.Errorf("unexpected report %+v", report)
			}
			if len(report.Commands) == 0 {
				t.Error("dry-run should list planned commands")
			}
			if m := d.Mutations(); len(m) != 0 {
				t.Errorf("dry-run issued %v", m)
			}
		})
	}
}
