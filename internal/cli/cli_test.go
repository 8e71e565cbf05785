package cli

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/all-dot-files/wifiprov/internal/models"
	apperrors "github.com/all-dot-files/wifiprov/pkg/errors"
)

func TestIfaceCompletionPrefersWireless(t *testing.T) {
	p := &ifaceCompletionProvider{interfaces: func() ([]net.Interface, error) {
		return []net.Interface{
			{Name: "lo", Flags: net.FlagLoopback},
			{Name: "eth0"},
			{Name: "wlan0"},
		}, nil
	}}
	names := p.Names()
	if len(names) != 1 || names[0] != "wlan0" {
		t.Fatalf("expected [wlan0], got %v", names)
	}
}

func TestIfaceCompletionFallsBack(t *testing.T) {
	p := &ifaceCompletionProvider{interfaces: func() ([]net.Interface, error) {
		return []net.Interface{{Name: "lo", Flags: net.FlagLoopback}, {Name: "eth0"}}, nil
	}}
	if names := p.Names(); len(names) != 1 || names[0] != "eth0" {
		t.Fatalf("expected [eth0], got %v", names)
	}

	p.interfaces = func() ([]net.Interface, error) { return nil, errors.New("boom") }
	if names := p.Names(); names != nil {
		t.Fatalf("expected nil on error, got %v", names)
	}
}

func TestSetAndGetValue(t *testing.T) {
	cfg := models.DefaultConfig()

	if err := setValue(cfg, "history_limit", "50"); err != nil {
		t.Fatalf("set history_limit: %v", err)
	}
	if err := setValue(cfg, "ctrl_dir", "/run/wpa_supplicant"); err != nil {
		t.Fatalf("set ctrl_dir: %v", err)
	}
	if v, _ := getValue(cfg, "history_limit"); v != "50" {
		t.Errorf("history_limit = %q", v)
	}
	if v, _ := getValue(cfg, "ctrl_dir"); v != "/run/wpa_supplicant" {
		t.Errorf("ctrl_dir = %q", v)
	}

	if err := setValue(cfg, "history_limit", "zero"); err == nil {
		t.Error("expected error for non-numeric limit")
	}
	if err := setValue(cfg, "nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := getValue(cfg, "nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestPrintNetworks(t *testing.T) {
	priority := 5
	var out bytes.Buffer
	err := printNetworks(&out, []models.NetworkProfile{
		{ID: 0, SSID: "Home", IDStr: "home", KeyMgmt: "WPA-PSK", Priority: &priority, Flags: "[CURRENT]"},
		{ID: 1, SSID: "Guest"},
	})
	if err != nil {
		t.Fatalf("printNetworks: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", out.String())
	}
	if !strings.Contains(lines[1], "home") || !strings.Contains(lines[1], "[CURRENT]") {
		t.Errorf("unexpected row %q", lines[1])
	}
	if !strings.Contains(lines[2], "Guest") || !strings.Contains(lines[2], "-") {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestPrintErrorListsDaemonFailures(t *testing.T) {
	failed := apperrors.DaemonErrors{
		{Command: "set_network 1 psk", Reply: "FAIL"},
		{Command: "reconfigure", Reply: "FAIL"},
	}
	err := apperrors.Wrap(failed, apperrors.ErrDaemon, "reconcile.add", "2 daemon command(s) failed").
		WithSuggestion("check the wpa_supplicant log")

	var out bytes.Buffer
	fprintError(&out, err)
	text := out.String()
	for _, want := range []string{"2 daemon command(s) failed", "set_network 1 psk: FAIL", "reconfigure: FAIL", "check the wpa_supplicant log"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestSuggestionsOnlyForUnknownCommands(t *testing.T) {
	if got := suggestionsFor(rootCmd, []string{"aply"}); len(got) == 0 {
		t.Error("expected suggestions for mistyped command")
	}
	for _, args := range [][]string{
		{"apply", "--config", "/boot/wifi.conf"},
		{"list"},
		{"--settings", "/tmp/s.yaml", "apply"},
		{},
	} {
		if got := suggestionsFor(rootCmd, args); len(got) != 0 {
			t.Errorf("suggestionsFor(%v) = %v, want none", args, got)
		}
	}
}

func TestReportErrorForFailedApply(t *testing.T) {
	err := apperrors.New(apperrors.ErrConfig, "profile.build", "missing required key IFACE")

	var out bytes.Buffer
	reportError(&out, []string{"apply", "-c", "/boot/wifi.conf"}, err)
	text := out.String()
	if strings.Contains(text, "Did you mean") {
		t.Errorf("failed apply must not print suggestions:\n%s", text)
	}
	if !strings.Contains(text, "missing required key IFACE") {
		t.Errorf("error message missing:\n%s", text)
	}
}
