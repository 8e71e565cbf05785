package cli

import (
	"log/slog"
	"net"
	"strings"
)

// ifaceCompletionProvider lists wireless interface names for completions.
type ifaceCompletionProvider struct {
	interfaces func() ([]net.Interface, error)
	log        *slog.Logger
}

func newIfaceCompletionProvider(log *slog.Logger) *ifaceCompletionProvider {
	return &ifaceCompletionProvider{interfaces: net.Interfaces, log: log}
}

// Names returns interfaces that look wireless (wl*, wlan*), or every
// non-loopback interface when none do.
func (p *ifaceCompletionProvider) Names() []string {
	ifaces, err := p.interfaces()
	if err != nil {
		if p.log != nil {
			p.log.Warn("completion interface list unavailable", "err", err)
		}
		return nil
	}
	var wireless, other []string
	for _, i := range ifaces {
		if i.Flags&net.FlagLoopback != 0 || i.Name == "" {
			continue
		}
		if strings.HasPrefix(i.Name, "wl") {
			wireless = append(wireless, i.Name)
		} else {
			other = append(other, i.Name)
		}
	}
	if len(wireless) > 0 {
		return wireless
	}
	return other
}
