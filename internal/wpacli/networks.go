package wpacli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/all-dot-files/wifiprov/internal/models"
	apperrors "github.com/all-dot-files/wifiprov/pkg/errors"
)

// list_networks header columns
const (
	colID    = "network id"
	colSSID  = "ssid"
	colBSSID = "bssid"
	colFlags = "flags"
)

var headerSepRE = regexp.MustCompile(`\s*/\s*`)

// ListNetworks returns every configured network in daemon order, enriched
// with id_str, priority and key_mgmt.
func (c *Client) ListNetworks() ([]models.NetworkProfile, error) {
	lines, err := c.run("list_networks", "list_networks")
	if err != nil {
		return nil, err
	}
	if r := dataResult("list_networks", lines); !r.OK {
		return nil, apperrors.Wrap(r.Err(), apperrors.ErrDaemon, "ListNetworks", "daemon refused to list networks")
	}

	networks, err := parseNetworkList(lines)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDaemon, "ListNetworks", "unexpected list_networks output")
	}

	for i := range networks {
		if err := c.enrich(&networks[i]); err != nil {
			return nil, err
		}
	}
	return networks, nil
}

func (c *Client) enrich(n *models.NetworkProfile) error {
	idStr, _, err := c.GetNetwork(n.ID, "id_str")
	if err != nil {
		return err
	}
	n.IDStr = idStr

	prio, ok, err := c.GetNetwork(n.ID, "priority")
	if err != nil {
		return err
	}
	if ok {
		if p, err := strconv.Atoi(prio); err == nil {
			n.Priority = &p
		}
	}

	keyMgmt, _, err := c.GetNetwork(n.ID, "key_mgmt")
	if err != nil {
		return err
	}
	n.KeyMgmt = keyMgmt
	return nil
}

// parseNetworkList maps the tab separated rows onto the header columns.
func parseNetworkList(lines []string) ([]models.NetworkProfile, error) {
	header := -1
	for i, line := range lines {
		if strings.Contains(line, " / ") {
			header = i
			break
		}
	}
	if header < 0 {
		if len(lines) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("no header line in %d line(s)", len(lines))
	}

	var cols []string
	for _, col := range headerSepRE.Split(lines[header], -1) {
		cols = append(cols, strings.ToLower(strings.TrimSpace(col)))
	}

	networks := []models.NetworkProfile{}
	for _, line := range lines[header+1:] {
		fields := strings.Split(line, "\t")
		row := make(map[string]string, len(cols))
		for i, col := range cols {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[colID]))
		if err != nil {
			return nil, fmt.Errorf("bad network id in %q", line)
		}
		networks = append(networks, models.NetworkProfile{
			ID:    id,
			SSID:  row[colSSID],
			BSSID: row[colBSSID],
			Flags: row[colFlags],
		})
	}
	return networks, nil
}

// MaxID returns the highest network id, or -1 for an empty list.
func MaxID(networks []models.NetworkProfile) int {
	highest := -1
	for _, n := range networks {
		if n.ID > highest {
			highest = n.ID
		}
	}
	return highest
}
