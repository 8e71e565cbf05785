package wpacli

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/all-dot-files/wifiprov/pkg/logger"
)

// DefaultPath is the client binary looked up in PATH
const DefaultPath = "wpa_cli"

// unquotedKeys are set as bare literals; every other value is a string
var unquotedKeys = map[string]bool{
	"key_mgmt": true,
	"priority": true,
}

// secretKeys never appear in logs
var secretKeys = map[string]bool{
	"psk":      true,
	"password": true,
}

// Options selects the client binary and the daemon interface
type Options struct {
	Path    string
	Iface   string
	CtrlDir string
}

// Client issues control commands to wpa_supplicant through wpa_cli.
type Client struct {
	runner Runner
	opts   Options
	log    *slog.Logger
}

// NewClient creates a client for one interface
func NewClient(runner Runner, opts Options) *Client {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	return &Client{
		runner: runner,
		opts:   opts,
		log:    logger.With("iface", opts.Iface),
	}
}

// Iface returns the interface the client talks to
func (c *Client) Iface() string {
	return c.opts.Iface
}

// FormatValue renders a set_network value, quoting string-typed fields.
func FormatValue(key, value string) string {
	if unquotedKeys[key] {
		return value
	}
	return `"` + value + `"`
}

// MaskValue hides secret values for display.
func MaskValue(key, value string) string {
	if secretKeys[key] {
		return `"********"`
	}
	return value
}

func (c *Client) argv(command string, args []string) []string {
	argv := make([]string, 0, len(args)+5)
	if c.opts.CtrlDir != "" {
		argv = append(argv, "-p", c.opts.CtrlDir)
	}
	if c.opts.Iface != "" {
		argv = append(argv, "-i", c.opts.Iface)
	}
	argv = append(argv, command)
	return append(argv, args...)
}

// run executes one command; logged is the redacted form used in logs.
func (c *Client) run(logged string, command string, args ...string) ([]string, error) {
	c.log.Debug("wpa_cli", "command", logged)
	lines, err := c.runner.Run(c.opts.Path, c.argv(command, args)...)
	if err != nil {
		return nil, err
	}
	c.log.Debug("wpa_cli reply", "command", logged, "lines", len(lines))
	return lines, nil
}

func (c *Client) ack(command string, args ...string) (Result, error) {
	name := strings.Join(append([]string{command}, args...), " ")
	lines, err := c.run(name, command, args...)
	if err != nil {
		return Result{}, err
	}
	return ackResult(name, lines), nil
}

// Status returns the key=value pairs of the status command.
func (c *Client) Status() (map[string]string, error) {
	lines, err := c.run("status", "status")
	if err != nil {
		return nil, err
	}
	if r := dataResult("status", lines); !r.OK {
		return nil, r.Err()
	}
	status := make(map[string]string, len(lines))
	for _, line := range lines {
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		status[k] = v
	}
	return status, nil
}

// GetNetwork reads one field of a network entry. ok is false when the
// daemon has no value for it.
func (c *Client) GetNetwork(id int, field string) (string, bool, error) {
	name := "get_network " + strconv.Itoa(id) + " " + field
	lines, err := c.run(name, "get_network", strconv.Itoa(id), field)
	if err != nil {
		return "", false, err
	}
	r := dataResult(name, lines)
	if !r.OK || len(lines) == 0 {
		return "", false, nil
	}
	return unquote(lines[0]), true, nil
}

// AddNetwork creates an empty network entry and returns its id.
func (c *Client) AddNetwork() (Result, int, error) {
	lines, err := c.run("add_network", "add_network")
	if err != nil {
		return Result{}, -1, err
	}
	r, id := idResult("add_network", lines)
	return r, id, nil
}

// SetNetwork sets one field, quoting the value when the field is a string.
func (c *Client) SetNetwork(id int, key, value string) (Result, error) {
	name := "set_network " + strconv.Itoa(id) + " " + key
	logged := name + " " + MaskValue(key, FormatValue(key, value))
	lines, err := c.run(logged, "set_network", strconv.Itoa(id), key, FormatValue(key, value))
	if err != nil {
		return Result{}, err
	}
	return ackResult(name, lines), nil
}

// RemoveNetwork deletes a network entry
func (c *Client) RemoveNetwork(id int) (Result, error) {
	return c.ack("remove_network", strconv.Itoa(id))
}

// Reconfigure makes the daemon reload its configuration file
func (c *Client) Reconfigure() (Result, error) {
	return c.ack("reconfigure")
}

// SaveConfig writes the running configuration to disk
func (c *Client) SaveConfig() (Result, error) {
	return c.ack("save_config")
}

// Reassociate forces a new association
func (c *Client) Reassociate() (Result, error) {
	return c.ack("reassociate")
}

// Note writes text into the daemon debug log
func (c *Client) Note(text string) (Result, error) {
	return c.ack("note", text)
}

// unquote strips one leading and one trailing double quote.
func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
