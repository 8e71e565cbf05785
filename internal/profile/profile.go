// Package profile reads the desired-network credential file.
//
// The file is line oriented: '#' starts a comment anywhere on a line,
// blank lines are ignored, everything else is key=value with an optional
// pair of double quotes around the value. Keys are case-insensitive.
package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/all-dot-files/wifiprov/internal/models"
	"github.com/all-dot-files/wifiprov/pkg/errors"
)

const (
	keyIface    = "iface"
	keyMethod   = "method"
	keySSID     = "ssid"
	keyPSK      = "psk"
	keyIDStr    = "id_str"
	keyPriority = "priority"
	keyKeyMgmt  = "key_mgmt"

	// DefaultPath is read when no file is named
	DefaultPath = "/boot/wifi.conf"

	idStrPrefix = "wifiprov-"
)

// idStrSpace namespaces generated labels
var idStrSpace = uuid.MustParse("5b0f3f8e-6c1a-4d2b-9a57-0e7c2d4f1a90")

// Load reads and validates a credential file
func Load(path string) (*models.DesiredProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrNotFound, "profile.Load",
				fmt.Sprintf("credential file %s does not exist", path))
		}
		return nil, errors.Wrap(err, errors.ErrConfig, "profile.Load",
			fmt.Sprintf("cannot read %s", path))
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, err
	}
	p.Source = path
	return p, nil
}

// Parse reads a credential file from r
func Parse(r io.Reader) (*models.DesiredProfile, error) {
	values := map[string]string{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, errors.New(errors.ErrConfig, "profile.Parse",
				fmt.Sprintf("line %d: expected key=value, got %q", lineNo, line))
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, errors.New(errors.ErrConfig, "profile.Parse",
				fmt.Sprintf("line %d: empty key", lineNo))
		}
		values[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, "profile.Parse", "failed to read credential file")
	}

	return build(values)
}

func build(values map[string]string) (*models.DesiredProfile, error) {
	for _, k := range []string{keyIface, keyMethod, keySSID, keyPSK} {
		if values[k] == "" {
			return nil, errors.New(errors.ErrConfig, "profile.Parse",
				fmt.Sprintf("required key %s is missing", strings.ToUpper(k))).
				WithSuggestion("the credential file needs IFACE, METHOD, ssid and psk")
		}
	}

	method, err := models.ParseMethod(values[keyMethod])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, "profile.Parse", "invalid METHOD")
	}

	p := &models.DesiredProfile{
		Iface:   values[keyIface],
		Method:  method,
		SSID:    values[keySSID],
		PSK:     values[keyPSK],
		KeyMgmt: values[keyKeyMgmt],
		IDStr:   values[keyIDStr],
	}
	if p.KeyMgmt == "" {
		p.KeyMgmt = models.DefaultKeyMgmt
	}
	if p.IDStr != "" {
		p.IDStrExplicit = true
	} else {
		p.IDStr = DefaultIDStr(p.SSID)
	}

	if raw, ok := values[keyPriority]; ok && raw != "" {
		prio, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfig, "profile.Parse",
				fmt.Sprintf("priority %q is not an integer", raw))
		}
		p.Priority = &prio
	}
	return p, nil
}

// DefaultIDStr derives a stable label for an SSID
func DefaultIDStr(ssid string) string {
	id := uuid.NewSHA1(idStrSpace, []byte(ssid))
	return idStrPrefix + strings.ReplaceAll(id.String(), "-", "")[:8]
}

// unquote removes one pair of surrounding double quotes
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Resolve picks the credential file: an explicit path wins, then dir/file,
// then fallback.
func Resolve(path, dir, file, fallback string) (string, error) {
	switch {
	case path != "":
		return path, nil
	case dir != "" && file != "":
		return filepath.Join(dir, file), nil
	case dir != "" || file != "":
		return "", errors.New(errors.ErrConfig, "profile.Resolve", "--dir and --file must be given together")
	case fallback != "":
		return fallback, nil
	default:
		return DefaultPath, nil
	}
}

// Retire renames a processed file to path+suffix and returns the new name.
func Retire(path, suffix string) (string, error) {
	if suffix == "" {
		return "", errors.New(errors.ErrConfig, "profile.Retire", "empty suffix")
	}
	target := path + suffix
	if _, err := os.Stat(target); err == nil {
		return "", errors.New(errors.ErrConflict, "profile.Retire",
			fmt.Sprintf("%s already exists", target)).
			WithSuggestion("remove the old processed file first")
	}
	if err := os.Rename(path, target); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "profile.Retire",
			fmt.Sprintf("failed to rename %s", path))
	}
	return target, nil
}
