package crypto

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/all-dot-files/wifiprov/pkg/errors"
)

const (
	// IEEE 802.11i PSK derivation parameters
	PSKIterations = 4096
	PSKKeyLen     = 32

	MinPassphraseLen = 8
	MaxPassphraseLen = 63
	MaxSSIDLen       = 32
)

// DerivePSK derives the 256-bit pre-shared key from an ASCII passphrase
// and SSID and returns it hex encoded.
func DerivePSK(passphrase, ssid string) (string, error) {
	if n := len(passphrase); n < MinPassphraseLen || n > MaxPassphraseLen {
		return "", errors.New(errors.ErrConfig, "DerivePSK",
			fmt.Sprintf("passphrase must be %d..%d characters, got %d", MinPassphraseLen, MaxPassphraseLen, n))
	}
	if n := len(ssid); n == 0 || n > MaxSSIDLen {
		return "", errors.New(errors.ErrConfig, "DerivePSK",
			fmt.Sprintf("ssid must be 1..%d bytes, got %d", MaxSSIDLen, n))
	}
	for _, r := range passphrase {
		if r < 32 || r > 126 {
			return "", errors.New(errors.ErrConfig, "DerivePSK", "passphrase must be printable ASCII")
		}
	}

	key := pbkdf2.Key([]byte(passphrase), []byte(ssid), PSKIterations, PSKKeyLen, sha1.New)
	return hex.EncodeToString(key), nil
}

// NetworkBlock renders a wpa_supplicant network block for the SSID. The
// plaintext passphrase is kept as a comment, as wpa_passphrase does.
func NetworkBlock(ssid, passphrase string) (string, error) {
	psk, err := DerivePSK(passphrase, ssid)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("network={\n\tssid=%q\n\t#psk=%q\n\tpsk=%s\n}\n", ssid, passphrase, psk), nil
}
