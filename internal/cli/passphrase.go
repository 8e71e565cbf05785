package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/all-dot-files/wifiprov/pkg/crypto"
)

var passphraseCmd = &cobra.Command{
	Use:   "passphrase <ssid> [passphrase]",
	Short: "Print a network block with the derived WPA PSK",
	Long: `Derive the 256-bit WPA PSK for an SSID and passphrase and print a
wpa_supplicant network block, like wpa_passphrase. When the passphrase is
omitted it is read from standard input.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ssid := args[0]

		var pass string
		if len(args) == 2 {
			pass = args[1]
		} else {
			fmt.Fprint(os.Stderr, "# reading passphrase from stdin\n")
			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read passphrase: %w", err)
			}
			pass = strings.TrimRight(line, "\r\n")
		}

		block, err := crypto.NetworkBlock(ssid, pass)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), block)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passphraseCmd)
}
