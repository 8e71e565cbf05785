package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wpa_supplicant connection status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		iface, _ := cmd.Flags().GetString("iface")

		status, err := newClient(iface).Status()
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(status))
		for k := range status {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", k+":", status[k])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringP("iface", "i", "", "wireless interface (default: wpa_cli's choice)")
	_ = statusCmd.RegisterFlagCompletionFunc("iface", ValidIfacesFunc)
}
