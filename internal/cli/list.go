package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/all-dot-files/wifiprov/internal/models"
	"github.com/all-dot-files/wifiprov/internal/wpacli"
)

// newClient builds a client for iface from the loaded settings
func newClient(iface string) *wpacli.Client {
	cfg := configManager.Get()
	return wpacli.NewClient(runner, wpacli.Options{
		Path:    cfg.WpaCli,
		Iface:   iface,
		CtrlDir: cfg.CtrlDir,
	})
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the networks configured in wpa_supplicant",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		iface, _ := cmd.Flags().GetString("iface")

		networks, err := newClient(iface).ListNetworks()
		if err != nil {
			return err
		}
		if len(networks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No networks configured.")
			return nil
		}
		return printNetworks(cmd.OutOrStdout(), networks)
	},
}

func printNetworks(out io.Writer, networks []models.NetworkProfile) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSSID\tID_STR\tPRIORITY\tKEY_MGMT\tFLAGS")
	for _, n := range networks {
		priority := "-"
		if n.Priority != nil {
			priority = strconv.Itoa(*n.Priority)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			n.ID, n.SSID, dash(n.IDStr), priority, dash(n.KeyMgmt), dash(n.Flags))
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("iface", "i", "", "wireless interface (default: wpa_cli's choice)")
	_ = listCmd.RegisterFlagCompletionFunc("iface", ValidIfacesFunc)
}
