package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/agentx-labs/typelocator/internal/config"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered namespaces or configured contracts",
}

var listPackagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List every namespace on the search path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openResolver(config.Current())
		if err != nil {
			return err
		}
		for _, ns := range r.Namespaces() {
			fmt.Fprintln(cmd.OutOrStdout(), ns)
		}
		return nil
	},
}

var listContractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List configured contracts with their namespaces and type counts",
	Args:  cobra.NoArgs,
	RunE:  runListContracts,
}

func init() {
	listContractsCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.AddCommand(listPackagesCmd)
	listCmd.AddCommand(listContractsCmd)
	rootCmd.AddCommand(listCmd)
}

// contractEntry represents a configured contract for display.
type contractEntry struct {
	Contract   string   `json:"contract"`
	Namespaces []string `json:"namespaces"`
	Types      []string `json:"types"`
}

func runListContracts(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry(config.Current())
	if err != nil {
		return err
	}
	reg.UpdateAllCaches()

	var entries []contractEntry
	for _, c := range reg.Contracts() {
		entries = append(entries, contractEntry{
			Contract:   c,
			Namespaces: reg.Namespaces(c),
			Types:      reg.Names(c),
		})
	}

	out := cmd.OutOrStdout()
	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No contracts configured.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONTRACT\tNAMESPACES\tTYPES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\n", e.Contract, strings.Join(e.Namespaces, ","), len(e.Types))
	}
	return w.Flush()
}
