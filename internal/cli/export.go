package cli

import (
	"fmt"

	"github.com/agentx-labs/typelocator/internal/config"
	"github.com/spf13/cobra"
)

var (
	exportNamespaces bool
	exportOutput     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the resolved contract tables",
	Long: `Resolve every configured contract and print contract to names in properties
format. With --namespaces, print contract to namespaces instead. Both outputs
can be read back as --packages tables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(config.Current())
		if err != nil {
			return err
		}
		reg.UpdateAllCaches()

		table := reg.ExportNames()
		if exportNamespaces {
			table = reg.ExportNamespaces()
		}
		if exportOutput != "" {
			if err := table.WriteFile(exportOutput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d contracts to %s\n", table.Len(), exportOutput)
			return nil
		}
		return table.Write(cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportNamespaces, "namespaces", false, "Export contract to namespaces instead of contract to names")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
