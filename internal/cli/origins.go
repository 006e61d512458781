package cli

import (
	"fmt"

	"github.com/agentx-labs/typelocator/internal/config"
	"github.com/spf13/cobra"
)

var originsCmd = &cobra.Command{
	Use:   "origins <type>",
	Short: "Show where a type was found and which contracts list it",
	Long: `Show every directory or archive a type unit was found in, and every configured
contract the type is registered under. More than one origin means the type is
provided twice; the unit with the highest version is used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(config.Current())
		if err != nil {
			return err
		}
		name := args[0]
		out := cmd.OutOrStdout()

		origins := reg.Resolver().OriginsOf(name)
		if len(origins) == 0 && !reg.Resolver().Index().Contains(name) {
			return fmt.Errorf("type %q not found on the search path", name)
		}
		fmt.Fprintln(out, name)
		fmt.Fprintln(out, "  origins:")
		for _, o := range origins {
			fmt.Fprintf(out, "    %s\n", o)
		}

		reg.UpdateAllCaches()
		fmt.Fprintln(out, "  contracts:")
		for _, c := range reg.ContractsFor(name) {
			fmt.Fprintf(out, "    %s\n", c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(originsCmd)
}
