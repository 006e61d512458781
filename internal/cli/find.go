package cli

import (
	"fmt"
	"io"

	"github.com/agentx-labs/typelocator/internal/config"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <contract> <namespace>[,<namespace>...]",
	Short: "List types deriving from or satisfying a contract",
	Long: `List the types in the given namespaces (comma-separated) that derive from the
contract class, or satisfy the contract capability. Abstract and nested types
are never listed.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			cmd.PrintErr(cmd.UsageString())
			return fmt.Errorf("find needs a contract and a namespace list, got %d arguments", len(args))
		}
		return nil
	},
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	r, err := openResolver(config.Current())
	if err != nil {
		return err
	}
	names := r.ResolveNames(args[0], config.SplitList(args[1]))
	printFound(cmd.OutOrStdout(), args[0], args[1], names)
	return nil
}

// printFound writes the numbered result of a find.
func printFound(w io.Writer, contract, namespaces string, names []string) {
	fmt.Fprintf(w, "Searching for '%s' in '%s':\n", contract, namespaces)
	fmt.Fprintf(w, "  %d found.\n", len(names))
	for i, name := range names {
		fmt.Fprintf(w, "  %d. %s\n", i+1, name)
	}
}
