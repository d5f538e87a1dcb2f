package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnholliday/sanyam-ide-sub000/lsp"
	"github.com/johnholliday/sanyam-ide-sub000/outline"
)

func newOutlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the symbol outline for a file via the configured language server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := lsp.NewClient(lsp.ProcessConfig{
				Command:    globalCfg.LSP.Command,
				Args:       globalCfg.LSP.Args,
				RootDir:    workspace,
				LanguageID: globalCfg.LSP.LanguageID,
			})
			if err != nil {
				return fmt.Errorf("start language server: %w", err)
			}
			defer client.Close()

			builder := outline.NewBuilder(log.Default())
			tree, ok := builder.Build(cmd.Context(), args[0], []outline.Provider{client})
			if !ok {
				return fmt.Errorf("outline build cancelled")
			}
			printTree(cmd, tree, 0)
			return nil
		},
	}
}

func printTree(cmd *cobra.Command, nodes []*outline.SymbolNode, depth int) {
	for _, n := range nodes {
		marker := " "
		if n.Expanded {
			marker = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s (%d:%d)\n",
			strings.Repeat("  ", depth), marker, n.Name,
			n.SelectionRange.Start.Line, n.SelectionRange.Start.Character)
		printTree(cmd, n.Children, depth+1)
	}
}
