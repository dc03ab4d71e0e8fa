package main

import (
	"os"

	"github.com/jacksmith/pcparts/internal/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List parts",
	Long: `List parts with their price, 15% tax, total and stock.

--search keeps only parts whose id contains the term, ignoring case.

Examples:
  pcparts list
  pcparts list --search cpu`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listSearch string

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by id substring")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx, cancel := s.context()
	defer cancel()

	if err := s.catalog.LoadAll(ctx); err != nil {
		return err
	}

	cli.RenderParts(os.Stdout, s.catalog.Filter(listSearch))
	return nil
}
