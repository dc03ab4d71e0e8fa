package main

import (
	"fmt"

	"github.com/jacksmith/pcparts/internal/cli"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Remove parts",
	Long: `Remove one or more parts from the catalog.

Each id may be a unique prefix of a part id. Parts are removed in order and
the command stops at the first failure.

Examples:
  pcparts rm CPU-001
  pcparts rm CPU-001 GPU-002`,
	Args:              cobra.MinimumNArgs(1),
	RunE:              runRm,
	ValidArgsFunction: completePartIDs,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx, cancel := s.context()
	defer cancel()

	if err := s.catalog.LoadAll(ctx); err != nil {
		return err
	}

	for _, arg := range args {
		p, err := cli.ResolvePart(arg, s.catalog.Parts())
		if err != nil {
			return err
		}
		if err := s.catalog.Delete(ctx, p.Key); err != nil {
			return err
		}
		fmt.Printf("Deleted %s %s\n", p.ID, p.Name)
	}
	s.warnLastError()
	return nil
}
