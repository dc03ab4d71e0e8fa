package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/jacksmith/pcparts/internal/api"
	"github.com/jacksmith/pcparts/internal/cli"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a part",
	Long: `Show one part with its tax and total.

The id may be a unique prefix of a part id.

Examples:
  pcparts show CPU-001
  pcparts show gpu`,
	Args:              cobra.ExactArgs(1),
	RunE:              runShow,
	ValidArgsFunction: completePartIDs,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx, cancel := s.context()
	defer cancel()

	found, err := s.client.Get(ctx, args[0])
	if err == nil {
		cli.RenderPart(os.Stdout, *found)
		return nil
	}

	var re *api.ResponseError
	if !errors.As(err, &re) || re.StatusCode != http.StatusNotFound {
		return err
	}

	// Not an exact id; try it as a prefix of a listed one.
	if err := s.catalog.LoadAll(ctx); err != nil {
		return err
	}
	p, err := cli.ResolvePart(args[0], s.catalog.Parts())
	if err != nil {
		return err
	}
	cli.RenderPart(os.Stdout, p)
	return nil
}
