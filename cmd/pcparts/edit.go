package main

import (
	"fmt"
	"strconv"

	"github.com/jacksmith/pcparts/internal/cli"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a part",
	Long: `Edit a part's fields. The id itself cannot be changed.

Use flags to change specific fields, or -i to edit in $EDITOR.
The id may be a unique prefix of a part id.

Examples:
  pcparts edit CPU-001 --price 299.99
  pcparts edit CPU-001 --stock 0
  pcparts edit gpu -i`,
	Args:              cobra.ExactArgs(1),
	RunE:              runEdit,
	ValidArgsFunction: completePartIDs,
}

var (
	editName        string
	editBrand       string
	editPrice       string
	editStock       string
	editDescription string
	editInteractive bool
)

func init() {
	editCmd.Flags().StringVar(&editName, "name", "", "set part name")
	editCmd.Flags().StringVar(&editBrand, "brand", "", "set brand")
	editCmd.Flags().StringVar(&editPrice, "price", "", "set price before tax")
	editCmd.Flags().StringVar(&editStock, "stock", "", "set units in stock")
	editCmd.Flags().StringVar(&editDescription, "description", "", "set description")
	editCmd.Flags().BoolVarP(&editInteractive, "interactive", "i", false, "edit in $EDITOR")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx, cancel := s.context()
	defer cancel()

	if err := s.catalog.LoadAll(ctx); err != nil {
		return err
	}
	p, err := cli.ResolvePart(args[0], s.catalog.Parts())
	if err != nil {
		return err
	}

	s.catalog.BeginEdit(p)
	draft := s.catalog.Draft()
	hasChanges := false

	if editName != "" {
		draft.Name = editName
		hasChanges = true
	}
	if editBrand != "" {
		draft.Brand = editBrand
		hasChanges = true
	}
	if editPrice != "" {
		price, err := cli.ParsePrice(editPrice)
		if err != nil {
			return err
		}
		draft.Price = price
		hasChanges = true
	}
	if editStock != "" {
		stock, err := parseStock(editStock)
		if err != nil {
			return err
		}
		draft.Stock = stock
		hasChanges = true
	}
	if editDescription != "" {
		draft.Description = editDescription
		hasChanges = true
	}

	if editInteractive {
		edited, changed, err := cli.EditDraft(draft)
		if err != nil {
			return err
		}
		draft = edited
		hasChanges = hasChanges || changed
	}

	if !hasChanges {
		s.catalog.CancelEdit()
		if editInteractive {
			fmt.Println("No changes.")
			return nil
		}
		return &cli.ValidationError{Message: "nothing to change; pass a field flag or -i"}
	}

	if err := s.catalog.SetDraft(draft); err != nil {
		return err
	}
	if err := s.catalog.Submit(ctx); err != nil {
		return err
	}

	fmt.Printf("Updated %s %s\n", draft.ID, draft.Name)
	s.warnLastError()
	return nil
}

// parseStock converts a --stock flag value.
func parseStock(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &cli.ValidationError{Field: "stock", Message: fmt.Sprintf("%q is not a whole number", v)}
	}
	return n, nil
}
