package main

import (
	"fmt"

	"github.com/jacksmith/pcparts/internal/cli"
	"github.com/jacksmith/pcparts/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new part",
	Long: `Add a new part to the catalog.

Use flags to fill in the fields, or -i to fill in a form in $EDITOR
(flags given alongside -i pre-fill the form).

Examples:
  pcparts add --id CPU-001 --name "Ryzen 7 7700X" --brand AMD --price 329.99 --stock 5
  pcparts add --id GPU-002 -i`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var (
	addID          string
	addName        string
	addBrand       string
	addPrice       string
	addStock       int
	addDescription string
	addInteractive bool
)

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "part id (unique)")
	addCmd.Flags().StringVar(&addName, "name", "", "part name")
	addCmd.Flags().StringVar(&addBrand, "brand", "", "brand")
	addCmd.Flags().StringVar(&addPrice, "price", "0", "price before tax")
	addCmd.Flags().IntVar(&addStock, "stock", 0, "units in stock")
	addCmd.Flags().StringVar(&addDescription, "description", "", "free-form description")
	addCmd.Flags().BoolVarP(&addInteractive, "interactive", "i", false, "fill in the part in $EDITOR")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	price, err := cli.ParsePrice(addPrice)
	if err != nil {
		return err
	}
	draft := model.Draft{
		ID:          addID,
		Name:        addName,
		Brand:       addBrand,
		Price:       price,
		Stock:       addStock,
		Description: addDescription,
	}

	if addInteractive {
		edited, changed, err := cli.EditDraft(draft)
		if err != nil {
			return err
		}
		if !changed && draft.ID == "" {
			fmt.Println("Nothing added.")
			return nil
		}
		draft = edited
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	ctx, cancel := s.context()
	defer cancel()

	if err := s.catalog.SetDraft(draft); err != nil {
		return err
	}
	if err := s.catalog.Submit(ctx); err != nil {
		return err
	}

	fmt.Printf("Added %s %s\n", draft.ID, draft.Name)
	s.warnLastError()
	return nil
}
