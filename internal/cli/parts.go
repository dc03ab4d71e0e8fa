package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jacksmith/pcparts/internal/model"
)

// Column indexes of the parts table.
const (
	colID = iota
	colName
	colBrand
	colPrice
	colTax
	colTotal
	colStock
)

// RenderParts writes parts as a table with a header row and the derived tax
// columns. Out-of-stock counts are shown in red.
func RenderParts(w io.Writer, parts []model.Part) {
	if len(parts) == 0 {
		fmt.Fprintln(w, "No parts found.")
		return
	}

	table := NewTable()
	table.SetMaxWidth(colName, DefaultMaxNameWidth)
	for _, col := range []int{colPrice, colTax, colTotal, colStock} {
		table.SetAlignRight(col)
	}
	table.AddRow(Bold("ID"), Bold("Name"), Bold("Brand"), Bold("Price"), Bold("Tax (15%)"), Bold("Total"), Bold("Stock"))

	for _, p := range parts {
		tf := model.ComputeTaxFields(p)
		table.AddRow(
			p.ID,
			p.Name,
			p.Brand,
			model.FormatMoney(tf.Price),
			model.FormatMoney(tf.Tax),
			model.FormatMoney(tf.TotalWithTax),
			stockCell(p),
		)
	}
	table.Render(w)
}

// RenderPart writes a single part as labelled lines.
func RenderPart(w io.Writer, p model.Part) {
	tf := model.ComputeTaxFields(p)

	table := NewTable()
	table.AddRow(Gray("ID:"), p.ID)
	table.AddRow(Gray("Name:"), p.Name)
	table.AddRow(Gray("Brand:"), p.Brand)
	table.AddRow(Gray("Price:"), model.FormatMoney(tf.Price))
	table.AddRow(Gray("Tax (15%):"), model.FormatMoney(tf.Tax))
	table.AddRow(Gray("Total:"), model.FormatMoney(tf.TotalWithTax))
	table.AddRow(Gray("Stock:"), stockCell(p))
	if p.Description != "" {
		table.AddRow(Gray("Description:"), p.Description)
	}
	if p.Persisted() {
		table.AddRow(Gray("Key:"), Gray(p.Key))
	}
	table.Render(w)
}

func stockCell(p model.Part) string {
	s := strconv.Itoa(p.Stock)
	if !p.InStock() {
		return Red(s)
	}
	return s
}
