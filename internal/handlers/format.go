package handlers

import (
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// formatRupiah renders whole Rupiah with Indonesian digit grouping, e.g.
// "Rp 15.000".
func formatRupiah(amount int64) string {
	return "Rp " + idPrinter.Sprintf("%d", amount)
}

// TemplateFuncs are the helpers available to the order page.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"rupiah": formatRupiah,
	}
}
