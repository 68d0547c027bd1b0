package http

import (
	"embed"
	"html/template"
	"strconv"

	"profitpredict/form"
	"profitpredict/ml"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"cell":            formatCell,
		"computingNotice": func() string { return form.ComputingNotice },
	}).ParseFS(templateFS, "templates/index.html"),
)

// formatCell prints a summary value; the encoded state is an integer code.
func formatCell(column string, v float64) string {
	if column == ml.FeatureStateEncoded {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
