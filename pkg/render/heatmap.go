package render

import (
	"html/template"
	"io"
	"strconv"

	"github.com/yumyai/domcomb/pkg/distance"
)

// HeatmapCell is one colored distance of the heatmap table.
type HeatmapCell struct {
	Value float64
	Color string
}

// HeatmapRow is one genome of the heatmap table.
type HeatmapRow struct {
	ID    string
	Cells []HeatmapCell
}

// arrangeMatrix lays out the matrix rows with their colors.
func arrangeMatrix(m *distance.Matrix) []HeatmapRow {
	rows := make([]HeatmapRow, m.Size())
	for i := range rows {
		values := m.Row(i)
		cells := make([]HeatmapCell, len(values))
		for j, v := range values {
			cells[j] = HeatmapCell{Value: v, Color: colorByDistance(v)}
		}
		rows[i] = HeatmapRow{ID: m.Identifier(i), Cells: cells}
	}
	return rows
}

var heatmapPageTemplate *template.Template

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>{{.Title}}</title>
		<style>
			table.heatmap { border-collapse: collapse; font-size: 0.8rem; }
			table.heatmap td, table.heatmap th { padding: 4px 6px; text-align: center; }
			.rotate-text { writing-mode: vertical-rl; }
		</style>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name">{{.Title}}</h1>
			<p class="app-description">{{.Metric}} distance{{if .Resampling}}, jackknife resampling {{.Resampling}}{{end}}</p>
		</header>
		<div class="legend">
			<span>0</span>
			<span style="background: linear-gradient(90deg,#FFFFFF,#08306B); padding: 0 40px;"></span>
			<span>1</span>
		</div>
		{{template "table" .}}
	</body>
	</html>`

	tableTmpl := `
	{{define "table"}}
	<table class="heatmap" border="1">
		<tr>
			<th></th>
			{{range .IDs}}<th class="rotate-text">{{.}}</th>{{end}}
		</tr>
		{{range .Rows}}
		<tr>
			<th>{{.ID}}</th>
			{{range .Cells}}<td bgcolor="{{.Color}}">{{distance .Value}}</td>{{end}}
		</tr>
		{{end}}
	</table>
	{{end}}`

	funcMap := template.FuncMap{
		"distance": func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) },
	}

	heatmapPageTemplate = template.New("heatmap").Funcs(funcMap)
	heatmapPageTemplate = template.Must(heatmapPageTemplate.Parse(mainTmpl))
	heatmapPageTemplate = template.Must(heatmapPageTemplate.Parse(tableTmpl))
}

// RenderMatrixHeatmapPage renders a distance matrix as a colored table.
// resampling 0 is the full data set.
func RenderMatrixHeatmapPage(w io.Writer, title string, metric distance.Metric, resampling int, m *distance.Matrix) error {
	data := struct {
		Title      string
		Metric     string
		Resampling int
		IDs        []string
		Rows       []HeatmapRow
	}{
		Title:      title,
		Metric:     metric.String(),
		Resampling: resampling,
		IDs:        m.Identifiers(),
		Rows:       arrangeMatrix(m),
	}
	return heatmapPageTemplate.Execute(w, data)
}
