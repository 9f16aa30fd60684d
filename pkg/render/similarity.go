package render

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/yumyai/domcomb/pkg/model"
	"github.com/yumyai/domcomb/pkg/similarity"
)

// SimilarityColumns is the fixed part of the similarity table header; one
// column per species follows.
var SimilarityColumns = []string{
	"domain_id", "mean", "sd", "median", "min", "max", "n", "species",
	"max_difference", "max_difference_in_counts",
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteSimilarityTSV writes one row per domain. Each species column holds
// the key domain count and the number of combinable domains as "count:combinable",
// empty when the species lacks the domain.
func WriteSimilarityTSV(w io.Writer, sims []*similarity.DomainSimilarity, species []model.Species) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := append([]string{}, SimilarityColumns...)
	for _, s := range species {
		header = append(header, s.String())
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write similarity header: %w", err)
	}

	for _, sim := range sims {
		record := []string{
			sim.DomainID,
			formatScore(sim.MeanSimilarityScore),
			formatScore(sim.StandardDeviation),
			formatScore(sim.MedianSimilarityScore),
			formatScore(sim.MinimalSimilarityScore),
			formatScore(sim.MaximalSimilarityScore),
			strconv.Itoa(sim.N),
			strconv.Itoa(sim.SpeciesCount()),
			strconv.Itoa(sim.MaximalDifference),
			strconv.Itoa(sim.MaximalDifferenceInCounts),
		}
		for _, s := range species {
			data, ok := sim.SpeciesData[s]
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, fmt.Sprintf("%d:%d", data.KeyDomainCount, data.CombinableDomainsCount))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write similarity of %s: %w", sim.DomainID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SpeciesCell is one species column of the HTML similarity table.
type SpeciesCell struct {
	Count    int
	Partners string
	Color    string
	Blank    bool
}

// SimilarityRow is the template view of one DomainSimilarity.
type SimilarityRow struct {
	*similarity.DomainSimilarity
	MeanColor string
	Cells     []SpeciesCell
}

// arrangeSpecies lays out the species data of sim in column order.
func arrangeSpecies(sim *similarity.DomainSimilarity, species []model.Species) []SpeciesCell {
	out := make([]SpeciesCell, 0, len(species))
	for _, s := range species {
		data, ok := sim.SpeciesData[s]
		if !ok {
			out = append(out, SpeciesCell{Color: "#FFFFFF", Blank: true})
			continue
		}
		partners := make([]string, 0, len(data.CombinationCounts))
		for id, n := range data.CombinationCounts {
			partners = append(partners, fmt.Sprintf("%s (%d)", id, n))
		}
		slices.Sort(partners)
		out = append(out, SpeciesCell{
			Count:    data.KeyDomainCount,
			Partners: strings.Join(partners, ", "),
			Color:    colorByCopyNumber(data.KeyDomainCount),
		})
	}
	return out
}

var similarityPageTemplate *template.Template

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>{{.Title}}</title>
		<style>
			table.simtable { border-collapse: collapse; font-size: 0.85rem; }
			table.simtable td, table.simtable th { padding: 2px 6px; }
			.rotate-text { writing-mode: vertical-rl; }
		</style>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name">{{.Title}}</h1>
			<p class="app-description">{{len .Rows}} domains, {{len .Species}} species, strategy {{.Strategy}}</p>
		</header>
		{{template "legend" .}}
		{{template "table" .}}
	</body>
	</html>`

	legendTmpl := `
	{{define "legend"}}
	<div class="legend">
		<span>Mean score:</span>
		<span style="background: linear-gradient(90deg,#FF0000,#FFFF00,#00FF00); padding: 0 40px;"></span>
		<span>0 to 1</span>
		<span>Key domain copies:</span>
		<span style="background:#FFFFB2; padding: 0 8px;">1</span>
		<span style="background:#FECC5C; padding: 0 8px;">2</span>
		<span style="background:#FD8D3C; padding: 0 8px;">3</span>
		<span style="background:#F03B20; padding: 0 8px;">4</span>
		<span style="background:#BD0026; padding: 0 8px;">5+</span>
	</div>
	{{end}}`

	tableTmpl := `
	{{define "table"}}
	<table class="simtable" border="1">
		<tr>
			<th>Domain</th><th>Mean</th><th>SD</th><th>Median</th><th>Min</th><th>Max</th>
			<th>N</th><th>Species</th><th>Max difference</th><th>Max counts difference</th>
			{{range .Species}}<th class="rotate-text">{{.}}</th>{{end}}
		</tr>
		{{range .Rows}}
		<tr>
			<td>{{.DomainID}}</td>
			<td bgcolor="{{.MeanColor}}">{{score .MeanSimilarityScore}}</td>
			<td>{{score .StandardDeviation}}</td>
			<td>{{score .MedianSimilarityScore}}</td>
			<td>{{score .MinimalSimilarityScore}}</td>
			<td>{{score .MaximalSimilarityScore}}</td>
			<td>{{.N}}</td>
			<td>{{.SpeciesCount}}</td>
			<td>{{.MaximalDifference}}</td>
			<td>{{.MaximalDifferenceInCounts}}</td>
			{{range .Cells}}{{template "cellContent" .}}{{end}}
		</tr>
		{{end}}
	</table>
	{{end}}`

	cellTmpl := `
	{{define "cellContent"}}
		{{if .Blank}}<td bgcolor="{{.Color}}"></td>{{else}}<td bgcolor="{{.Color}}" title="{{.Partners}}">{{.Count}}</td>{{end}}
	{{end}}`

	funcMap := template.FuncMap{
		"score": func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) },
	}

	similarityPageTemplate = template.New("similarity").Funcs(funcMap)
	similarityPageTemplate = template.Must(similarityPageTemplate.Parse(mainTmpl))
	similarityPageTemplate = template.Must(similarityPageTemplate.Parse(legendTmpl))
	similarityPageTemplate = template.Must(similarityPageTemplate.Parse(tableTmpl))
	similarityPageTemplate = template.Must(similarityPageTemplate.Parse(cellTmpl))
}

// RenderSimilarityPage renders the domain similarity table with one colored
// column per species.
func RenderSimilarityPage(w io.Writer, title string, strategy similarity.Strategy, sims []*similarity.DomainSimilarity, species []model.Species) error {
	rows := make([]SimilarityRow, 0, len(sims))
	for _, sim := range sims {
		rows = append(rows, SimilarityRow{
			DomainSimilarity: sim,
			MeanColor:        colorByScore(sim.MeanSimilarityScore),
			Cells:            arrangeSpecies(sim, species),
		})
	}

	data := struct {
		Title    string
		Strategy string
		Species  []model.Species
		Rows     []SimilarityRow
	}{
		Title:    title,
		Strategy: strategy.String(),
		Species:  species,
		Rows:     rows,
	}
	return similarityPageTemplate.Execute(w, data)
}
