// Package distance turns domain combination graphs into genome distance
// matrices, optionally jackknifed.
package distance

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/domcomb/logger"
)

// Distance assigned to pairs that cannot be compared.
const MaxDistance = 1.0

// Metric names one of the three genome distance matrices.
type Metric string

const (
	MetricMeanScore          Metric = "mean_score"
	MetricSharedDomains      Metric = "shared_domains"
	MetricSharedCombinations Metric = "shared_combinations"
)

func (m Metric) String() string {
	return string(m)
}

// Metrics lists every metric, the jackknifed ones last.
func Metrics() []Metric {
	return []Metric{MetricMeanScore, MetricSharedDomains, MetricSharedCombinations}
}

func ParseMetric(name string) (Metric, error) {
	for _, m := range Metrics() {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown distance metric %q", name)
}

const phylipIDWidth = 10

// Matrix is a symmetric distance matrix over genome identifiers. The
// diagonal is always 0.
type Matrix struct {
	ids    []string
	values [][]float64
}

func NewMatrix(ids []string) *Matrix {
	values := make([][]float64, len(ids))
	for i := range values {
		values[i] = make([]float64, len(ids))
	}
	return &Matrix{ids: slices.Clone(ids), values: values}
}

func (m *Matrix) Size() int {
	return len(m.ids)
}

func (m *Matrix) Identifier(i int) string {
	return m.ids[i]
}

func (m *Matrix) Identifiers() []string {
	return slices.Clone(m.ids)
}

// Index returns the row of id, or -1.
func (m *Matrix) Index(id string) int {
	return slices.Index(m.ids, id)
}

func (m *Matrix) Value(i, j int) float64 {
	return m.values[i][j]
}

// Set writes v to (i, j) and (j, i).
func (m *Matrix) Set(i, j int, v float64) {
	if v < 0 {
		panic(fmt.Sprintf("distance: negative distance %f at (%d, %d)", v, i, j))
	}
	if i == j && v != 0 {
		panic(fmt.Sprintf("distance: non-zero diagonal %f at %d", v, i))
	}
	m.values[i][j] = v
	m.values[j][i] = v
}

// Row copy.
func (m *Matrix) Row(i int) []float64 {
	return slices.Clone(m.values[i])
}

// phylipLabel cuts id to ten characters.
func phylipLabel(id string) string {
	runes := []rune(id)
	if len(runes) > phylipIDWidth {
		return string(runes[:phylipIDWidth])
	}
	return id
}

// WritePhylip writes the matrix in PHYLIP square format. Identifiers are
// padded or cut to ten characters. Identifiers that become equal once cut
// are written anyway with a warning.
func (m *Matrix) WritePhylip(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "    %d\n", m.Size())
	seen := make(map[string]string, m.Size())
	for row, id := range m.ids {
		if id == "" {
			return fmt.Errorf("phylip: empty identifier in row %d", row)
		}
		label := phylipLabel(id)
		if other, ok := seen[label]; ok {
			logger.Warn("phylip labels collide",
				zap.String("label", label),
				zap.String("first", other),
				zap.String("second", id))
		} else {
			seen[label] = id
		}
		fmt.Fprintf(&sb, "%-*s  ", phylipIDWidth, label)
		for col := range m.ids {
			if col > 0 {
				sb.WriteString("  ")
			}
			fmt.Fprintf(&sb, "%.6f", m.values[col][row])
		}
		if row < m.Size()-1 {
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

type matrixJSON struct {
	Identifiers []string    `json:"identifiers"`
	Values      [][]float64 `json:"values"`
}

func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(matrixJSON{Identifiers: m.ids, Values: m.values})
}

func (m *Matrix) UnmarshalJSON(data []byte) error {
	var raw matrixJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Values) != len(raw.Identifiers) {
		return fmt.Errorf("matrix has %d identifiers but %d rows", len(raw.Identifiers), len(raw.Values))
	}
	for i, row := range raw.Values {
		if len(row) != len(raw.Identifiers) {
			return fmt.Errorf("matrix row %d has %d values, want %d", i, len(row), len(raw.Identifiers))
		}
	}
	m.ids = raw.Identifiers
	m.values = raw.Values
	return nil
}
