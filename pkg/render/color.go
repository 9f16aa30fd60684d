package render

import (
	"fmt"
	"math"
)

// colorByScore maps a similarity score in [0,1] to a color between #ff0000
// (red) and #00ff00 (green), passing through yellow.
func colorByScore(score float64) string {
	if math.IsNaN(score) {
		return "#8B8989"
	}
	if score >= 1 {
		return fmt.Sprintf("#%02X%02X00", 0, 255)
	}
	if score <= 0 {
		return fmt.Sprintf("#%02X%02X00", 255, 0)
	}

	var r, g int
	if score <= 0.5 {
		r = 255
		g = int(math.Round(score * 2 * 255))
	} else {
		r = int(math.Round((1 - score) * 2 * 255))
		g = 255
	}
	return fmt.Sprintf("#%02X%02X00", r, g)
}

// colorByCopyNumber maps a domain count to warm colors.
// 0 -> grey (absent), 1..5 -> distinct YlOrRd-like buckets,
// >5 -> gradient from deep orange to dark red up to a cap.
func colorByCopyNumber(count int) string {
	value := float64(count)
	if value <= 0 {
		return "#CCCCCC"
	}

	switch count {
	case 1:
		return "#FFFFB2" // light yellow
	case 2:
		return "#FECC5C" // yellow-orange
	case 3:
		return "#FD8D3C" // orange
	case 4:
		return "#F03B20" // red-orange
	case 5:
		return "#BD0026" // red
	}

	const capVal = 30.0
	if value > capVal {
		value = capVal
	}
	// Interpolate from #BD0026 to #800000
	t := (value - 5.0) / (capVal - 5.0)
	return lerpColor([3]float64{189, 0, 38}, [3]float64{128, 0, 0}, t)
}

// colorByDistance shades a distance in [0,1] from white (identical) to dark
// blue (nothing shared).
func colorByDistance(d float64) string {
	if math.IsNaN(d) {
		return "#8B8989"
	}
	t := math.Min(math.Max(d, 0), 1)
	return lerpColor([3]float64{255, 255, 255}, [3]float64{8, 48, 107}, t)
}

func lerpColor(start, end [3]float64, t float64) string {
	r := int(math.Round(lerp(start[0], end[0], t)))
	g := int(math.Round(lerp(start[1], end[1], t)))
	b := int(math.Round(lerp(start[2], end[2], t)))
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
