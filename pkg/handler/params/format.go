package params

// OutputFormat is the representation a run resource is served in.
type OutputFormat int

const (
	FormatHTML OutputFormat = iota
	FormatJSON
	FormatTSV
	FormatPhylip
	FormatUnknown
)

func (f OutputFormat) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	case FormatTSV:
		return "tsv"
	case FormatPhylip:
		return "phylip"
	default:
		return "unknown"
	}
}

// ContentType is the response Content-Type of the format.
func (f OutputFormat) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ParseOutputFormat maps a format query parameter to a format. An empty
// value picks fallback.
func ParseOutputFormat(format string, fallback OutputFormat) OutputFormat {
	switch format {
	case "":
		return fallback
	case "html":
		return FormatHTML
	case "json":
		return FormatJSON
	case "tsv":
		return FormatTSV
	case "phylip", "phy":
		return FormatPhylip
	default:
		return FormatUnknown
	}
}
