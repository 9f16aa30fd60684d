package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOutputFormat(t *testing.T) {
	assert.Equal(t, FormatPhylip, ParseOutputFormat("", FormatPhylip))
	assert.Equal(t, FormatPhylip, ParseOutputFormat("phy", FormatHTML))
	assert.Equal(t, FormatUnknown, ParseOutputFormat("xml", FormatHTML))
	for _, f := range []OutputFormat{FormatHTML, FormatJSON, FormatTSV, FormatPhylip} {
		assert.Equal(t, f, ParseOutputFormat(f.String(), FormatUnknown))
	}
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", FormatPhylip.ContentType())
}
