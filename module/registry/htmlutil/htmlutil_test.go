package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchors(t *testing.T) {
	page := `<html><body><pre>
<a href="../">../</a>
<a href="ggplot2_0.9.0.tar.gz">ggplot2_0.9.0.tar.gz</a> 2012-03-01
<A HREF="ggplot2_1.0.0.tar.gz">ggplot2_1.0.0.tar.gz</A>
<a name="no-href">x</a>
</pre></body></html>`

	hrefs, err := Anchors(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, []string{"../", "ggplot2_0.9.0.tar.gz", "ggplot2_1.0.0.tar.gz"}, hrefs)
}

func TestTableValue(t *testing.T) {
	page := `<table summary="Package ggplot2 summary">
<tr>
<td>Version:</td>
<td>3.4.4</td>
</tr>
<tr>
<td>Depends:</td>
<td>R (&ge; 3.3)</td>
</tr>
</table>`

	v, ok, err := TableValue(strings.NewReader(page), "Version:")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3.4.4", v)

	v, ok, err = TableValue(strings.NewReader(page), "Depends:")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "R (≥ 3.3)", v)

	_, ok, err = TableValue(strings.NewReader(page), "License:")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTableValueLabelInLastCell(t *testing.T) {
	_, ok, err := TableValue(strings.NewReader(`<tr><td>Version:</td></tr><tr><td>other</td></tr>`), "Version:")
	require.NoError(t, err)
	assert.False(t, ok)
}
