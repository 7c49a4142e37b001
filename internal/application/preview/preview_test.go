package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	html, err := Render("# Oferta\n\n- item um\n- ~~antigo~~\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)

	assert.Contains(t, html, `<h1 id="oferta">Oferta</h1>`)
	assert.Contains(t, html, "<li>item um</li>")
	assert.Contains(t, html, "<del>antigo</del>")
	assert.Contains(t, html, "<table>")
}

func TestRender_RawHTMLIsOmitted(t *testing.T) {
	html, err := Render("<script>alert(1)</script>\n\ntexto")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<p>texto</p>")
}
