package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/application/suggest"
	"copystudio-api/internal/domain/entity"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSuggestCommand(t *testing.T) {
	out, err := run(t, "", "suggest", "Quero uma sequência de e-mails de nutrição")
	require.NoError(t, err)

	var res suggest.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, suggest.TemplateEmailNurturing, res.Suggestions[0].TemplateID)

	out, err = run(t, "??", "suggest")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.FallbackToManualSelection)
}

func TestScoreCommand(t *testing.T) {
	out, err := run(t, "texto curto", "score")
	require.NoError(t, err)

	var score entity.QualityScore
	require.NoError(t, json.Unmarshal([]byte(out), &score))
	assert.Equal(t, 13, score.Overall)

	baseline := writeFile(t, "base.md", "texto curto")
	current := writeFile(t, "cur.md", "# Oferta\n\n- Compre agora.\n- Clique no link.")
	out, err = run(t, "", "score", current, "--baseline", baseline)
	require.NoError(t, err)
	assert.Contains(t, out, `"comparison"`)
}

func TestDiffCommand(t *testing.T) {
	a := writeFile(t, "a.txt", "um\ndois")
	b := writeFile(t, "b.txt", "um\ntres")

	out, err := run(t, "", "diff", a, b, "--pretty")
	require.NoError(t, err)
	assert.Equal(t, " um\n-dois\n+tres\n", out)

	out, err = run(t, "", "diff", a, b, "--stats")
	require.NoError(t, err)
	assert.JSONEq(t, `{"added":1,"removed":1,"unchanged":1}`, out)
}

func TestAdaptCommand(t *testing.T) {
	out, err := run(t, `{"items":[{"brand_id":"b1","name":"Acme"}]}`, "adapt", "brands")
	require.NoError(t, err)
	var brands []entity.Brand
	require.NoError(t, json.Unmarshal([]byte(out), &brands))
	require.Len(t, brands, 1)
	assert.Equal(t, "Acme", brands[0].Name)

	_, err = run(t, "{}", "adapt", "invoices")
	assert.Error(t, err)
}
