package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID        int64  `json:"id"`
	SectionID int64  `json:"section_id"`
	Name      string `json:"name"`
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "yaml"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
	assert.True(t, FormatYAML.Structured())
	assert.False(t, FormatTable.Structured())
}

func TestEncode(t *testing.T) {
	rec := []record{{ID: 1, SectionID: 2, Name: "Dune"}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, rec))
	assert.JSONEq(t, `[{"id":1,"section_id":2,"name":"Dune"}]`, buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, FormatYAML, rec))
	assert.Contains(t, buf.String(), "section_id: 2")
	assert.Contains(t, buf.String(), "name: Dune")

	assert.Error(t, Encode(&buf, FormatTable, rec))
}

func TestPrinter_NoColors(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinterWithWriters(&out, &errOut, false, "")

	p.Success("signed in as %s", "ada")
	p.Error("Something went wrong: %s", "boom")
	p.Header("Sections")

	assert.Contains(t, out.String(), "[OK] signed in as ada")
	assert.Contains(t, out.String(), "Sections\n--------")
	assert.Equal(t, "[ERROR] Something went wrong: boom\n", errOut.String())
	assert.Equal(t, FormatTable, p.Format())
	assert.Equal(t, "available", p.StatusBadge(""))
	assert.Equal(t, "granted", p.StatusBadge("granted"))
}

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"ID", "Name"})
	table.AddRow("1", "Dune")
	table.AddRow("2", "Emma")
	require.NoError(t, table.Render())

	out := buf.String()
	assert.Equal(t, 2, table.Len())
	assert.True(t, strings.Contains(out, "Dune") && strings.Contains(out, "Emma"))
}
