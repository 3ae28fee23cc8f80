package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/object"
	"github.com/zheng/documember/internal/summary"
)

func fixtureAudit(t *testing.T) (*summary.Node, *coverage.Stats) {
	t.Helper()
	mod := &object.Module{
		Name: "mypkg", Path: "mypkg", Doc: "My package.",
		Members: []object.Member{
			{Name: "run", Value: &object.Func{Name: "run", Module: "mypkg", Doc: "Run."}},
			{Name: "stop", Value: &object.Func{Name: "stop", Module: "mypkg"}},
		},
	}
	root := summary.Build(mod, summary.Config{})
	return root, coverage.Compute("./mypkg", root)
}

func TestWriteMarkdown(t *testing.T) {
	root, stats := fixtureAudit(t)

	var buf bytes.Buffer
	require.NoError(t, NewExporter(root, stats).WriteMarkdown(&buf, DefaultOptions()))
	out := buf.String()

	assert.Contains(t, out, "# Documentation coverage: ./mypkg")
	assert.Contains(t, out, "Members: 3 | Documented: 2 | Coverage: 66.7%")
	assert.Contains(t, out, "## By kind")
	assert.Contains(t, out, "| function | 2 | 1 | 50.0% |")
	assert.Contains(t, out, "## By namespace")
	assert.Contains(t, out, "| `mypkg` | 2 | 1 | 50.0% |")
	assert.Contains(t, out, "## Undocumented members (1)")
	assert.Contains(t, out, "- `mypkg.stop`")
}

func TestWriteMarkdownFullyDocumented(t *testing.T) {
	mod := &object.Module{Name: "m", Path: "m", Doc: "M."}
	root := summary.Build(mod, summary.Config{})
	stats := coverage.Compute("m", root)

	var buf bytes.Buffer
	require.NoError(t, NewExporter(root, stats).WriteMarkdown(&buf, DefaultOptions()))
	assert.Contains(t, buf.String(), "_Every member is documented._")
}

func TestWriteMarkdownUndocumentedLimit(t *testing.T) {
	root, stats := fixtureAudit(t)

	opts := DefaultOptions()
	opts.MaxUndocumented = 0 // unlimited
	var buf bytes.Buffer
	require.NoError(t, NewExporter(root, stats).WriteMarkdown(&buf, opts))
	assert.NotContains(t, buf.String(), "more")
}

func TestWriteJSON(t *testing.T) {
	root, stats := fixtureAudit(t)

	var buf bytes.Buffer
	require.NoError(t, NewExporter(root, stats).WriteJSON(&buf, DefaultOptions()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "./mypkg", doc["target"])
	assert.Contains(t, doc, "stats")
	assert.Contains(t, doc, "tree")

	tree, ok := doc["tree"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mypkg", tree["name"])
}

func TestWriteJSONWithoutTree(t *testing.T) {
	root, stats := fixtureAudit(t)

	opts := DefaultOptions()
	opts.IncludeTree = false
	var buf bytes.Buffer
	require.NoError(t, NewExporter(root, stats).WriteJSON(&buf, opts))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.NotContains(t, doc, "tree")
}
