package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJstTemplate_Input(t *testing.T) {
	f := NewJstTemplate()
	f.Settings(map[string]any{"paths": []string{"/app/templates/*"}})

	in := "<div class=\"item\">\n    <span>{{name}}</span>\n</div>\n"

	out, err := f.Input("/app/templates/widgets/item.html", in)
	require.NoError(t, err)

	assert.Equal(t,
		"window.JST = window.JST || {};\n"+
			`window.JST["item"] = window.JST["widgets/item"] = "\u003cdiv class=\"item\"\u003e\u003cspan\u003e{{name}}\u003c/span\u003e\u003c/div\u003e";`,
		out)
}

func TestJstTemplate_KeepsInlineText(t *testing.T) {
	f := NewJstTemplate()
	f.Settings(map[string]any{"global": "App.T"})

	out, err := f.Input("row.html", "<td> a b </td>")
	require.NoError(t, err)
	assert.Equal(t, "App.T = App.T || {};\nApp.T[\"row\"] = App.T[\"row\"] = \"\\u003ctd\\u003e a b \\u003c/td\\u003e\";", out)
}

func TestJstTemplate_OtherFiles(t *testing.T) {
	f := NewJstTemplate()

	out, err := f.Input("app.js", "var x;")
	require.NoError(t, err)
	assert.Equal(t, "var x;", out)
}
