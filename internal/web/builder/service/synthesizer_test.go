package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/supabuilder-api/internal/web/builder/model"
)

func TestSynthesizeDeterministic(t *testing.T) {
	t.Parallel()

	syn := NewSynthesizer(model.NewRegistry())
	params := map[string]string{"appName": "Notion"}

	first, firstAction := syn.Synthesize(model.CategoryAppBuild, params, nil, "gpt-4o")
	second, secondAction := syn.Synthesize(model.CategoryAppBuild, params, nil, "gpt-4o")

	require.Equal(t, first, second)
	require.Equal(t, firstAction, secondAction)
	require.Contains(t, first, "Notion")
}

func TestSynthesizeOpensWorkspace(t *testing.T) {
	t.Parallel()

	syn := NewSynthesizer(model.NewRegistry())

	for _, category := range []model.Category{
		model.CategoryImageAnalysis,
		model.CategoryZipExtraction,
		model.CategoryFigmaConversion,
		model.CategoryFileAnalysis,
		model.CategoryGithubClone,
		model.CategoryWebsiteClone,
		model.CategoryAppBuild,
		model.CategoryDebug,
	} {
		_, action := syn.Synthesize(category, map[string]string{}, nil, "")
		require.True(t, action.OpenWorkspace, "category %s", category)
	}

	_, action := syn.Synthesize(model.CategoryNone, map[string]string{}, nil, "")
	require.False(t, action.OpenWorkspace)
}

func TestSynthesizeModelFallback(t *testing.T) {
	t.Parallel()

	syn := NewSynthesizer(model.NewRegistry())

	_, action := syn.Synthesize(model.CategoryNone, map[string]string{}, nil, "no-such-model")
	require.Equal(t, "GPT-4o", action.ModelUsed)
	require.Equal(t, "OpenAI", action.ProviderUsed)

	_, action = syn.Synthesize(model.CategoryNone, map[string]string{}, nil, "claude-3-5-sonnet")
	require.Equal(t, "Claude 3.5 Sonnet", action.ModelUsed)
	require.Equal(t, "Anthropic", action.ProviderUsed)
}

func TestSynthesizeParamsSnapshot(t *testing.T) {
	t.Parallel()

	syn := NewSynthesizer(model.NewRegistry())
	params := map[string]string{"url": "https://github.com/acme/widgets"}

	_, action := syn.Synthesize(model.CategoryGithubClone, params, nil, "")
	params["url"] = "https://example.com/mutated"

	require.Equal(t, "https://github.com/acme/widgets", action.Parameters["url"])
}

func TestSynthesizeNarratives(t *testing.T) {
	t.Parallel()

	syn := NewSynthesizer(model.NewRegistry())

	narrative, _ := syn.Synthesize(model.CategoryGithubClone,
		map[string]string{"url": "https://github.com/acme/widgets"}, nil, "")
	require.Contains(t, narrative, "https://github.com/acme/widgets")

	narrative, _ = syn.Synthesize(model.CategoryImageAnalysis,
		map[string]string{}, []string{"logo.png"}, "")
	require.Contains(t, narrative, "logo.png")
	require.NotContains(t, narrative, "images")

	narrative, _ = syn.Synthesize(model.CategoryFileAnalysis,
		map[string]string{}, []string{"a.go", "b.go"}, "")
	require.Contains(t, narrative, "a.go, b.go")
	require.Contains(t, narrative, "files")

	narrative, _ = syn.Synthesize(model.CategoryAppBuild,
		map[string]string{"appName": "your favorite app"}, nil, "")
	require.Contains(t, narrative, "your favorite app")

	narrative, _ = syn.Synthesize(model.CategoryNone, map[string]string{}, nil, "")
	require.NotEmpty(t, narrative)
}

func TestNarrativeHTML(t *testing.T) {
	t.Parallel()

	syn := NewSynthesizer(model.NewRegistry())

	html := syn.NarrativeHTML("I'll clone **widgets** for you.")
	require.True(t, strings.Contains(html, "<strong>widgets</strong>"))
}
