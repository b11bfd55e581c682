package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"toolindex/internal/models"
)

func TestBuildCatalog_Ordering(t *testing.T) {
	tools := []models.Tool{
		{ID: 1, Slug: "zeta", Name: "Zeta"},
		{ID: 2, Slug: "alpha", Name: "Alpha"},
		{ID: 3, Slug: "mid", Name: "Mid"},
		{ID: 4, Slug: "untagged", Name: "Untagged"},
	}
	tags := map[uint64][]models.Tag{
		1: {{Slug: "writing", Dimension: models.TagDimensionCategory}},
		2: {{Slug: "writing", Dimension: models.TagDimensionCategory}},
		3: {{Slug: "development", Dimension: models.TagDimensionCategory}},
	}

	catalog := BuildCatalog(tools, tags)
	require.Len(t, catalog, 4)

	// Canonical category order first, slug second, "other" last.
	require.Equal(t, "alpha", catalog[0].Slug)
	require.Equal(t, "zeta", catalog[1].Slug)
	require.Equal(t, "mid", catalog[2].Slug)
	require.Equal(t, "untagged", catalog[3].Slug)
	require.Equal(t, "other", catalog[3].Category)
}

func TestBuildCatalog_FirstCanonicalCategoryWins(t *testing.T) {
	tools := []models.Tool{{ID: 1, Slug: "multi", Name: "Multi"}}
	tags := map[uint64][]models.Tag{
		1: {
			{Slug: "development", Dimension: models.TagDimensionCategory},
			{Slug: "writing", Dimension: models.TagDimensionCategory},
		},
	}
	catalog := BuildCatalog(tools, tags)
	// "writing" precedes "development" in the canonical order regardless of
	// tag insertion order.
	require.Equal(t, "writing", catalog[0].Category)
}

func TestBuildCatalog_UnknownTagSlugIsOther(t *testing.T) {
	tools := []models.Tool{{ID: 1, Slug: "odd", Name: "Odd"}}
	tags := map[uint64][]models.Tag{
		1: {{Slug: "blockchain", Dimension: models.TagDimensionCategory}},
	}
	catalog := BuildCatalog(tools, tags)
	require.Equal(t, "other", catalog[0].Category)
}

func TestRenderDataFile_Deterministic(t *testing.T) {
	stars := 12
	repoURL := "https://github.com/acme/alpha"
	catalog := BuildCatalog([]models.Tool{
		{ID: 1, Slug: "alpha", Name: "Alpha", URL: "https://alpha.test", RepoURL: &repoURL, RepoStars: &stars},
	}, nil)

	first, err := RenderDataFile(catalog)
	require.NoError(t, err)
	second, err := RenderDataFile(catalog)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.True(t, strings.HasSuffix(string(first), "\n"))
	require.Contains(t, string(first), `"githubStars": 12`)
}

func TestRenderDataFile_OmitsMissingRepoFields(t *testing.T) {
	catalog := BuildCatalog([]models.Tool{{ID: 1, Slug: "alpha", Name: "Alpha"}}, nil)
	data, err := RenderDataFile(catalog)
	require.NoError(t, err)
	require.NotContains(t, string(data), "repoUrl")
	require.NotContains(t, string(data), "githubStars")
}

func TestRenderIndexFile(t *testing.T) {
	stars := 7
	repoURL := "https://github.com/acme/alpha"
	tools := []models.Tool{
		{ID: 1, Slug: "alpha", Name: "Alpha", URL: "https://alpha.test", Description: "writes things", IsFeatured: true, RepoURL: &repoURL, RepoStars: &stars},
		{ID: 2, Slug: "beta", Name: "Beta", URL: "https://beta.test", Description: "no category"},
	}
	tags := map[uint64][]models.Tag{
		1: {{Slug: "writing", Dimension: models.TagDimensionCategory}},
	}

	out := string(RenderIndexFile(BuildCatalog(tools, tags)))

	require.True(t, strings.HasPrefix(out, "# Tool Directory\n"))
	require.Contains(t, out, "## Writing & Editing")
	require.Contains(t, out, "## Other")
	require.Contains(t, out, "**[Alpha](https://alpha.test)** ⭐ — writes things ([source](https://github.com/acme/alpha), 7 stars)")
	require.Contains(t, out, "- [Beta](https://beta.test) — no category")

	// Empty categories are dropped entirely.
	require.NotContains(t, out, "## Video")

	// Section order follows the canonical order with Other trailing.
	require.Less(t, strings.Index(out, "## Writing & Editing"), strings.Index(out, "## Other"))
}
