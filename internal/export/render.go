package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"toolindex/internal/models"
)

// ExportTool is one catalog entry as published in the data artifact.
type ExportTool struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	CoreTask    string  `json:"coreTask"`
	Category    string  `json:"category"`
	Featured    bool    `json:"featured"`
	RepoURL     *string `json:"repoUrl,omitempty"`
	GithubStars *int    `json:"githubStars,omitempty"`
}

// BuildCatalog joins approved tools with their category tags and produces the
// stable-ordered catalog: canonical category order first, slug second. A
// tool's category is the first canonical category among its category-
// dimension tags; tools without one land in "other".
func BuildCatalog(tools []models.Tool, tagsByTool map[uint64][]models.Tag) []ExportTool {
	out := make([]ExportTool, 0, len(tools))
	for _, t := range tools {
		out = append(out, ExportTool{
			Slug:        t.Slug,
			Name:        t.Name,
			URL:         t.URL,
			Description: t.Description,
			CoreTask:    t.CoreTask,
			Category:    deriveCategory(tagsByTool[t.ID]),
			Featured:    t.IsFeatured,
			RepoURL:     t.RepoURL,
			GithubStars: t.RepoStars,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := categoryRank(out[i].Category), categoryRank(out[j].Category)
		if ri != rj {
			return ri < rj
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

func deriveCategory(tags []models.Tag) string {
	for _, c := range CategoryOrder {
		for _, t := range tags {
			if t.Slug == c.Slug {
				return c.Slug
			}
		}
	}
	return OtherCategory.Slug
}

// RenderDataFile serializes the catalog as the structured artifact. The
// ordering is already stable, so identical catalogs render byte-identically.
func RenderDataFile(catalog []ExportTool) ([]byte, error) {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RenderIndexFile produces the human-readable listing, grouped under category
// headings in canonical order with "Other" trailing.
func RenderIndexFile(catalog []ExportTool) []byte {
	var b strings.Builder
	b.WriteString("# Tool Directory\n\n")
	b.WriteString("Automatically generated from the approved tool catalog. Do not edit by hand.\n")

	buckets := make(map[string][]ExportTool, len(CategoryOrder)+1)
	for _, t := range catalog {
		buckets[t.Category] = append(buckets[t.Category], t)
	}

	order := append(append([]Category{}, CategoryOrder...), OtherCategory)
	for _, c := range order {
		tools := buckets[c.Slug]
		if len(tools) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", c.Title)
		for _, t := range tools {
			writeIndexLine(&b, t)
		}
	}
	return []byte(b.String())
}

func writeIndexLine(b *strings.Builder, t ExportTool) {
	name := fmt.Sprintf("[%s](%s)", t.Name, t.URL)
	if t.Featured {
		name = "**" + name + "** ⭐"
	}
	fmt.Fprintf(b, "- %s — %s", name, t.Description)
	if t.RepoURL != nil {
		fmt.Fprintf(b, " ([source](%s)", *t.RepoURL)
		if t.GithubStars != nil {
			fmt.Fprintf(b, ", %d stars", *t.GithubStars)
		}
		b.WriteString(")")
	}
	b.WriteString("\n")
}
