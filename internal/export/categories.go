package export

// Category is one bucket of the published catalog.
type Category struct {
	Slug  string
	Title string
}

// CategoryOrder is the canonical category ordering, consumed by both rendered
// artifacts. It is configuration data; changing presentation order means
// editing this one table.
var CategoryOrder = []Category{
	{Slug: "writing", Title: "Writing & Editing"},
	{Slug: "images", Title: "Image Generation"},
	{Slug: "audio", Title: "Audio & Voice"},
	{Slug: "video", Title: "Video"},
	{Slug: "chat", Title: "Chat & Assistants"},
	{Slug: "development", Title: "Developer Tools"},
	{Slug: "productivity", Title: "Productivity"},
	{Slug: "research", Title: "Research & Analysis"},
	{Slug: "data", Title: "Data & Automation"},
}

// OtherCategory is the trailing bucket for tools with no category tag.
var OtherCategory = Category{Slug: "other", Title: "Other"}

// categoryRank returns a tool category's position in the canonical order;
// unknown categories sort with "other" at the end.
func categoryRank(slug string) int {
	for i, c := range CategoryOrder {
		if c.Slug == slug {
			return i
		}
	}
	return len(CategoryOrder)
}

// CategoryTitle resolves the heading for a category slug.
func CategoryTitle(slug string) string {
	for _, c := range CategoryOrder {
		if c.Slug == slug {
			return c.Title
		}
	}
	return OtherCategory.Title
}
