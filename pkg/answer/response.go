package answer

// Source is one attributed article in the response, referenced from
// sections by id.
type Source struct {
	ID        int    `json:"id"`
	ShortName string `json:"shortName"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Date      string `json:"date"`
	URL       string `json:"url"`
	Summary   string `json:"summary"`
	Icon      string `json:"icon"`
}

// Section is one block of answer content with references into Sources.
type Section struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	SourceIDs []int  `json:"sourceIds"`
}

// Response is the search answer shape consumed by the HTTP layer.
type Response struct {
	Sections []Section `json:"sections"`
	Sources  []Source  `json:"sources"`
}

// categoryIcons maps the known news categories to their display glyphs.
var categoryIcons = map[string]string{
	"정치":    "🏛️",
	"경제":    "💼",
	"사회":    "👥",
	"생활/문화": "🎭",
	"IT/과학": "💻",
	"세계":    "🌍",
}

// defaultIcon is used for categories outside the known vocabulary.
const defaultIcon = "📰"

// IconForCategory returns the glyph for a category, or the default for
// unknown labels.
func IconForCategory(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return defaultIcon
}
