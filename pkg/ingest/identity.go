package ingest

import (
	"fmt"
	"regexp"
	"time"
)

// articleIDPattern matches the press and article numbers embedded in the
// portal's article URLs, e.g. ".../article/009/0005421367".
var articleIDPattern = regexp.MustCompile(`article/(\d+)/(\d+)`)

// DeriveArticleID produces the stable article id for a record that arrived
// without one. URLs carrying the portal's press/article numbers map to
// "ART_{press}_{article}"; anything else falls back to a timestamp id.
// The timestamp fallback has second granularity, so two fallback ids minted
// within the same second collide and their articles merge into one node.
func DeriveArticleID(url string, now time.Time) string {
	if m := articleIDPattern.FindStringSubmatch(url); m != nil {
		return fmt.Sprintf("ART_%s_%s", m[1], m[2])
	}
	return "ART_" + now.Format("20060102150405")
}
