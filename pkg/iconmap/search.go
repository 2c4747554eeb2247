package iconmap

import "github.com/sahilm/fuzzy"

// icons adapts a slice to fuzzy.Source, matching on "title id".
type icons []Icon

func (s icons) String(i int) string { return s[i].Label() + " " + s[i].ID }
func (s icons) Len() int            { return len(s) }

// Search returns the icons matching query, best match first. An empty
// query returns every icon in insertion order.
func Search(set *Set, query string) []Icon {
	all := set.Icons()
	if query == "" {
		return all
	}
	matches := fuzzy.FindFrom(query, icons(all))
	out := make([]Icon, len(matches))
	for i, m := range matches {
		out[i] = all[m.Index]
	}
	return out
}
