package catalog

import "sort"

// View is a derived projection of one album's files, grouped by article.
//
// Articles holds the group keys in lexicographic order; Grouped maps each key
// to its records ordered by [SortBySuffix]. Rebuilt on every selection change,
// never mutated.
type View struct {
	AlbumName     string
	ArticleFilter string
	Articles      []string
	Grouped       map[string][]FileRecord
}

// BuildView groups records by article number. With a non-empty articleFilter
// the view contains that single group (possibly empty). A view built from
// zero records is valid: browsing an empty album is not an error.
func BuildView(album, articleFilter string, records []FileRecord) *View {
	v := &View{
		AlbumName:     album,
		ArticleFilter: articleFilter,
		Grouped:       make(map[string][]FileRecord),
	}

	for _, rec := range records {
		if articleFilter != "" && rec.ArticleNumber != articleFilter {
			continue
		}
		v.Grouped[rec.ArticleNumber] = append(v.Grouped[rec.ArticleNumber], rec)
	}

	for article, group := range v.Grouped {
		SortBySuffix(group)
		v.Articles = append(v.Articles, article)
	}
	sort.Strings(v.Articles)

	if articleFilter != "" && len(v.Articles) == 0 {
		// keep the requested article visible even when it has no files
		v.Articles = []string{articleFilter}
		v.Grouped[articleFilter] = []FileRecord{}
	}

	return v
}

// Flat returns the view's records as one sequence, article groups in order.
func (v *View) Flat() []FileRecord {
	var out []FileRecord
	for _, article := range v.Articles {
		out = append(out, v.Grouped[article]...)
	}
	return out
}

// Empty reports whether the view contains no files.
func (v *View) Empty() bool {
	for _, group := range v.Grouped {
		if len(group) > 0 {
			return false
		}
	}
	return true
}

// Len returns the total number of files across all articles.
func (v *View) Len() int {
	n := 0
	for _, group := range v.Grouped {
		n += len(group)
	}
	return n
}
