package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/shared"
)

var (
	_ list.Item = albumItem{}
	_ list.Item = articleItem{}
	_ list.Item = fileItem{}
)

// albumItem wraps an album name to implement [list.Item].
type albumItem struct {
	name string
}

func (i albumItem) FilterValue() string { return i.name }
func (i albumItem) Title() string       { return i.name }
func (i albumItem) Description() string { return "album" }

// articleItem wraps an article number to implement [list.Item].
type articleItem struct {
	album   string
	article string
	count   int
}

func (i articleItem) FilterValue() string { return i.article }
func (i articleItem) Title() string       { return fmt.Sprintf("Article %s", i.article) }
func (i articleItem) Description() string {
	return fmt.Sprintf("%d files", i.count)
}

// fileItem wraps [catalog.FileRecord] to implement [list.Item].
type fileItem struct {
	record catalog.FileRecord
	cached bool
}

func (i fileItem) FilterValue() string { return i.record.Filename }
func (i fileItem) Title() string {
	if i.cached {
		return fmt.Sprintf("%s ⦿", i.record.Filename)
	}
	return i.record.Filename
}

func (i fileItem) Description() string {
	desc := fmt.Sprintf("article %s", i.record.ArticleNumber)
	if i.record.FileSize > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatBytes(i.record.FileSize))
	}
	if i.record.Published {
		desc = fmt.Sprintf("%s • published", desc)
	}
	return desc
}
