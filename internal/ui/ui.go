package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/services"
	"github.com/piclinks/piclinks/internal/shared"
	"github.com/piclinks/piclinks/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AlbumListView ViewState = iota
	ArticleListView
	FileListView
	PreviewView
	UploadView
	ExportView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	catalog   *services.CatalogService
	engine    *tasks.CatalogEngine
	exports   *services.ExportService
	selection *catalog.SelectionState
	loader    *LazyLoader
	copier    *Copier

	width  int
	height int

	albumList   list.Model
	albums      []string
	articleList list.Model
	fileList    list.Model
	current     *catalog.View
	album       string
	article     string

	preview   viewport.Model
	previewed *catalog.FileRecord

	pathInput    textinput.Model
	picker       filepicker.Model
	usePicker    bool
	uploadBar    progress.Model
	session      *catalog.UploadSession
	progressChan chan tasks.ProgressUpdate
	finalResult  *tasks.UploadRunResult
	finalErr     error

	exportInCell  bool
	exportNewline bool

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, cat *services.CatalogService, engine *tasks.CatalogEngine, exports *services.ExportService, loader *LazyLoader) *Model {
	input := textinput.New()
	input.Placeholder = "/path/to/album.zip"
	input.CharLimit = 512
	input.Width = 48

	picker := filepicker.New()
	picker.AllowedTypes = []string{".zip"}

	return &Model{
		ctx:       ctx,
		view:      AlbumListView,
		catalog:   cat,
		engine:    engine,
		exports:   exports,
		selection: catalog.NewSelectionState(nil),
		loader:    loader,
		copier:    NewCopier(),
		pathInput: input,
		picker:    picker,
		uploadBar: progress.New(progress.WithDefaultGradient()),
		session:   catalog.NewUploadSession(),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by fetching the album list.
func (m *Model) Init() tea.Cmd {
	return m.fetchAlbums()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.albumList.Width() == 0 {
			m.albumList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.articleList.Width() == 0 {
			m.articleList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.fileList.Width() == 0 {
			m.fileList.SetSize(msg.Width-4, msg.Height-8)
		}
		m.preview = viewport.New(msg.Width-4, msg.Height-8)
		if m.previewed != nil {
			m.preview.SetContent(m.previewContent(*m.previewed))
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case AlbumListView:
			return m.handleAlbumListKeys(msg)
		case ArticleListView:
			return m.handleArticleListKeys(msg)
		case FileListView:
			return m.handleFileListKeys(msg)
		case PreviewView:
			return m.handlePreviewKeys(msg)
		case UploadView:
			return m.handleUploadKeys(msg)
		case ExportView:
			return m.handleExportKeys(msg)
		}

	case albumsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			// Nothing to fall back on before the first successful load.
			if m.albums == nil {
				return m, tea.Quit
			}
			return m, nil
		}
		m.err = nil
		m.albums = msg.albums
		items := make([]list.Item, len(msg.albums))
		for i, name := range msg.albums {
			items[i] = albumItem{name: name}
		}
		m.albumList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.albumList.Title = "Albums"
		m.albumList.SetSize(m.width-4, m.height-8)
		return m, nil

	case viewFetchedMsg:
		// A newer fetch supersedes this one; drop the result on the floor.
		if !m.catalog.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.view = AlbumListView
			return m, nil
		}
		m.err = nil
		m.current = msg.view
		if m.article == "" {
			m.setArticleItems()
			m.view = ArticleListView
		} else {
			m.setFileItems()
			m.view = FileListView
		}
		return m, m.ensureVisibleThumb()

	case thumbFetchedMsg:
		if msg.err == nil && msg.fetched {
			m.refreshFileCachedMarks()
		}
		return m, nil

	case uploadProgressMsg:
		u := tasks.ProgressUpdate(msg)
		if u.Phase == tasks.UploadArchive {
			m.session.Advance(u.Step)
		}
		m.status = u.Message
		return m, m.waitForProgress()

	case uploadCompleteMsg:
		if msg.err != nil {
			m.session.Fail(msg.err)
			m.err = msg.err
		} else {
			m.session.Succeed(msg.result.Upload.AlbumName)
			m.selection.Clear()
			m.status = fmt.Sprintf("Uploaded to album '%s'", msg.result.Upload.AlbumName)
		}
		m.progressChan = nil
		return m, m.fetchAlbums()

	case exportCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Export written to %s", msg.path)
		m.view = FileListView
		return m, m.clearStatusLater()

	case statusClearMsg:
		m.status = ""
		return m, nil
	}

	return m.updateComponents(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.albums == nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case AlbumListView:
		return m.renderAlbumList()
	case ArticleListView:
		return m.renderArticleList()
	case FileListView:
		return m.renderFileList()
	case PreviewView:
		return m.renderPreview()
	case UploadView:
		return m.renderUpload()
	case ExportView:
		return m.renderExport()
	default:
		return ""
	}
}

func (m *Model) handleAlbumListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.upload):
		m.view = UploadView
		m.pathInput.Focus()
		return m, m.picker.Init()
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.albumList.SelectedItem().(albumItem); ok {
			m.album = selected.name
			m.article = ""
			return m, m.fetchView()
		}
	}

	var cmd tea.Cmd
	m.albumList, cmd = m.albumList.Update(msg)
	return m, cmd
}

func (m *Model) handleArticleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = AlbumListView
		return m, nil
	case key.Matches(msg, m.keys.export):
		m.view = ExportView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.articleList.SelectedItem().(articleItem); ok {
			m.article = selected.article
			m.setFileItems()
			m.view = FileListView
			return m, m.ensureVisibleThumb()
		}
	}

	var cmd tea.Cmd
	m.articleList, cmd = m.articleList.Update(msg)
	return m, cmd
}

func (m *Model) handleFileListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.article = ""
		m.err = nil
		m.setArticleItems()
		m.view = ArticleListView
		return m, nil
	case key.Matches(msg, m.keys.export):
		m.view = ExportView
		return m, nil
	case key.Matches(msg, m.keys.copy):
		if selected, ok := m.fileList.SelectedItem().(fileItem); ok {
			if err := m.copier.Copy(selected.record.PublicLink); err != nil {
				m.err = err
				return m, nil
			}
			m.status = "copied ✓"
			return m, m.clearStatusLater()
		}
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.fileList.SelectedItem().(fileItem); ok {
			rec := selected.record
			m.previewed = &rec
			m.preview.SetContent(m.previewContent(rec))
			m.view = PreviewView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.fileList, cmd = m.fileList.Update(msg)
	return m, tea.Batch(cmd, m.ensureVisibleThumb())
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.previewed = nil
		m.view = FileListView
		return m, nil
	case key.Matches(msg, m.keys.copy):
		if m.previewed != nil {
			if err := m.copier.Copy(m.previewed.PublicLink); err != nil {
				m.err = err
				return m, nil
			}
			m.status = "copied ✓"
			return m, m.clearStatusLater()
		}
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case AlbumListView:
		m.albumList, cmd = m.albumList.Update(msg)
	case ArticleListView:
		m.articleList, cmd = m.articleList.Update(msg)
	case FileListView:
		m.fileList, cmd = m.fileList.Update(msg)
	case PreviewView:
		m.preview, cmd = m.preview.Update(msg)
	case UploadView:
		return m.updateUploadComponents(msg)
	}
	return m, cmd
}

// setArticleItems rebuilds the article list from the current view.
func (m *Model) setArticleItems() {
	if m.current == nil {
		return
	}
	items := make([]list.Item, len(m.current.Articles))
	for i, article := range m.current.Articles {
		items[i] = articleItem{
			album:   m.album,
			article: article,
			count:   len(m.current.Grouped[article]),
		}
	}
	m.articleList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.articleList.Title = fmt.Sprintf("Articles in '%s'", m.album)
	m.articleList.SetSize(m.width-4, m.height-8)
}

// setFileItems rebuilds the file list for the selected article (or the whole
// album when no article is selected).
func (m *Model) setFileItems() {
	if m.current == nil {
		return
	}
	records := m.current.Flat()
	if m.article != "" {
		records = m.current.Grouped[m.article]
	}
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = fileItem{record: rec, cached: m.loader != nil && m.loader.Cached(rec.Filename)}
	}
	m.fileList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	title := fmt.Sprintf("Files in '%s'", m.album)
	if m.article != "" {
		title = fmt.Sprintf("Files in '%s' / article %s", m.album, m.article)
	}
	m.fileList.Title = title
	m.fileList.SetSize(m.width-4, m.height-8)
}

// refreshFileCachedMarks re-marks list items whose thumbnails arrived.
func (m *Model) refreshFileCachedMarks() {
	if m.loader == nil {
		return
	}
	for i, it := range m.fileList.Items() {
		if fi, ok := it.(fileItem); ok && !fi.cached && m.loader.Cached(fi.record.Filename) {
			fi.cached = true
			m.fileList.SetItem(i, fi)
		}
	}
}

func (m *Model) fetchAlbums() tea.Cmd {
	return func() tea.Msg {
		albums, err := m.catalog.Albums(m.ctx)
		return albumsFetchedMsg{albums: albums, err: err}
	}
}

func (m *Model) fetchView() tea.Cmd {
	album, article := m.album, m.article
	return func() tea.Msg {
		view, gen, err := m.catalog.FilesFor(m.ctx, album, article)
		return viewFetchedMsg{view: view, gen: gen, err: err}
	}
}

// ensureVisibleThumb lazily fetches the selected record's thumbnail. Each file
// is attempted once; misses keep their placeholder mark.
func (m *Model) ensureVisibleThumb() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	selected, ok := m.fileList.SelectedItem().(fileItem)
	if !ok || m.loader.Observed(selected.record.Filename) {
		return nil
	}
	rec := selected.record
	return func() tea.Msg {
		fetched, err := m.loader.Ensure(m.ctx, rec)
		return thumbFetchedMsg{filename: rec.Filename, fetched: fetched, err: err}
	}
}

func (m *Model) clearStatusLater() tea.Cmd {
	return tea.Tick(statusClearDelay, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func (m *Model) renderAlbumList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.upload, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s%s%s", m.albumList.View(), m.errLine(), m.statusLine(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderArticleList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.export, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s%s%s", m.articleList.View(), m.errLine(), m.statusLine(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderFileList() string {
	if m.current != nil && m.current.Empty() {
		empty := styles.warn.Render(fmt.Sprintf("Album '%s' has no files", m.album))
		helpKeys := []key.Binding{m.keys.back, m.keys.quit}
		return fmt.Sprintf("%s\n\n%s", empty, m.help.ShortHelpView(helpKeys))
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.copy, m.keys.export, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s%s%s", m.fileList.View(), m.errLine(), m.statusLine(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderPreview() string {
	if m.previewed == nil {
		return ""
	}
	title := styles.title.Render(m.previewed.Filename)
	helpKeys := []key.Binding{m.keys.copy, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s%s%s", title, m.preview.View(), m.errLine(), m.statusLine(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) previewContent(rec catalog.FileRecord) string {
	cached := "not cached locally"
	if m.loader != nil {
		if ct, size := m.loader.CachedInfo(rec.Filename); size > 0 {
			cached = fmt.Sprintf("cached locally (%s, %s)", ct, shared.FormatBytes(size))
		}
	}
	published := "no"
	if rec.Published {
		published = "yes"
	}
	return fmt.Sprintf(
		"Album:      %s\nArticle:    %s\nLink:       %s\nCreated:    %s\nPublished:  %s\nThumbnail:  %s\nPreview:    %s\n",
		rec.AlbumName, rec.ArticleNumber, rec.PublicLink, rec.CreatedAt, published, cached, rec.PreviewURL,
	)
}

// errLine renders the current error above the help line, or nothing.
func (m *Model) errLine() string {
	if m.err == nil {
		return ""
	}
	return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
}

func (m *Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	return styles.ok.Render(m.status) + "\n"
}
