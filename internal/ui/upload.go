package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/services"
	"github.com/piclinks/piclinks/internal/tasks"
)

const statusClearDelay = 2 * time.Second

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.State == catalog.InFlight {
		// Navigation is locked while a transfer runs.
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit) && !m.pathInput.Focused():
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = AlbumListView
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		m.usePicker = !m.usePicker
		if m.usePicker {
			m.pathInput.Blur()
		} else {
			m.pathInput.Focus()
		}
		return m, nil
	case key.Matches(msg, m.keys.enter) && !m.usePicker:
		if path := m.pathInput.Value(); path != "" {
			return m, m.selectFromPath(path)
		}
		if m.selection.Current() != nil {
			return m, m.startUpload()
		}
		return m, nil
	}

	return m.updateUploadComponents(msg)
}

func (m *Model) updateUploadComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.usePicker {
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			if info, err := os.Stat(path); err == nil {
				m.selection.SetFromPicker(path, info.Size())
				m.err = nil
			}
		}
	} else {
		m.pathInput, cmd = m.pathInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// selectFromPath treats a typed path like a dropped file: anything that is
// not a ZIP archive is rejected and the previous selection survives.
func (m *Model) selectFromPath(path string) tea.Cmd {
	info, err := os.Stat(path)
	if err != nil {
		m.err = err
		return nil
	}
	if err := m.selection.SetFromDrop(path, info.Size()); err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.pathInput.SetValue("")
	return nil
}

func (m *Model) startUpload() tea.Cmd {
	sel := m.selection.Current()
	if sel == nil {
		return nil
	}

	m.session = catalog.NewUploadSession()
	m.session.State = catalog.InFlight
	m.err = nil
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	ch := m.progressChan

	go func() {
		result, err := m.engine.Upload(m.ctx, sel, ch)
		m.finalResult, m.finalErr = result, err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return uploadCompleteMsg{result: m.finalResult, err: m.finalErr}
		}
		update, ok := <-ch
		if !ok {
			return uploadCompleteMsg{result: m.finalResult, err: m.finalErr}
		}
		return uploadProgressMsg(update)
	}
}

func (m *Model) renderUpload() string {
	title := styles.title.Render("Upload Album Archive")

	var body string
	switch m.session.State {
	case catalog.InFlight:
		body = fmt.Sprintf("%s\n\n%s", m.uploadBar.ViewAs(float64(m.session.Percent)/100), m.status)
	case catalog.Succeeded:
		body = styles.ok.Render(fmt.Sprintf("✓ Uploaded to album '%s'", m.session.AlbumName))
	case catalog.Failed:
		body = styles.err.Render(fmt.Sprintf("Upload failed: %v", m.session.Err))
	default:
		body = m.renderSelectionPrompt()
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.toggle, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSelectionPrompt() string {
	var source string
	if m.usePicker {
		source = m.picker.View()
	} else {
		source = m.pathInput.View()
	}

	var selected string
	if sel := m.selection.Current(); sel != nil {
		selected = fmt.Sprintf("\nSelected: %s (via %s)\nPress enter to upload", styles.ok.Render(sel.Label()), sel.Source)
	}

	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return fmt.Sprintf("%s%s%s", source, selected, errLine)
}

func (m *Model) handleExportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = FileListView
		return m, nil
	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		m.exportInCell = !m.exportInCell
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		m.exportNewline = !m.exportNewline
		return m, nil
	case key.Matches(msg, m.keys.enter):
		return m, m.startExport()
	}
	return m, nil
}

func (m *Model) startExport() tea.Cmd {
	req := &services.ExportRequest{
		AlbumName:   m.album,
		ArticleName: m.article,
		ExportType:  services.ExportInRow,
		Separator:   ", ",
	}
	if m.exportInCell {
		req.ExportType = services.ExportInCell
	}
	if m.exportNewline {
		req.Separator = "\n"
	}

	return func() tea.Msg {
		path, err := m.exports.RequestExport(m.ctx, req)
		return exportCompleteMsg{path: path, err: err}
	}
}

func (m *Model) renderExport() string {
	title := styles.title.Render(fmt.Sprintf("Export links for '%s'", m.album))
	if m.article != "" {
		title = styles.title.Render(fmt.Sprintf("Export links for '%s' / article %s", m.album, m.article))
	}

	inRow, inCell := "  one link per row", "  all links in one cell"
	if m.exportInCell {
		inCell = styles.ok.Render("▸ all links in one cell")
	} else {
		inRow = styles.ok.Render("▸ one link per row")
	}

	comma, newline := "  comma separated", "  newline separated"
	if m.exportNewline {
		newline = styles.ok.Render("▸ newline separated")
	} else {
		comma = styles.ok.Render("▸ comma separated")
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.toggle, m.keys.enter, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s\n\n%s%s", title, inRow, inCell, comma, newline, m.errLine(), m.help.ShortHelpView(helpKeys))
}
