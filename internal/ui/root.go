package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

// MetadataResolver looks up title and audio tracks before a download is added
type MetadataResolver interface {
	Resolve(ctx context.Context, url string) (*model.Metadata, error)
}

// PlaylistExpander lists the entries of a playlist URL
type PlaylistExpander interface {
	Parse(ctx context.Context, url string) (*model.Playlist, error)
}

// StatusFilter enumerates visible subsets of downloads in the list
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterActive
	FilterCompleted
	FilterFailed
)

var filterKeys = []string{KeyFilterAll, KeyFilterActive, KeyFilterCompleted, KeyFilterFailed}

// Matches reports whether a download with status s is shown under the filter
func (sf StatusFilter) Matches(s model.DownloadStatus) bool {
	switch sf {
	case FilterActive:
		return s.IsActive()
	case FilterCompleted:
		return s == model.StatusCompleted
	case FilterFailed:
		return s == model.StatusFailed
	default:
		return true
	}
}

// filterDownloads keeps store order
func filterDownloads(all []*model.Download, sf StatusFilter) []*model.Download {
	out := make([]*model.Download, 0, len(all))
	for _, d := range all {
		if sf.Matches(d.Status) {
			out = append(out, d)
		}
	}
	return out
}

// preview holds metadata fetched for the URL currently in the entry
type preview struct {
	url      string
	metadata *model.Metadata
}

// RootUI represents the main UI structure
type RootUI struct {
	window fyne.Window

	urlEntry     *widget.Entry
	fetchBtn     *widget.Button
	addBtn       *widget.Button
	previewLabel *widget.Label
	trackSelect  *widget.Select
	previewBox   *fyne.Container
	statsLabel   *widget.Label
	filterSelect *widget.Select
	taskList     *widget.List

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite

	downloads    download.Downloader
	resolver     MetadataResolver
	playlists    PlaylistExpander
	settings     *config.Settings
	localization *Localization
	unsubscribe  func()

	mu            sync.Mutex
	currentFilter StatusFilter
	rows          []*model.Download
	preview       preview
	trackIDs      map[string]string // track label -> id

	log zerolog.Logger
}

// NewRootUI creates and initializes the main UI. playlists may be nil.
func NewRootUI(window fyne.Window, downloads download.Downloader, resolver MetadataResolver, playlists PlaylistExpander, settings *config.Settings) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		downloads:    downloads,
		resolver:     resolver,
		playlists:    playlists,
		settings:     settings,
		localization: localization,
		trackIDs:     make(map[string]string),
		log:          logger.Get("ui"),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()

	ui.unsubscribe = downloads.Subscribe(ui.onDownloadEvent)
	window.SetOnClosed(ui.unsubscribe)
	ui.reload()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	t := ui.localization.GetText
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(t(KeyEnterURL))
	ui.urlEntry.Validator = ui.validateURL
	ui.urlEntry.OnSubmitted = func(string) { ui.onAddClick() }
	ui.urlEntry.OnChanged = func(string) { ui.clearPreview() }

	ui.fetchBtn = widget.NewButton(t(KeyFetchInfo), ui.onFetchClick)
	ui.addBtn = widget.NewButton(t(KeyAdd), ui.onAddClick)
	ui.addBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, settingsBtn, container.NewHBox(ui.fetchBtn, ui.addBtn), ui.urlEntry)

	// Preview of the fetched metadata with the track choice, hidden until fetched
	ui.previewLabel = widget.NewLabel("")
	ui.previewLabel.Truncation = fyne.TextTruncateEllipsis
	ui.trackSelect = widget.NewSelect(nil, nil)
	ui.previewBox = container.NewBorder(nil, nil, nil, ui.trackSelect, ui.previewLabel)
	ui.previewBox.Hide()

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	ui.statsLabel = widget.NewLabel("")
	filterNames := make([]string, len(filterKeys))
	for i, key := range filterKeys {
		filterNames[i] = t(key)
	}
	ui.filterSelect = widget.NewSelect(filterNames, func(selected string) {
		for i, name := range filterNames {
			if name == selected {
				ui.onFilterChanged(StatusFilter(i))
			}
		}
	})
	statusBar := container.NewBorder(nil, nil, ui.statsLabel, ui.filterSelect)

	ui.taskList = widget.NewList(
		func() int {
			ui.mu.Lock()
			defer ui.mu.Unlock()
			return len(ui.rows)
		},
		func() fyne.CanvasObject { return ui.createTaskItem() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { ui.updateTaskItem(id, obj) },
	)

	ui.mu.Lock()
	current := ui.currentFilter
	ui.mu.Unlock()
	ui.filterSelect.SetSelectedIndex(int(current))

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.previewBox, ui.notificationContainer),
		statusBar,
		nil,
		nil,
		ui.taskList,
	)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	t := ui.localization.GetText
	settingsItem := fyne.NewMenuItem(t(KeySettings), ui.onShowSettings)
	openItem := fyne.NewMenuItem(t(KeyOpenDownloads), func() { ui.onOpenLocation("") })

	languageMenu := fyne.NewMenu(t(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() { ui.onLanguageChange(langCode) })
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(t(KeyFile), openItem, settingsItem),
		languageMenu,
	))
}

// onLanguageChange rebuilds the window in the new language
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.setupUI()
	ui.reload()
}

// validateURL is the entry validator; empty input is allowed
func (ui *RootUI) validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	return engine.ValidateURL(input)
}

func (ui *RootUI) enteredURL() string {
	return cleanText(ui.urlEntry.Text)
}

// checkURL reports validation problems in the notification panel
func (ui *RootUI) checkURL(url string) bool {
	if url == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL), false)
		return false
	}
	if err := engine.ValidateURL(url); err != nil {
		ui.showNotification(ui.localization.GetText(KeyInvalidURL)+": "+err.Error(), false)
		return false
	}
	return true
}

// onFetchClick resolves metadata for the preview
func (ui *RootUI) onFetchClick() {
	url := ui.enteredURL()
	if !ui.checkURL(url) {
		return
	}
	if model.IsPlaylistURL(url) {
		ui.onAddClick()
		return
	}

	ui.showNotification(ui.localization.GetText(KeyFetchingInfo), true)
	ui.fetchBtn.Disable()
	go func() {
		meta, err := ui.resolver.Resolve(context.Background(), url)
		fyne.Do(func() {
			ui.fetchBtn.Enable()
			if err != nil {
				ui.log.Warn().Err(err).Str("url", url).Msg("metadata resolution failed")
				ui.showNotification(ui.localization.GetText(KeyFetchFailed)+": "+err.Error(), false)
				return
			}
			ui.hideNotification()
			ui.showPreview(url, meta)
		})
	}()
}

// showPreview displays the title and, when there is a real choice, the
// audio track selector
func (ui *RootUI) showPreview(url string, meta *model.Metadata) {
	trackIDs := make(map[string]string, len(meta.AudioTracks))
	labels := make([]string, 0, len(meta.AudioTracks))
	for _, track := range meta.AudioTracks {
		label := track.Description
		if label == "" {
			label = track.Language
		}
		trackIDs[label] = track.ID
		labels = append(labels, label)
	}

	ui.mu.Lock()
	ui.preview = preview{url: url, metadata: meta}
	ui.trackIDs = trackIDs
	ui.mu.Unlock()

	ui.previewLabel.SetText(cleanText(meta.Title))
	if meta.HasTrackChoice() {
		ui.trackSelect.SetOptions(labels)
		ui.trackSelect.SetSelectedIndex(0)
		ui.trackSelect.Show()
	} else {
		ui.trackSelect.Hide()
	}
	ui.previewBox.Show()
}

func (ui *RootUI) clearPreview() {
	ui.mu.Lock()
	ui.preview = preview{}
	ui.mu.Unlock()
	if ui.previewBox != nil {
		ui.previewBox.Hide()
	}
}

// onAddClick submits the URL with a snapshot of the current settings
func (ui *RootUI) onAddClick() {
	url := ui.enteredURL()
	if !ui.checkURL(url) {
		return
	}
	opts := ui.settings.Snapshot()

	if model.IsPlaylistURL(url) && ui.playlists != nil {
		ui.addPlaylist(url, opts)
		return
	}

	ui.mu.Lock()
	pv := ui.preview
	track := ui.trackIDs[ui.trackSelect.Selected]
	ui.mu.Unlock()

	if pv.url == url && pv.metadata != nil {
		if pv.metadata.HasTrackChoice() && track != "" {
			opts.AudioTrack = track
		}
		ui.enqueue(url, pv.metadata, opts)
		return
	}

	// Resolve first so a bad link never creates a download
	ui.showNotification(ui.localization.GetText(KeyFetchingInfo), true)
	go func() {
		meta, err := ui.resolver.Resolve(context.Background(), url)
		fyne.Do(func() {
			if err != nil {
				ui.showNotification(ui.localization.GetText(KeyFetchFailed)+": "+err.Error(), false)
				return
			}
			ui.enqueue(url, meta, opts)
		})
	}()
}

func (ui *RootUI) enqueue(url string, meta *model.Metadata, opts model.Options) {
	if _, err := ui.downloads.Enqueue(url, meta, opts); err != nil {
		ui.showNotification(err.Error(), false)
		return
	}
	ui.urlEntry.SetText("")
	ui.clearPreview()
	ui.showNotification(ui.localization.GetText(KeyDownloadStarted), false)
}

// addPlaylist expands the playlist in the background and enqueues every entry
func (ui *RootUI) addPlaylist(url string, opts model.Options) {
	ui.showNotification(ui.localization.GetText(KeyParsingStarted), true)
	go func() {
		playlist, err := ui.playlists.Parse(context.Background(), url)
		var ids []string
		if err == nil {
			ids, err = ui.downloads.EnqueuePlaylist(playlist, opts)
		}
		fyne.Do(func() {
			if err != nil {
				ui.log.Warn().Err(err).Str("url", url).Msg("playlist failed")
				ui.showNotification(ui.localization.GetText(KeyParsingFailed)+": "+err.Error(), false)
				return
			}
			ui.urlEntry.SetText("")
			ui.showNotification(fmt.Sprintf("%s: %s (%d)", ui.localization.GetText(KeyPlaylistParsed), playlist.Title, len(ids)), false)
		})
	}()
}

// showNotification displays a message in the panel under the URL input.
// Must run on the UI goroutine.
func (ui *RootUI) showNotification(message string, spinning bool) {
	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
	} else {
		ui.notificationSpinner.Hide()
	}
	ui.notificationContainer.Show()
}

func (ui *RootUI) hideNotification() {
	ui.notificationSpinner.Hide()
	ui.notificationContainer.Hide()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.showNotification(ui.localization.GetText(KeySettingsSaved), false)
	})
}

// createTaskItem creates a recyclable row
func (ui *RootUI) createTaskItem() fyne.CanvasObject {
	row := NewTaskRow(nil, ui.localization)
	row.SetCallbacks(ui.rowCallbacks())
	return row
}

func (ui *RootUI) rowCallbacks() RowCallbacks {
	return RowCallbacks{
		Cancel:   func(id string) { ui.report(ui.downloads.Cancel(id)) },
		Retry:    func(id string) { ui.report(ui.downloads.Retry(id)) },
		Remove:   func(id string) { ui.report(ui.downloads.Remove(id)) },
		Open:     ui.onOpenLocation,
		CopyPath: ui.onCopyPath,
	}
}

func (ui *RootUI) report(err error) {
	if err != nil && !errors.Is(err, download.ErrNotFound) {
		ui.showNotification(err.Error(), false)
	}
}

// updateTaskItem binds a row to the download at index id
func (ui *RootUI) updateTaskItem(id widget.ListItemID, item fyne.CanvasObject) {
	ui.mu.Lock()
	if id >= len(ui.rows) {
		ui.mu.Unlock()
		return
	}
	d := ui.rows[id]
	ui.mu.Unlock()

	if row, ok := item.(*TaskRow); ok {
		row.UpdateDownload(d)
	}
}

// onFilterChanged handles filter changes
func (ui *RootUI) onFilterChanged(filter StatusFilter) {
	ui.mu.Lock()
	ui.currentFilter = filter
	ui.mu.Unlock()
	ui.reload()
}

// reload pulls a fresh snapshot from the coordinator. Must run on the UI
// goroutine.
func (ui *RootUI) reload() {
	all := ui.downloads.List()
	stats := ui.downloads.Stats()

	ui.mu.Lock()
	ui.rows = filterDownloads(all, ui.currentFilter)
	ui.mu.Unlock()

	ui.statsLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyStats), stats.Active, stats.Completed))
	ui.taskList.Refresh()
}

// onDownloadEvent runs on the coordinator's goroutine
func (ui *RootUI) onDownloadEvent(ev download.Event) {
	fyne.Do(func() {
		ui.reload()
		if ev.Kind == download.EventCompleted && ev.Download != nil {
			ui.sendCompletionNotification(ev.Download)
		}
	})
}

// onOpenLocation opens the file's folder, or the output folder when id is
// empty or the download has no file yet
func (ui *RootUI) onOpenLocation(id string) {
	path, err := ui.downloads.OutputLocation(id)
	if err == nil {
		err = platform.OpenLocation(path)
	}
	if err != nil {
		ui.log.Error().Err(err).Str("id", id).Msg("failed to open location")
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningDir)+": "+err.Error(), false)
	}
}

func (ui *RootUI) onCopyPath(id string) {
	d, ok := ui.downloads.Get(id)
	if !ok || d.Filename == "" {
		return
	}
	fyne.CurrentApp().Clipboard().SetContent(d.Filename)
	ui.showNotification(ui.localization.GetText(KeyPathCopied), false)
}

// sendCompletionNotification sends a system notification and an in-app toast
func (ui *RootUI) sendCompletionNotification(d *model.Download) {
	title := ui.localization.GetText(KeyDownloadCompleted)
	fyne.CurrentApp().SendNotification(fyne.NewNotification(title, d.GetDisplayTitle()))
	ui.showToastNotification(d)
}

// showToastNotification shows an in-app toast with an open folder action
func (ui *RootUI) showToastNotification(d *model.Download) {
	titleLabel := widget.NewLabel(ui.localization.GetText(KeyDownloadCompleted))
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	messageLabel := widget.NewLabel(cleanText(d.GetDisplayTitle()))
	messageLabel.Truncation = fyne.TextTruncateEllipsis

	var toast *widget.PopUp
	openBtn := widget.NewButton(ui.localization.GetText(KeyOpenFolder), func() {
		ui.onOpenLocation(d.ID)
		toast.Hide()
	})
	openBtn.Importance = widget.HighImportance

	closeBtn := widget.NewButton(IconClose, func() { toast.Hide() })
	closeBtn.Importance = widget.LowImportance

	content := container.NewVBox(
		container.NewBorder(nil, nil, titleLabel, closeBtn),
		messageLabel,
		container.NewHBox(openBtn),
	)
	toast = widget.NewPopUp(content, ui.window.Canvas())

	canvasSize := ui.window.Canvas().Size()
	toastSize := fyne.NewSize(ToastWidth, ToastHeight)
	toast.Resize(toastSize)
	toast.Move(fyne.NewPos(canvasSize.Width-toastSize.Width-ToastMargin, ToastMargin))
	toast.Show()

	time.AfterFunc(ToastAutoHide, func() {
		fyne.Do(toast.Hide)
	})
}
