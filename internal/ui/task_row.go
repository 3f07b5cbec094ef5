package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-queue/internal/model"
)

// MaxProgressPercent is the upper bound of Download.Progress
const MaxProgressPercent = 100

// RowCallbacks are the per-row user intents. Each receives the download id.
type RowCallbacks struct {
	Cancel   func(id string)
	Retry    func(id string)
	Remove   func(id string)
	Open     func(id string)
	CopyPath func(id string)
}

// TaskRow renders one download: title, status, progress bar, progress text
// and the actions valid for its status
type TaskRow struct {
	widget.BaseWidget

	download     *model.Download
	localization *Localization
	callbacks    RowCallbacks

	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	progressBar   *widget.ProgressBar

	cancelBtn *widget.Button
	retryBtn  *widget.Button
	removeBtn *widget.Button
	openBtn   *widget.Button
	copyBtn   *widget.Button
}

// NewTaskRow creates a new task row widget
func NewTaskRow(d *model.Download, localization *Localization) *TaskRow {
	if d == nil {
		d = &model.Download{Status: model.StatusQueued}
	}

	tr := &TaskRow{
		download:     d,
		localization: localization,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromDownload()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(callbacks RowCallbacks) {
	tr.callbacks = callbacks
}

// UpdateDownload updates the row with a new snapshot
func (tr *TaskRow) UpdateDownload(d *model.Download) {
	if d == nil {
		return
	}
	tr.download = d
	tr.updateFromDownload()
	tr.Refresh()
}

// cleanText flattens control whitespace that breaks single line labels
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}

func (tr *TaskRow) invoke(fn func(id string)) func() {
	return func() {
		if fn != nil && tr.download != nil {
			fn(tr.download.ID)
		}
	}
}

// createUI creates the UI components
func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing

	tr.progressLabel = widget.NewLabel("")
	tr.progressLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.progressLabel.Truncation = fyne.TextTruncateEllipsis

	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.Max = MaxProgressPercent
	tr.progressBar.TextFormatter = func() string { return "" }

	// Buttons read the callbacks at click time since rows are recycled by the list
	tr.cancelBtn = widget.NewButton(tr.localization.GetText(KeyCancel), func() { tr.invoke(tr.callbacks.Cancel)() })
	tr.retryBtn = widget.NewButton(tr.localization.GetText(KeyRetry), func() { tr.invoke(tr.callbacks.Retry)() })
	tr.retryBtn.Importance = widget.HighImportance
	tr.removeBtn = widget.NewButton(tr.localization.GetText(KeyRemove), func() { tr.invoke(tr.callbacks.Remove)() })
	tr.removeBtn.Importance = widget.LowImportance
	tr.openBtn = widget.NewButton(IconFolder, func() { tr.invoke(tr.callbacks.Open)() })
	tr.copyBtn = widget.NewButton(tr.localization.GetText(KeyCopyPath), func() { tr.invoke(tr.callbacks.CopyPath)() })
	tr.copyBtn.Importance = widget.LowImportance
}

// statusText returns the localized label and importance for a status
func (tr *TaskRow) statusText(status model.DownloadStatus) (string, widget.Importance) {
	switch status {
	case model.StatusDownloading:
		return IconPlay + " " + tr.localization.GetText(KeyStatusDownloading), widget.HighImportance
	case model.StatusCompleted:
		return IconDone + " " + tr.localization.GetText(KeyStatusCompleted), widget.SuccessImportance
	case model.StatusFailed:
		return IconError + " " + tr.localization.GetText(KeyStatusFailed), widget.DangerImportance
	default:
		return IconQueued + " " + tr.localization.GetText(KeyStatusQueued), widget.MediumImportance
	}
}

// updateFromDownload updates UI components based on the snapshot
func (tr *TaskRow) updateFromDownload() {
	d := tr.download

	tr.titleLabel.SetText(cleanText(d.GetDisplayTitle()))

	text, importance := tr.statusText(d.Status)
	tr.statusLabel.Importance = importance
	tr.statusLabel.SetText(text)

	tr.progressBar.SetValue(float64(d.Progress))
	tr.progressLabel.SetText(cleanText(d.ProgressText()))

	tr.updateButtons()
}

// updateButtons shows only the actions valid for the current status
func (tr *TaskRow) updateButtons() {
	status := tr.download.Status

	setVisible(tr.cancelBtn, status.IsActive())
	setVisible(tr.retryBtn, status == model.StatusFailed)
	setVisible(tr.copyBtn, status == model.StatusCompleted && tr.download.Filename != "")
	tr.removeBtn.Show()
	tr.openBtn.Show()
}

func setVisible(obj fyne.CanvasObject, visible bool) {
	if visible {
		obj.Show()
	} else {
		obj.Hide()
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	return &taskRowRenderer{taskRow: tr}
}

// taskRowRenderer renders the task row widget
type taskRowRenderer struct {
	taskRow *TaskRow
	layout  *fyne.Container
}

// Layout arranges the components
func (r *taskRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	if size.Height < RowMinHeight {
		size.Height = RowMinHeight
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *taskRowRenderer) MinSize() fyne.Size {
	if r.layout != nil {
		return r.layout.MinSize()
	}
	return fyne.NewSize(RowMinWidth, RowMinHeight)
}

// Refresh refreshes the renderer
func (r *taskRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *taskRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *taskRowRenderer) Destroy() {}

// createLayout creates the main layout
func (r *taskRowRenderer) createLayout() {
	tr := r.taskRow

	// Fix the width of an object using a transparent rectangle underneath
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	actionRow := container.NewHBox(
		tr.cancelBtn,
		tr.retryBtn,
		tr.openBtn,
		tr.copyBtn,
		tr.removeBtn,
	)

	// Row 1: title on the left, status pinned right.
	// Row 2: progress bar and text, actions pinned right.
	header := container.NewBorder(nil, nil, nil, fixedWidth(StatusLabelWidth, tr.statusLabel), tr.titleLabel)
	progress := container.NewBorder(nil, nil, fixedWidth(ProgressBarWidth, tr.progressBar), actionRow, tr.progressLabel)

	r.layout = container.NewVBox(
		header,
		progress,
		widget.NewSeparator(),
	)
	r.layout.Resize(fyne.NewSize(RowMinWidth, RowDefaultH))
}
