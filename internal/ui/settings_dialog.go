package ui

import (
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/model"
)

// Settings dialog size
const (
	SettingsDialogWidth  = 520
	SettingsDialogHeight = 460
)

// SettingsDialog edits the output preferences captured by new downloads
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	outputDirEntry *widget.Entry
	typeSelect     *widget.RadioGroup
	formatSelect   *widget.Select
	qualitySelect  *widget.Select
	thumbnailCheck *widget.Check
	metadataCheck  *widget.Check
	languageSelect *widget.Select
	engineEntry    *widget.Entry

	// language display name -> code
	languageCodes map[string]string
}

// ShowSettingsDialog builds and shows the dialog; onSaved runs after a save
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) {
	sd := NewSettingsDialog(settings, localization, window)
	sd.onSaved = onSaved
	sd.Show()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:      settings,
		localization:  localization,
		window:        window,
		languageCodes: make(map[string]string),
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) typeLabels() (video, audio string) {
	return sd.localization.GetText(KeyVideo), sd.localization.GetText(KeyAudio)
}

func (sd *SettingsDialog) selectedType() model.DownloadType {
	_, audio := sd.typeLabels()
	if sd.typeSelect.Selected == audio {
		return model.DownloadTypeAudio
	}
	return model.DownloadTypeVideo
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.outputDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	outputDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.outputDirEntry)

	sd.formatSelect = widget.NewSelect(nil, nil)
	sd.qualitySelect = widget.NewSelect(nil, nil)

	// Switching type swaps the format and quality lists to that type's defaults
	video, audio := sd.typeLabels()
	sd.typeSelect = widget.NewRadioGroup([]string{video, audio}, func(string) {
		sd.fillChoices(sd.selectedType(), "", "")
	})
	sd.typeSelect.Horizontal = true
	sd.typeSelect.Required = true

	sd.thumbnailCheck = widget.NewCheck(t(KeyEmbedThumbnail), nil)
	sd.metadataCheck = widget.NewCheck(t(KeyEmbedMetadata), nil)

	var languageNames []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	sort.Strings(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	sd.engineEntry = widget.NewEntry()
	sd.engineEntry.SetPlaceHolder("yt-queue engine")

	form := widget.NewForm(
		widget.NewFormItem(t(KeyOutputFolder), outputDirRow),
		widget.NewFormItem(t(KeyDownloadType), sd.typeSelect),
		widget.NewFormItem(t(KeyFormat), sd.formatSelect),
		widget.NewFormItem(t(KeyQuality), sd.qualitySelect),
		widget.NewFormItem("", container.NewVBox(sd.thumbnailCheck, sd.metadataCheck)),
		widget.NewFormItem(t(KeyLanguage), sd.languageSelect),
		widget.NewFormItem(t(KeyEngineCommand), sd.engineEntry),
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// fillChoices loads the format and quality lists for t, keeping the given
// selections when they are valid for it
func (sd *SettingsDialog) fillChoices(t model.DownloadType, format, quality string) {
	sd.formatSelect.SetOptions(model.FormatOptions(t))
	sd.qualitySelect.SetOptions(model.QualityOptions(t))
	if format == "" {
		format = model.DefaultFormat(t)
	}
	if quality == "" {
		quality = model.DefaultQuality(t)
	}
	sd.formatSelect.SetSelected(format)
	sd.qualitySelect.SetSelected(quality)
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	opts := sd.settings.Snapshot()
	sd.outputDirEntry.SetText(opts.OutputFolder)

	video, audio := sd.typeLabels()
	label := video
	if opts.AudioOnly() {
		label = audio
	}
	// SetSelected fires the change callback, which resets the lists
	sd.typeSelect.SetSelected(label)
	sd.fillChoices(opts.DownloadType, opts.Format, opts.Quality)

	sd.thumbnailCheck.SetChecked(opts.EmbedThumbnail)
	sd.metadataCheck.SetChecked(opts.EmbedMetadata)

	current := sd.settings.GetLanguage()
	for name, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelected(name)
		}
	}
	sd.engineEntry.SetText(sd.settings.GetEngineCommand())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.outputDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()
	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// apply writes the form values to the settings. The type goes first since
// changing it resets format and quality.
func (sd *SettingsDialog) apply() {
	if dir := sd.outputDirEntry.Text; dir != "" {
		sd.settings.SetOutputFolder(dir)
	}
	sd.settings.SetDownloadType(sd.selectedType())
	if sd.formatSelect.Selected != "" {
		sd.settings.SetFormat(sd.formatSelect.Selected)
	}
	if sd.qualitySelect.Selected != "" {
		sd.settings.SetQuality(sd.qualitySelect.Selected)
	}
	sd.settings.SetEmbedThumbnail(sd.thumbnailCheck.Checked)
	sd.settings.SetEmbedMetadata(sd.metadataCheck.Checked)
	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
	sd.settings.SetEngineCommand(sd.engineEntry.Text)
}
