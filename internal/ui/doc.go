package ui

// Package ui contains the Fyne desktop interface. It submits URLs to the
// download coordinator, renders the downloads it reports and forwards the
// per-row intents (cancel, retry, remove, open folder). All UI strings are
// localized via Localization.
