package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconQueued   = "⏳"
	IconDone     = "✔"
	IconFolder   = "📁"
	IconClose    = "×"
	IconError    = "❌"
)

// Layout sizing (TaskRow / lists)
const (
	StatusLabelWidth float32 = 110
	ProgressBarWidth float32 = 160

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 64
	RowDefaultH  float32 = 72

	WindowWidth  float32 = 800
	WindowHeight float32 = 600
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)

// Popup behavior
const (
	PopupAutoHide = 1500 * time.Millisecond
)
