package model

// DownloadStatus represents the lifecycle state of a download
type DownloadStatus string

const (
	// StatusQueued means the download was created and waits for dispatch
	StatusQueued DownloadStatus = "Queued"

	// StatusDownloading means the engine is transferring the media
	StatusDownloading DownloadStatus = "Downloading"

	// StatusCompleted means the engine reported completion
	StatusCompleted DownloadStatus = "Completed"

	// StatusFailed means the transfer failed or was cancelled by the user
	StatusFailed DownloadStatus = "Failed"
)

// String returns the string representation of DownloadStatus
func (s DownloadStatus) String() string {
	return string(s)
}

// IsActive returns true while the download still counts as in progress
func (s DownloadStatus) IsActive() bool {
	return s == StatusQueued || s == StatusDownloading
}

// IsFinished returns true once a dispatch reached a terminal state
func (s DownloadStatus) IsFinished() bool {
	return s == StatusCompleted || s == StatusFailed
}
