package model

import "testing"

func TestDownloadStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   DownloadStatus
		expected bool
	}{
		{StatusQueued, true},
		{StatusDownloading, true},
		{StatusCompleted, false},
		{StatusFailed, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("DownloadStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestDownloadStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   DownloadStatus
		expected bool
	}{
		{StatusQueued, false},
		{StatusDownloading, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("DownloadStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestDownloadStatus_String(t *testing.T) {
	if got := StatusDownloading.String(); got != "Downloading" {
		t.Errorf("DownloadStatus.String() = %s, expected Downloading", got)
	}
}
