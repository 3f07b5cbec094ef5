package download

import (
	"time"

	"github.com/ytget/yt-queue/internal/model"
)

// The functions below are the download state machine:
//
//	Queued -> Downloading -> Completed | Failed
//	Failed -> Queued (retry only)
//
// Each returns false when the transition does not apply, in which case the
// record is left untouched.

func startDispatch(d *model.Download, now time.Time) bool {
	if d.Status != model.StatusQueued {
		return false
	}
	d.Status = model.StatusDownloading
	d.Progress = 0
	d.Speed = ""
	d.ETA = ""
	d.Error = ""
	d.Filename = ""
	d.Attempt++
	d.StartedAt = now
	d.FinishedAt = time.Time{}
	return true
}

func applyProgress(d *model.Download, percent int, speed, eta string) bool {
	if d.Status != model.StatusDownloading {
		return false
	}
	percent = clampPercent(percent)
	// Late duplicates must not move the bar backwards.
	if percent > d.Progress {
		d.Progress = percent
	}
	d.Speed = speed
	d.ETA = eta
	return true
}

func applyComplete(d *model.Download, filename string, now time.Time) bool {
	if d.Status != model.StatusDownloading {
		return false
	}
	d.Status = model.StatusCompleted
	d.Progress = 100
	d.Error = ""
	d.Speed = ""
	d.ETA = ""
	d.Filename = filename
	d.FinishedAt = now
	return true
}

func applyFailure(d *model.Download, message string, now time.Time) bool {
	if d.Status != model.StatusDownloading {
		return false
	}
	markFailed(d, message, now)
	return true
}

func applyCancel(d *model.Download, now time.Time) bool {
	if !d.Status.IsActive() {
		return false
	}
	markFailed(d, MsgCancelledByUser, now)
	return true
}

func resetForRetry(d *model.Download) bool {
	if d.Status != model.StatusFailed {
		return false
	}
	d.Status = model.StatusQueued
	d.Progress = 0
	d.Error = ""
	d.Speed = ""
	d.ETA = ""
	return true
}

func markFailed(d *model.Download, message string, now time.Time) {
	d.Status = model.StatusFailed
	d.Error = message
	d.Speed = ""
	d.ETA = ""
	d.FinishedAt = now
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
