package sync

import (
	"time"

	"github.com/offlinesync/notekeeper/models"
)

// ArchiveExpired reports whether tombstone expiry may have removed rows an
// archive client's window would otherwise have surfaced.
//
// With no retention configured nothing ever expires. With retention
// configured, a request without since spans all history and can always have
// lost rows; a request whose since predates the expiry threshold may have
// lost rows between since and the threshold. Either way the archive response
// is downgraded to partial — an informational hint, not an error.
func ArchiveExpired(window models.Window, retentionDays int, now time.Time) bool {
	if retentionDays <= 0 {
		return false
	}

	if window.Since == nil {
		return true
	}

	threshold := now.AddDate(0, 0, -retentionDays)
	return window.Since.Before(threshold)
}
