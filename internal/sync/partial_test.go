package sync

import (
	"testing"
	"time"

	"github.com/offlinesync/notekeeper/models"
	"github.com/stretchr/testify/assert"
)

func TestArchiveExpired(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -60)
	recent := now.Add(-time.Hour)
	boundary := now.AddDate(0, 0, -30)

	tests := []struct {
		name          string
		since         *time.Time
		retentionDays int
		want          bool
	}{
		{name: "no retention configured", since: nil, retentionDays: 0, want: false},
		{name: "no since spans all history", since: nil, retentionDays: 30, want: true},
		{name: "since predates threshold", since: &old, retentionDays: 30, want: true},
		{name: "since inside retention", since: &recent, retentionDays: 30, want: false},
		{name: "since exactly at threshold", since: &boundary, retentionDays: 30, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := models.Window{Since: tt.since, Until: now}

			assert.Equal(t, tt.want, ArchiveExpired(window, tt.retentionDays, now))
		})
	}
}
