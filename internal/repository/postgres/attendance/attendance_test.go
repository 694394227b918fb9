package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkDay_BoundedInConfiguredTimezone(t *testing.T) {
	// 23:30 UTC on March 10 is already March 11 east of UTC.
	instant := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		loc  *time.Location
		want string
	}{
		{"utc", time.UTC, "2025-03-10"},
		{"east of utc", time.FixedZone("UTC+5", 5*60*60), "2025-03-11"},
		{"west of utc", time.FixedZone("UTC-8", -8*60*60), "2025-03-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, workDay(instant, tt.loc))
		})
	}
}
