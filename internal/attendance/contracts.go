package attendance

import (
	"context"
	"time"

	"intelliface/backend/internal/entity"
	"intelliface/backend/internal/geofence"
)

// Sample is a biometric sample submitted with a check-in or check-out. Data
// is the base64 encoded image forwarded to the verification capability; Ref
// is where the snapshot was stored, kept on the record.
type Sample struct {
	Data string
	Ref  string
}

// MatchResult is the verification capability's definitive answer for one
// sample. A non-match is a business decision, not a failure.
type MatchResult struct {
	IsMatch bool
	Reason  string
}

// RecordStore persists attendance records keyed by user and work day. The
// store must enforce uniqueness of (user, day): InsertCheckIn returns
// ErrDuplicateKey when a record for the day already exists, which is how two
// concurrent check-ins are serialized.
type RecordStore interface {
	// FindTodayRecord returns the record whose check-in falls on the given
	// day (start-of-day in the engine's timezone), or nil when none exists.
	FindTodayRecord(ctx context.Context, userID int, day time.Time) (*entity.Attendance, error)
	InsertCheckIn(ctx context.Context, record *entity.Attendance) (*entity.Attendance, error)
	UpdateCheckOut(ctx context.Context, recordID int, checkOutTime time.Time, snapshotRef *string) (*entity.Attendance, error)
}

// EnrollmentGateway answers whether a user can be verified and verifies
// submitted samples against the enrolled template. VerifySample returns an
// error wrapping ErrVerificationUnavailable for transport failures.
type EnrollmentGateway interface {
	HasEnrollment(ctx context.Context, userID int) (bool, error)
	VerifySample(ctx context.Context, userID int, sample Sample) (MatchResult, error)
}

// ZoneDirectory resolves the geofence zones a user may check in from.
type ZoneDirectory interface {
	ZonesForUser(ctx context.Context, userID int) ([]geofence.Zone, error)
}

// Clock is injected so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
