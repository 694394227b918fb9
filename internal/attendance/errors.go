package attendance

import "github.com/pkg/errors"

// Business rejections the engine can return. The HTTP layer maps each kind
// to a user-facing message and status code; none of them indicates a bug.
var (
	ErrInvalidInput       = errors.New("latitude, longitude and snapshot are required")
	ErrNotEnrolled        = errors.New("face is not enrolled, contact an administrator")
	ErrNoLocationAssigned = errors.New("no allowed work location is configured")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrAlreadyCheckedOut  = errors.New("already checked out today")
	ErrNoCheckInFound     = errors.New("no check-in record found for today")
	ErrFaceMismatch       = errors.New("face did not match")
	ErrOutsideGeofence    = errors.New("outside of any allowed work location radius")

	// ErrVerificationUnavailable is transient: the remote verification
	// capability could not be reached or timed out. Safe to retry with a
	// backoff, unlike ErrFaceMismatch which needs a new sample.
	ErrVerificationUnavailable = errors.New("face verification service unavailable")

	// ErrDuplicateKey is returned by RecordStore.InsertCheckIn when the
	// (user, work day) uniqueness constraint rejects the insert. The engine
	// reports it as ErrAlreadyCheckedIn.
	ErrDuplicateKey = errors.New("attendance record already exists for this day")
)
