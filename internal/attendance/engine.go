// Package attendance implements the check-in/check-out verification engine.
// Per user and work day a record moves NoRecord -> CheckedIn -> CheckedOut;
// no transition skips a state and CheckedOut is terminal for the day.
package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"intelliface/backend/internal/entity"
	"intelliface/backend/internal/geofence"
)

// DefaultDeadline is the on-time boundary used when none is configured.
const DefaultDeadline = "09:00:00"

type Engine struct {
	store   RecordStore
	gateway EnrollmentGateway
	zones   ZoneDirectory
	clock   Clock

	loc      *time.Location
	deadline time.Duration // offset of the on-time deadline from midnight
}

// NewEngine wires the engine with its collaborators. deadline is a clock
// time in "15:04:05" form; work days are bounded in loc, which must be the
// single timezone used system-wide.
func NewEngine(store RecordStore, gateway EnrollmentGateway, zones ZoneDirectory, clock Clock, loc *time.Location, deadline string) (*Engine, error) {
	if deadline == "" {
		deadline = DefaultDeadline
	}
	t, err := time.Parse("15:04:05", deadline)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing on-time deadline %q", deadline)
	}
	offset := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second

	return &Engine{
		store:    store,
		gateway:  gateway,
		zones:    zones,
		clock:    clock,
		loc:      loc,
		deadline: offset,
	}, nil
}

// AttemptCheckIn runs the check-in gates in a fixed order: input presence,
// enrollment, zone assignment, same-day duplicate, face verification, and
// geofence containment. Nothing is persisted until every gate has passed, so
// a failure at any step leaves no partial state behind.
func (e *Engine) AttemptCheckIn(ctx context.Context, userID int, point *geofence.Point, sample *Sample) (*entity.Attendance, error) {
	now := e.clock.Now().In(e.loc)

	if point == nil || sample == nil || sample.Data == "" {
		return nil, ErrInvalidInput
	}

	enrolled, err := e.gateway.HasEnrollment(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "checking enrollment")
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	zones, err := e.zones.ZonesForUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "resolving allowed locations")
	}
	if len(zones) == 0 {
		return nil, ErrNoLocationAssigned
	}

	existing, err := e.store.FindTodayRecord(ctx, userID, e.startOfDay(now))
	if err != nil {
		return nil, errors.Wrap(err, "looking up today's record")
	}
	if existing != nil && existing.CheckInTime != nil {
		return nil, ErrAlreadyCheckedIn
	}

	match, err := e.gateway.VerifySample(ctx, userID, *sample)
	if err != nil {
		return nil, err
	}
	if !match.IsMatch {
		return nil, ErrFaceMismatch
	}

	if zone := geofence.FindContainingZone(*point, zones); zone == nil {
		return nil, ErrOutsideGeofence
	}

	status := entity.StatusPresent
	if now.After(e.deadlineFor(now)) {
		status = entity.StatusLate
	}

	checkIn := now
	record := &entity.Attendance{
		UserID:      &userID,
		WorkDay:     now.Format("2006-01-02"),
		CheckInTime: &checkIn,
		Status:      &status,
		Latitude:    &point.Latitude,
		Longitude:   &point.Longitude,
	}
	if sample.Ref != "" {
		record.SnapshotRef = &sample.Ref
	}

	created, err := e.store.InsertCheckIn(ctx, record)
	if errors.Is(err, ErrDuplicateKey) {
		// Lost the race against a concurrent check-in for the same day.
		return nil, ErrAlreadyCheckedIn
	}
	if err != nil {
		return nil, errors.Wrap(err, "inserting check-in")
	}

	return created, nil
}

// AttemptCheckOut closes today's open record. The sample is optional: when
// present it must pass verification, when absent the gate is skipped.
func (e *Engine) AttemptCheckOut(ctx context.Context, userID int, sample *Sample) (*entity.Attendance, error) {
	now := e.clock.Now().In(e.loc)

	record, err := e.store.FindTodayRecord(ctx, userID, e.startOfDay(now))
	if err != nil {
		return nil, errors.Wrap(err, "looking up today's record")
	}
	if record == nil || record.CheckInTime == nil {
		return nil, ErrNoCheckInFound
	}
	if record.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}
	// A check-out can never predate its check-in.
	if now.Before(*record.CheckInTime) {
		return nil, errors.Wrap(ErrInvalidInput, "check-out time precedes check-in")
	}

	var snapshotRef *string
	if sample != nil {
		match, err := e.gateway.VerifySample(ctx, userID, *sample)
		if err != nil {
			return nil, err
		}
		if !match.IsMatch {
			return nil, ErrFaceMismatch
		}
		if sample.Ref != "" {
			snapshotRef = &sample.Ref
		}
	}

	updated, err := e.store.UpdateCheckOut(ctx, record.ID, now, snapshotRef)
	if err != nil {
		return nil, errors.Wrap(err, "updating check-out")
	}

	return updated, nil
}

// GetTodayRecord returns today's record for the user, or nil when the user
// has not checked in. No gating applies to reads.
func (e *Engine) GetTodayRecord(ctx context.Context, userID int) (*entity.Attendance, error) {
	now := e.clock.Now().In(e.loc)

	record, err := e.store.FindTodayRecord(ctx, userID, e.startOfDay(now))
	if err != nil {
		return nil, errors.Wrap(err, "looking up today's record")
	}
	return record, nil
}

func (e *Engine) startOfDay(t time.Time) time.Time {
	year, month, day := t.In(e.loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, e.loc)
}

// deadlineFor is the on-time boundary for the calendar day of t. Strictly
// after it means Late; at or before it means Present.
func (e *Engine) deadlineFor(t time.Time) time.Time {
	return e.startOfDay(t).Add(e.deadline)
}
