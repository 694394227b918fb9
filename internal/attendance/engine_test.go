package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"intelliface/backend/internal/entity"
	"intelliface/backend/internal/geofence"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type fakeGateway struct {
	mu          sync.Mutex
	hasFn       func(ctx context.Context, userID int) (bool, error)
	verifyFn    func(ctx context.Context, userID int, sample Sample) (MatchResult, error)
	verifyCalls int
}

func (f *fakeGateway) HasEnrollment(ctx context.Context, userID int) (bool, error) {
	return f.hasFn(ctx, userID)
}

func (f *fakeGateway) VerifySample(ctx context.Context, userID int, sample Sample) (MatchResult, error) {
	f.mu.Lock()
	f.verifyCalls++
	f.mu.Unlock()
	return f.verifyFn(ctx, userID, sample)
}

type fakeZones struct {
	zonesFn func(ctx context.Context, userID int) ([]geofence.Zone, error)
}

func (f *fakeZones) ZonesForUser(ctx context.Context, userID int) ([]geofence.Zone, error) {
	return f.zonesFn(ctx, userID)
}

func officeZones(ctx context.Context, userID int) ([]geofence.Zone, error) {
	return []geofence.Zone{{Name: "office", Latitude: 0, Longitude: 0, Radius: 200}}, nil
}

func matchAlways(ctx context.Context, userID int, sample Sample) (MatchResult, error) {
	return MatchResult{IsMatch: true}, nil
}

func enrolledAlways(ctx context.Context, userID int) (bool, error) {
	return true, nil
}

// testEngine builds an engine over a MemoryStore at the given wall time with
// an 09:00:00 deadline in UTC.
func testEngine(t *testing.T, now time.Time) (*Engine, *MemoryStore, *fakeClock, *fakeGateway) {
	t.Helper()

	store := NewMemoryStore()
	clock := &fakeClock{now: now}
	gateway := &fakeGateway{hasFn: enrolledAlways, verifyFn: matchAlways}
	zones := &fakeZones{zonesFn: officeZones}

	engine, err := NewEngine(store, gateway, zones, clock, time.UTC, "09:00:00")
	assert.NoError(t, err)

	return engine, store, clock, gateway
}

func officePoint() *geofence.Point {
	return &geofence.Point{Latitude: 0, Longitude: 0}
}

func snapshot() *Sample {
	return &Sample{Data: "aW1hZ2U=", Ref: "statics/attendance/sample.jpg"}
}

func TestAttemptCheckIn_PresentBeforeDeadline(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 59, 59, 0, time.UTC)
	engine, store, _, _ := testEngine(t, now)
	ctx := context.Background()

	record, err := engine.AttemptCheckIn(ctx, 7, officePoint(), snapshot())
	assert.NoError(t, err)
	if assert.NotNil(t, record) {
		assert.Equal(t, 7, *record.UserID)
		assert.Equal(t, entity.StatusPresent, *record.Status)
		assert.Equal(t, "2025-03-10", record.WorkDay)
		assert.True(t, record.CheckInTime.Equal(now))
		assert.Nil(t, record.CheckOutTime)
		assert.Equal(t, "statics/attendance/sample.jpg", *record.SnapshotRef)
	}
	assert.Equal(t, 1, store.Len())
}

func TestAttemptCheckIn_LateAfterDeadline(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 1, 0, time.UTC)
	engine, _, _, _ := testEngine(t, now)

	record, err := engine.AttemptCheckIn(context.Background(), 7, officePoint(), snapshot())
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusLate, *record.Status)
}

func TestAttemptCheckIn_InvalidInput(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	engine, store, _, _ := testEngine(t, now)
	ctx := context.Background()

	_, err := engine.AttemptCheckIn(ctx, 7, nil, snapshot())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.AttemptCheckIn(ctx, 7, officePoint(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.AttemptCheckIn(ctx, 7, officePoint(), &Sample{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 0, store.Len())
}

func TestAttemptCheckIn_NotEnrolled(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	engine, store, _, gateway := testEngine(t, now)
	gateway.hasFn = func(ctx context.Context, userID int) (bool, error) { return false, nil }

	_, err := engine.AttemptCheckIn(context.Background(), 7, officePoint(), snapshot())
	assert.ErrorIs(t, err, ErrNotEnrolled)
	assert.Equal(t, 0, gateway.verifyCalls, "remote verification must not run for unenrolled users")
	assert.Equal(t, 0, store.Len())
}

func TestAttemptCheckIn_NoLocationAssigned(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	gateway := &fakeGateway{hasFn: enrolledAlways, verifyFn: matchAlways}
	zones := &fakeZones{zonesFn: func(ctx context.Context, userID int) ([]geofence.Zone, error) {
		return nil, nil
	}}
	engine, err := NewEngine(store, gateway, zones, &fakeClock{now: now}, time.UTC, "09:00:00")
	assert.NoError(t, err)

	_, err = engine.AttemptCheckIn(context.Background(), 7, officePoint(), snapshot())
	assert.ErrorIs(t, err, ErrNoLocationAssigned)
	assert.Equal(t, 0, store.Len())
}

func TestAttemptCheckIn_AlreadyCheckedIn(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	engine, store, _, _ := testEngine(t, now)
	ctx := context.Background()

	_, err := engine.AttemptCheckIn(ctx, 7, officePoint(), snapshot())
	assert.NoError(t, err)

	_, err = engine.AttemptCheckIn(ctx, 7, officePoint(), snapshot())
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Equal(t, 1, store.Len())
}

func TestAttemptCheckIn_FaceMismatch(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	engine, store, _, gateway := testEngine(t, now)
	gateway.verifyFn = func(ctx context.Context, userID int, sample Sample) (MatchResult, error) {
		return MatchResult{IsMatch: false, Reason: "distance above threshold"}, nil
	}

	_, err := engine.AttemptCheckIn(context.Background(), 7, officePoint(), snapshot())
	assert.ErrorIs(t, err, ErrFaceMismatch)
	assert.Equal(t, 0, store.Len(), "no record may be created on a mismatch")
}

func TestAttemptCheckIn_VerificationUnavailable(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	engine, store, _, gateway := testEngine(t, now)
	gateway.verifyFn = func(ctx context.Context, userID int, sample Sample) (MatchResult, error) {
		return MatchResult{}, errors.Wrap(ErrVerificationUnavailable, "connection refused")
	}

	_, err := engine.AttemptCheckIn(context.Background(), 7, officePoint(), snapshot())
	assert.ErrorIs(t, err, ErrVerificationUnavailable)
	assert.Equal(t, 0, store.Len())
}

func TestAttemptCheckIn_OutsideGeofence(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	gateway := &fakeGateway{hasFn: enrolledAlways, verifyFn: matchAlways}
	// Zone center ~1112m away from the submitted point, radius 500m.
	zones := &fakeZones{zonesFn: func(ctx context.Context, userID int) ([]geofence.Zone, error) {
		return []geofence.Zone{{Name: "hq", Latitude: 0, Longitude: 0.01, Radius: 500}}, nil
	}}
	engine, err := NewEngine(store, gateway, zones, &fakeClock{now: now}, time.UTC, "09:00:00")
	assert.NoError(t, err)

	_, err = engine.AttemptCheckIn(context.Background(), 7, &geofence.Point{Latitude: 0, Longitude: 0}, snapshot())
	assert.ErrorIs(t, err, ErrOutsideGeofence)
	assert.Equal(t, 0, store.Len())
}

func TestAttemptCheckIn_ConcurrentSameDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	engine, store, _, _ := testEngine(t, now)
	ctx := context.Background()

	const attempts = 8
	results := make(chan error, attempts)

	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := engine.AttemptCheckIn(ctx, 7, officePoint(), snapshot())
			results <- err
		}()
	}
	start.Done()

	var succeeded, rejected int
	for i := 0; i < attempts; i++ {
		err := <-results
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyCheckedIn):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one concurrent check-in may win")
	assert.Equal(t, attempts-1, rejected)
	assert.Equal(t, 1, store.Len())
}

func TestAttemptCheckOut_NoCheckInFound(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	engine, _, _, _ := testEngine(t, now)

	_, err := engine.AttemptCheckOut(context.Background(), 7, nil)
	assert.ErrorIs(t, err, ErrNoCheckInFound)
}

func TestAttemptCheckOut_ClosesOpenRecord(t *testing.T) {
	engine, _, clock, gateway := testEngine(t, time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := engine.AttemptCheckIn(ctx, 7, officePoint(), snapshot())
	assert.NoError(t, err)

	clock.now = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	verifyCallsBefore := gateway.verifyCalls

	record, err := engine.AttemptCheckOut(ctx, 7, nil)
	assert.NoError(t, err)
	if assert.NotNil(t, record.CheckOutTime) {
		assert.True(t, record.CheckOutTime.Equal(clock.now))
		assert.False(t, record.CheckOutTime.Before(*record.CheckInTime))
	}
	assert.Equal(t, verifyCallsBefore, gateway.verifyCalls, "check-out without a sample skips verification")

	_, err = engine.AttemptCheckOut(ctx, 7, nil)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
}

func TestAttemptCheckOut_SampleMustPassWhenPresent(t *testing.T) {
	engine, _, clock, gateway := testEngine(t, time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := engine.AttemptCheckIn(ctx, 7, officePoint(), snapshot())
	assert.NoError(t, err)

	clock.now = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	gateway.verifyFn = func(ctx context.Context, userID int, sample Sample) (MatchResult, error) {
		return MatchResult{IsMatch: false}, nil
	}

	_, err = engine.AttemptCheckOut(ctx, 7, snapshot())
	assert.ErrorIs(t, err, ErrFaceMismatch)

	// Record stays open, a matching sample can still close it.
	gateway.verifyFn = matchAlways
	out := &Sample{Data: "aW1hZ2U=", Ref: "statics/attendance/out.jpg"}
	record, err := engine.AttemptCheckOut(ctx, 7, out)
	assert.NoError(t, err)
	assert.Equal(t, "statics/attendance/out.jpg", *record.SnapshotRef)
}

func TestAttemptCheckOut_BeforeCheckInRejected(t *testing.T) {
	engine, _, clock, _ := testEngine(t, time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := engine.AttemptCheckIn(ctx, 7, officePoint(), snapshot())
	assert.NoError(t, err)

	// Clock moved backwards past the check-in time.
	clock.now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	_, err = engine.AttemptCheckOut(ctx, 7, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// The record stays open and closes once time is past the check-in again.
	clock.now = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	record, err := engine.AttemptCheckOut(ctx, 7, nil)
	assert.NoError(t, err)
	assert.NotNil(t, record.CheckOutTime)
}

func TestAttemptCheckOut_NextDayNeedsNewCheckIn(t *testing.T) {
	engine, _, clock, _ := testEngine(t, time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := engine.AttemptCheckIn(ctx, 7, officePoint(), snapshot())
	assert.NoError(t, err)

	clock.now = time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC)
	_, err = engine.AttemptCheckOut(ctx, 7, nil)
	assert.ErrorIs(t, err, ErrNoCheckInFound)
}

func TestGetTodayRecord_RoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	engine, _, clock, _ := testEngine(t, now)
	ctx := context.Background()

	record, err := engine.GetTodayRecord(ctx, 7)
	assert.NoError(t, err)
	assert.Nil(t, record)

	created, err := engine.AttemptCheckIn(ctx, 7, officePoint(), snapshot())
	assert.NoError(t, err)

	record, err = engine.GetTodayRecord(ctx, 7)
	assert.NoError(t, err)
	if assert.NotNil(t, record) {
		assert.Equal(t, created.ID, record.ID)
		assert.Equal(t, 7, *record.UserID)
		assert.True(t, record.CheckInTime.Equal(now))
		assert.Nil(t, record.CheckOutTime)
	}

	// A different user and the next day both read as empty.
	other, err := engine.GetTodayRecord(ctx, 8)
	assert.NoError(t, err)
	assert.Nil(t, other)

	clock.now = now.Add(24 * time.Hour)
	record, err = engine.GetTodayRecord(ctx, 7)
	assert.NoError(t, err)
	assert.Nil(t, record)
}
