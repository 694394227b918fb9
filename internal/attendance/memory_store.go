package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"intelliface/backend/internal/entity"
)

// MemoryStore is an in-memory RecordStore. It enforces the same (user, work
// day) uniqueness the postgres store gets from its unique index, so engine
// tests exercise the real duplicate path.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int
	byDay   map[memoryKey]*entity.Attendance
	records map[int]*entity.Attendance
}

type memoryKey struct {
	userID  int
	workDay string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		byDay:   map[memoryKey]*entity.Attendance{},
		records: map[int]*entity.Attendance{},
	}
}

func (s *MemoryStore) FindTodayRecord(_ context.Context, userID int, day time.Time) (*entity.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byDay[memoryKey{userID: userID, workDay: day.Format("2006-01-02")}]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (s *MemoryStore) InsertCheckIn(_ context.Context, record *entity.Attendance) (*entity.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.UserID == nil {
		return nil, errors.New("user id is required")
	}

	key := memoryKey{userID: *record.UserID, workDay: record.WorkDay}
	if _, exists := s.byDay[key]; exists {
		return nil, ErrDuplicateKey
	}

	clone := *record
	clone.ID = s.nextID
	clone.CreatedAt = time.Now()
	s.nextID++

	s.byDay[key] = &clone
	s.records[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (s *MemoryStore) UpdateCheckOut(_ context.Context, recordID int, checkOutTime time.Time, snapshotRef *string) (*entity.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[recordID]
	if !ok {
		return nil, errors.Errorf("attendance record %d not found", recordID)
	}

	record.CheckOutTime = &checkOutTime
	if snapshotRef != nil {
		record.SnapshotRef = snapshotRef
	}

	clone := *record
	return &clone, nil
}

// Len reports how many records were created, for store inspection in tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
