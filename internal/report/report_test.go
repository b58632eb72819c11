package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kozaktomas/attendance-gate/internal/config"
	"github.com/kozaktomas/attendance-gate/internal/store"
	"github.com/kozaktomas/attendance-gate/internal/store/mock"
)

var testStatuses = config.StatusConfig{
	Present:     "Hadir",
	NotRecorded: "Belum Absen",
	UnknownTime: "-",
}

func TestDaily(t *testing.T) {
	m := mock.New()
	ana := m.AddStudent(store.Student{ExternalID: "S-1", Name: "Ana", Group: "7A"})
	m.AddStudent(store.Student{ExternalID: "S-2", Name: "Budi", Group: "7A"})
	m.AddStudent(store.Student{ExternalID: "S-3", Name: "Citra", Group: "8B"})

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	scannedAt := day.Add(7*time.Hour + 30*time.Minute)
	err := m.Upsert(context.Background(), store.AttendanceUpsert{
		StudentID: ana,
		Activity:  "Matematika",
		Status:    "Hadir",
		Day:       day,
		At:        scannedAt,
	})
	if err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	r := New(m, testStatuses)
	rows, err := r.Daily(context.Background(), "7A", "Matematika", day)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	// Every member of the group appears, recorded or not; other groups do not.
	if len(rows) != 2 {
		t.Fatalf("rows = %d; want 2", len(rows))
	}
	if rows[0].Name != "Ana" || rows[1].Name != "Budi" {
		t.Errorf("order = %q, %q; want Ana, Budi", rows[0].Name, rows[1].Name)
	}
	if rows[0].Status != "Hadir" || rows[0].ScannedAt != "07:30:00" {
		t.Errorf("Ana = (%q, %q); want (Hadir, 07:30:00)", rows[0].Status, rows[0].ScannedAt)
	}
	if rows[1].Status != "Belum Absen" || rows[1].ScannedAt != "-" {
		t.Errorf("Budi = (%q, %q); want (Belum Absen, -)", rows[1].Status, rows[1].ScannedAt)
	}
}

func TestDailyEmptyGroup(t *testing.T) {
	r := New(mock.New(), testStatuses)
	rows, err := r.Daily(context.Background(), "7A", "Matematika", time.Now())
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d; want 0", len(rows))
	}
}

func TestDailyStorageError(t *testing.T) {
	m := mock.New()
	m.DailyViewError = errors.New("connection refused")

	r := New(m, testStatuses)
	if _, err := r.Daily(context.Background(), "7A", "Matematika", time.Now()); err == nil {
		t.Error("expected storage error")
	}
}

func TestRange(t *testing.T) {
	m := mock.New()
	ana := m.AddStudent(store.Student{ExternalID: "S-1", Name: "Ana", Group: "7A"})
	citra := m.AddStudent(store.Student{ExternalID: "S-3", Name: "Citra", Group: "8B"})

	day1 := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	seed := []store.AttendanceUpsert{
		{StudentID: ana, Activity: "Matematika", Status: "Hadir", Day: day1, At: day1.Add(7 * time.Hour)},
		{StudentID: ana, Activity: "Matematika", Status: "Hadir", Day: day2, At: day2.Add(7 * time.Hour)},
		{StudentID: citra, Activity: "Fisika", Status: "Sakit", Day: day1, At: day1.Add(8 * time.Hour)},
	}
	for _, u := range seed {
		if err := m.Upsert(context.Background(), u); err != nil {
			t.Fatalf("seed upsert: %v", err)
		}
	}

	r := New(m, testStatuses)

	t.Run("unfiltered", func(t *testing.T) {
		rows, err := r.Range(context.Background(), store.RangeFilter{Start: day1, End: day2})
		if err != nil {
			t.Fatalf("Range: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("rows = %d; want 3", len(rows))
		}
		// Group ascending, then newest day first within the group.
		if rows[0].Group != "7A" || !rows[0].Day.Equal(day2) {
			t.Errorf("row 0 = (%s, %v); want (7A, %v)", rows[0].Group, rows[0].Day, day2)
		}
		if rows[1].Group != "7A" || !rows[1].Day.Equal(day1) {
			t.Errorf("row 1 = (%s, %v); want (7A, %v)", rows[1].Group, rows[1].Day, day1)
		}
		if rows[2].Group != "8B" {
			t.Errorf("row 2 group = %s; want 8B", rows[2].Group)
		}
	})

	t.Run("filter by group", func(t *testing.T) {
		rows, err := r.Range(context.Background(), store.RangeFilter{Start: day1, End: day2, Group: "8B"})
		if err != nil {
			t.Fatalf("Range: %v", err)
		}
		if len(rows) != 1 || rows[0].Name != "Citra" {
			t.Fatalf("rows = %v; want only Citra", rows)
		}
	})

	t.Run("filter by activity", func(t *testing.T) {
		rows, err := r.Range(context.Background(), store.RangeFilter{Start: day1, End: day2, Activity: "Fisika"})
		if err != nil {
			t.Fatalf("Range: %v", err)
		}
		if len(rows) != 1 || rows[0].Activity != "Fisika" {
			t.Fatalf("rows = %v; want only Fisika", rows)
		}
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		rows, err := r.Range(context.Background(), store.RangeFilter{Start: day1, End: day1})
		if err != nil {
			t.Fatalf("Range: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("rows = %d; want 2 (end date inclusive)", len(rows))
		}
	})
}
