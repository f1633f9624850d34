package app

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if !s.Loading.Initial {
		t.Error("Initial loading should be true")
	}
	if len(s.GetNotifications()) != 0 {
		t.Error("Notifications should be empty")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("days", true)
	if !s.Loading.Days || !s.AnyLoading() {
		t.Error("days should be loading")
	}

	s.SetLoading("days", false)
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() || s.IsInitialLoading() {
		t.Error("nothing should be loading")
	}

	s.SetLoading("bogus", true)
	if s.AnyLoading() {
		t.Error("unknown resource should be ignored")
	}
}

func TestState_RecordedDays(t *testing.T) {
	s := NewState()
	s.SetRecordedDays([]string{"2026-03-01", "2026-03-14"})

	s.AddRecordedDay("2026-03-10")
	s.AddRecordedDay("2026-03-14")

	want := []string{"2026-03-01", "2026-03-10", "2026-03-14"}
	if diff := cmp.Diff(want, s.RecordedDays()); diff != "" {
		t.Errorf("RecordedDays mismatch (-want +got):\n%s", diff)
	}

	days := s.RecordedDays()
	days[0] = "changed"
	if s.RecordedDays()[0] != "2026-03-01" {
		t.Error("RecordedDays should return a copy")
	}
	if s.LastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationSuccess, "saved", time.Minute)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("notification id %q is not a uuid: %v", id, err)
	}

	other := s.AddNotification(NotificationError, "failed", time.Minute)
	if other == id {
		t.Error("notification ids should be unique")
	}

	if got := len(s.GetNotifications()); got != 2 {
		t.Fatalf("got %d notifications, want 2", got)
	}

	s.RemoveNotification(id)
	notifs := s.GetNotifications()
	if len(notifs) != 1 || notifs[0].Message != "failed" {
		t.Errorf("after remove = %+v", notifs)
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications failed")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for range 15 {
		s.AddNotification(NotificationInfo, "msg", time.Minute)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("got %d notifications, want %d", got, maxNotifications)
	}
}

func TestState_ExpiredNotifications(t *testing.T) {
	s := NewState()
	s.AddNotification(NotificationInfo, "short", time.Nanosecond)
	s.AddNotification(NotificationInfo, "sticky", 0)
	time.Sleep(time.Millisecond)

	notifs := s.GetNotifications()
	if len(notifs) != 1 || notifs[0].Message != "sticky" {
		t.Errorf("GetNotifications = %+v, want only sticky", notifs)
	}

	s.ClearExpiredNotifications()
	if len(s.notifications) != 1 {
		t.Errorf("ClearExpiredNotifications left %d", len(s.notifications))
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()
	s.SetLoadingNotification("Loading...")
	s.SetLoadingNotification("Reloading...")

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID || notifs[0].Message != "Reloading..." {
		t.Errorf("loading notification = %+v", notifs[0])
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be removed")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
