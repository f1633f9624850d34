package app

import (
	"time"

	"github.com/j-veylop/laborlog-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// InitialLoadCompleteMsg carries the data gathered after startup.
type InitialLoadCompleteMsg struct {
	Error        error
	RecordedDays []string
	Taps         int
}

// RecordedDaysLoadedMsg contains the days that have recorded pushes.
type RecordedDaysLoadedMsg struct {
	Error error
	Days  []string
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "days"
}

const (
	// RefreshAll reloads both trackers from the store, then the day list.
	RefreshAll = "all"
	// RefreshDays reloads only the list of days with pushes.
	RefreshDays = "days"
)

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearNotificationsMsg requests clearing all notifications.
type ClearNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}
