package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/laborlog-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData returns a command that gathers the startup summary.
func loadInitialData(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		days, err := mgr.RecordedDays(context.Background())
		return InitialLoadCompleteMsg{
			Taps:         mgr.Contractions().Len(),
			RecordedDays: days,
			Error:        err,
		}
	}
}

// loadRecordedDaysCmd returns a command that lists the days with pushes.
func loadRecordedDaysCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		days, err := mgr.RecordedDays(context.Background())
		return RecordedDaysLoadedMsg{Days: days, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// requestRefreshCmd returns a command that asks the root model to reload.
func requestRefreshCmd(resource string) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{Resource: resource}
	}
}

// clearNotificationsCmd returns a command that dismisses every toast.
func clearNotificationsCmd() tea.Cmd {
	return func() tea.Msg {
		return ClearNotificationsMsg{}
	}
}

// StartLoading returns a command that marks resource as loading.
func StartLoading(resource string) tea.Cmd {
	return func() tea.Msg {
		return StartLoadingMsg{Resource: resource}
	}
}

// StopLoading returns a command that marks resource as loaded.
func StopLoading(resource string) tea.Cmd {
	return func() tea.Msg {
		return StopLoadingMsg{Resource: resource}
	}
}

// ReportError returns a command that logs err and shows it as an error
// toast prefixed with label.
func ReportError(label string, err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Context: label, Error: err}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// NotifySuccess returns a command that adds a success notification.
func NotifySuccess(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// NotifyError returns a command that adds an error notification.
func NotifyError(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// NotifyWarning returns a command that adds a warning notification.
func NotifyWarning(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// NotifyInfo returns a command that adds an info notification.
func NotifyInfo(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}
