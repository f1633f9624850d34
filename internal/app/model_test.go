package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/laborlog-tui/internal/services"
	"github.com/j-veylop/laborlog-tui/internal/services/pushes"
)

// fakeTab records the messages it receives.
type fakeTab struct {
	name     string
	got      []tea.Msg
	capture  bool
	width    int
	height   int
	initDone bool
}

func (f *fakeTab) Init() tea.Cmd {
	f.initDone = true
	return nil
}

func (f *fakeTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	f.got = append(f.got, msg)
	return f, nil
}

func (f *fakeTab) View() string {
	return "content of " + f.name + strings.Repeat("\n", f.height)
}
func (f *fakeTab) SetSize(width, height int) { f.width, f.height = width, height }
func (f *fakeTab) CapturesInput() bool       { return f.capture }

func (f *fakeTab) ShortHelp() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "do "+f.name))}
}

func (f *fakeTab) FullHelp() [][]key.Binding { return [][]key.Binding{f.ShortHelp()} }

func (f *fakeTab) received(match func(tea.Msg) bool) bool {
	for _, m := range f.got {
		if match(m) {
			return true
		}
	}
	return false
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel() (*Model, []*fakeTab) {
	model := NewModel(nil)
	tabs := []*fakeTab{{name: "contractions"}, {name: "pushes"}, {name: "info"}}
	model.SetTabs([]Tab{tabs[0], tabs[1], tabs[2]})
	model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return model, tabs
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabContractions {
		t.Error("Default tab should be Contractions")
	}
	if len(model.tabs) != 3 {
		t.Errorf("Should have 3 tabs placeholder, got %d", len(model.tabs))
	}
}

func TestModel_Init(t *testing.T) {
	model, tabs := newTestModel()
	if model.Init() == nil {
		t.Error("Init returned nil command")
	}
	for _, tab := range tabs {
		if !tab.initDone {
			t.Errorf("tab %s not initialized", tab.name)
		}
	}
}

func TestModel_WindowSize(t *testing.T) {
	model, tabs := newTestModel()
	if !model.IsReady() {
		t.Error("Model should be ready after WindowSizeMsg")
	}
	for _, tab := range tabs {
		if tab.width != 100 || tab.height != 35 {
			t.Errorf("tab %s size = %dx%d, want 100x35", tab.name, tab.width, tab.height)
		}
	}
}

func TestModel_TabSwitching(t *testing.T) {
	model, _ := newTestModel()

	tests := []struct {
		msg  tea.Msg
		want TabID
	}{
		{runes("2"), TabPushes},
		{runes("3"), TabInfo},
		{tea.KeyMsg{Type: tea.KeyTab}, TabContractions},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, TabInfo},
		{runes("1"), TabContractions},
	}

	for _, tt := range tests {
		model.Update(tt.msg)
		if model.GetActiveTab() != tt.want {
			t.Errorf("after %#v active = %v, want %v", tt.msg, model.GetActiveTab(), tt.want)
		}
	}

	model.switchTab(TabID(7))
	if model.GetActiveTab() != TabContractions {
		t.Error("an unknown tab should be ignored")
	}
}

func TestModel_KeysReachOnlyActiveTab(t *testing.T) {
	model, tabs := newTestModel()

	model.Update(runes(" "))

	isSpace := func(m tea.Msg) bool {
		k, ok := m.(tea.KeyMsg)
		return ok && k.String() == " "
	}
	if !tabs[0].received(isSpace) {
		t.Error("active tab should receive the key")
	}
	if tabs[1].received(isSpace) {
		t.Error("background tab should not receive keys")
	}
}

func TestModel_GlobalKeysNotForwarded(t *testing.T) {
	model, tabs := newTestModel()
	model.Update(runes("2"))

	if tabs[0].received(func(m tea.Msg) bool { _, ok := m.(tea.KeyMsg); return ok }) {
		t.Error("tab switch key should not reach the tab")
	}
}

func TestModel_NonKeyMessagesReachAllTabs(t *testing.T) {
	model, tabs := newTestModel()
	model.Update(ServiceEventMsg{Event: services.StoreChangedEvent{Taps: 4}})

	for _, tab := range tabs {
		if !tab.received(func(m tea.Msg) bool { _, ok := m.(ServiceEventMsg); return ok }) {
			t.Errorf("tab %s missed the service event", tab.name)
		}
	}
}

func TestModel_InputCapture(t *testing.T) {
	model, tabs := newTestModel()
	tabs[0].capture = true

	model.Update(runes("2"))
	if model.GetActiveTab() != TabContractions {
		t.Error("capturing tab should swallow tab switch keys")
	}
	if !tabs[0].received(func(m tea.Msg) bool { k, ok := m.(tea.KeyMsg); return ok && k.String() == "2" }) {
		t.Error("capturing tab should receive the key")
	}

	_, cmd := model.Update(runes("q"))
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Error("q should not quit while input is captured")
		}
	}

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should produce QuitMsg")
	}
}

func TestModel_Quit(t *testing.T) {
	model, _ := newTestModel()
	_, cmd := model.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce QuitMsg")
	}
}

func TestModel_Help(t *testing.T) {
	model, tabs := newTestModel()

	model.Update(runes("?"))
	if !model.showHelp {
		t.Fatal("? should open help")
	}
	view := model.View()
	if !strings.Contains(view, "Keyboard Shortcuts") || !strings.Contains(view, "do contractions") {
		t.Error("help overlay should list global and tab shortcuts")
	}

	before := len(tabs[0].got)
	model.Update(runes(" "))
	if len(tabs[0].got) != before {
		t.Error("keys should not reach the tab while help is open")
	}

	model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.showHelp {
		t.Error("esc should close help")
	}
}

func TestModel_Notifications(t *testing.T) {
	model, _ := newTestModel()

	_, cmd := model.Update(AddNotificationMsg{Type: NotificationError, Message: "boom", Duration: time.Minute})
	if cmd == nil {
		t.Error("timed notification should schedule removal")
	}
	if !strings.Contains(model.View(), "boom") {
		t.Error("toast should be rendered")
	}

	id := model.state.GetNotifications()[0].ID
	model.Update(RemoveNotificationMsg{ID: id})
	if len(model.state.GetNotifications()) != 0 {
		t.Error("RemoveNotificationMsg should remove the toast")
	}
}

func TestModel_ServiceErrorBecomesToast(t *testing.T) {
	model, _ := newTestModel()

	cmd := model.handleServiceEvent(services.ErrorEvent{Service: "pushes", Error: errors.New("disk full")})
	if cmd == nil {
		t.Fatal("ErrorEvent should produce a notification command")
	}
	msg, ok := cmd().(AddNotificationMsg)
	if !ok || msg.Type != NotificationError || !strings.Contains(msg.Message, "disk full") {
		t.Errorf("msg = %#v", msg)
	}
}

func TestModel_PushEventMarksDay(t *testing.T) {
	model, _ := newTestModel()
	model.handleServiceEvent(services.PushRecordedEvent{Push: pushes.Push{Date: "2026-03-14", Hour: 2, Count: 1}})

	days := model.state.RecordedDays()
	if len(days) != 1 || days[0] != "2026-03-14" {
		t.Errorf("RecordedDays = %v", days)
	}
}

func TestModel_InitialLoad(t *testing.T) {
	model, _ := newTestModel()
	model.state.SetLoadingNotification("Loading...")

	model.Update(InitialLoadCompleteMsg{RecordedDays: []string{"2026-03-01"}})
	if model.state.IsInitialLoading() {
		t.Error("initial loading should be cleared")
	}
	if len(model.state.GetNotifications()) != 0 {
		t.Error("loading toast should be cleared")
	}
	if len(model.state.RecordedDays()) != 1 {
		t.Error("recorded days should be stored")
	}
}

func TestModel_ErrorMsg(t *testing.T) {
	model, _ := newTestModel()
	_, cmd := model.Update(ReportError("Tap not saved", errors.New("disk full"))())
	if cmd == nil {
		t.Fatal("ErrorMsg should return a command")
	}

	msg, ok := cmd().(AddNotificationMsg)
	if !ok {
		t.Fatalf("cmd() = %#v, want AddNotificationMsg", msg)
	}
	if msg.Type != NotificationError || msg.Message != "Tap not saved: disk full" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestModel_EscDismissesToasts(t *testing.T) {
	model, tabs := newTestModel()
	model.Update(AddNotificationMsg{Type: NotificationInfo, Message: "hi", Duration: time.Minute})

	before := len(tabs[0].got)
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc with toasts should return a command")
	}
	if len(tabs[0].got) != before {
		t.Error("esc should not reach the tab while toasts are shown")
	}
	msg := cmd()
	if _, ok := msg.(ClearNotificationsMsg); !ok {
		t.Fatalf("cmd() = %#v, want ClearNotificationsMsg", msg)
	}

	model.Update(msg)
	if n := len(model.state.GetNotifications()); n != 0 {
		t.Errorf("notifications = %d, want 0", n)
	}
}

func TestModel_RefreshKey(t *testing.T) {
	model, tabs := newTestModel()

	_, cmd := model.Update(runes("r"))
	if cmd == nil {
		t.Fatal("r should return a command")
	}
	if msg, ok := cmd().(RefreshMsg); !ok || msg.Resource != RefreshAll {
		t.Errorf("cmd() = %#v, want RefreshMsg{all}", msg)
	}
	for _, m := range tabs[0].got {
		if _, ok := m.(tea.KeyMsg); ok {
			t.Error("r should not reach the tab")
		}
	}
}

func TestModel_LoadingMessages(t *testing.T) {
	model, _ := newTestModel()
	model.state.SetLoading("initial", false)

	model.Update(StartLoading("compact")())
	if !model.state.AnyLoading() {
		t.Error("StartLoadingMsg should mark the resource as loading")
	}
	notes := model.state.GetNotifications()
	if len(notes) != 1 || notes[0].Message != "Compacting database..." {
		t.Errorf("notifications = %+v", notes)
	}

	model.Update(StopLoading("compact")())
	if model.state.AnyLoading() {
		t.Error("StopLoadingMsg should clear the loading flag")
	}
	if n := len(model.state.GetNotifications()); n != 0 {
		t.Errorf("loading toast should be removed, got %d notifications", n)
	}
}

func TestModel_Tick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	if !strings.Contains(model.View(), "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view := model.View()
	for _, name := range []string{"Contractions", "Pushes", "Info"} {
		if !strings.Contains(view, name) {
			t.Errorf("View should show %s tab", name)
		}
	}
	if !strings.Contains(view, "not yet implemented") {
		t.Error("View should show placeholder text")
	}

	model, _ = newTestModel()
	if !strings.Contains(model.View(), "content of contractions") {
		t.Error("View should render the active tab")
	}
}

func TestTabID_String(t *testing.T) {
	tests := []struct {
		id   TabID
		want string
	}{
		{TabContractions, "Contractions"},
		{TabPushes, "Pushes"},
		{TabInfo, "Info"},
		{TabID(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 || len(km.FullHelp()) == 0 {
		t.Error("keymap help should not be empty")
	}
}
