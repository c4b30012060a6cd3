package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/lvlup-app/lvlup/internal/model"
	"github.com/lvlup-app/lvlup/internal/session"
)

type View string

const (
	ViewBoard    View = "Board"
	ViewCalendar View = "Calendar"
	ViewHelp     View = "Help"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Board    string
	Calendar string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Model is the TUI shell over the session. All task/section state lives
// in the session; the model keeps only cursors, input widgets and the
// latest published snapshot.
type Model struct {
	Session *session.Session

	CurrentView   View
	SectionCursor int
	TaskCursor    int
	AddingTask    bool
	Palette       CommandPaletteState
	Status        StatusBar
	Keys          GlobalKeyMap
	HelpVisible   bool
	Quitting      bool

	state model.AppState

	quickAddInput textinput.Model
	commandInput  textinput.Model
	xpBar         progress.Model
	historyTable  table.Model
	helpModel     help.Model
	keyMap        boardKeyMap
}

type boardKeyMap struct {
	NextTask    key.Binding
	PrevTask    key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	Toggle      key.Binding
	Add         key.Binding
	Remove      key.Binding
	Palette     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Remove, k.Palette, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTask, k.PrevTask, k.NextSection, k.PrevSection},
		{k.Toggle, k.Add, k.Remove},
		{k.Palette, k.Help, k.Quit},
	}
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		NextTask:    key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "next task")),
		PrevTask:    key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "prev task")),
		NextSection: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "next section")),
		PrevSection: key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "prev section")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Remove:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove task")),
		Palette:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "palette")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func NewModel(sess *session.Session) Model {
	quickAdd := textinput.New()
	quickAdd.Placeholder = "task name xp:10"
	quickAdd.CharLimit = 120

	command := textinput.New()
	command.Placeholder = "toggle health exercise"
	command.CharLimit = 200

	historyTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "XP", Width: 6},
			{Title: "Tasks", Width: 6},
		}),
		table.WithHeight(12),
	)

	m := Model{
		Session:     sess,
		CurrentView: ViewBoard,
		Keys: GlobalKeyMap{
			Board:    "1",
			Calendar: "2",
			Help:     "?",
			Quit:     "q",
		},
		quickAddInput: quickAdd,
		commandInput:  command,
		xpBar:         progress.New(progress.WithDefaultGradient()),
		historyTable:  historyTable,
		helpModel:     help.New(),
		keyMap:        newBoardKeyMap(),
	}
	if sess != nil {
		m.state = sess.Snapshot()
	}
	m.syncHistoryTable()
	return m
}
