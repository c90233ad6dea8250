package ui

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/usecase"
)

const (
	pageLogin = "login"
	pageGame  = "game"
)

type controller interface {
	Connect(remoteID string)
	Move(index, rank int)
	Rematch()
	Disconnect()
}

// View renders the session and turns key presses into loop inputs.
// Fields below app are only touched on the tview goroutine.
type View struct {
	logger *slog.Logger
	app    *tview.Application
	screen tcell.Screen

	pages   *tview.Pages
	login   *tview.Form
	board   *tview.Table
	status  *tview.TextView
	score   *tview.TextView
	stock   *tview.TextView
	notice  *tview.TextView
	connect *tview.InputField

	session entity.Session
	rank    int
	control controller
}

// New builds the view. onLogin runs on the UI goroutine with the name typed in.
func New(logger *slog.Logger, defaultName string, onLogin func(name string)) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal: %w", err)
	}

	view := &View{
		logger: logger.With("component", "ui"),
		app:    tview.NewApplication().SetScreen(screen),
		screen: screen,
		pages:  tview.NewPages(),
	}

	view.buildLogin(defaultName, onLogin)
	view.buildGame()

	view.pages.SetBorder(true).SetTitle(" tic-tac-toe ")
	view.app.SetRoot(view.pages, true)

	return view, nil
}

func (that *View) Run() error {
	if err := that.app.Run(); err != nil {
		return fmt.Errorf("failed to run ui: %w", err)
	}

	return nil
}

func (that *View) Stop() {
	that.app.Stop()
}

// LoginFailed keeps the login form up and explains why.
func (that *View) LoginFailed(err error) {
	that.app.QueueUpdateDraw(func() {
		that.login.SetTitle(fmt.Sprintf(" %s ", err))
	})
}

// Bind switches to the board once the node is up.
func (that *View) Bind(control controller, local entity.PlayerIdentity) {
	that.app.QueueUpdateDraw(func() {
		that.control = control
		that.session = entity.Session{Local: local}
		that.render()
		that.pages.SwitchToPage(pageGame)
		that.app.SetFocus(that.board)
	})
}

func (that *View) Changed(session entity.Session) {
	that.app.QueueUpdateDraw(func() {
		that.session = session
		that.render()
	})
}

func (that *View) Cue(cue usecase.Cue) {
	that.app.QueueUpdateDraw(func() {
		if cue == usecase.CueIllegal {
			that.notice.SetText("[red]Illegal move[-]")
		}

		if err := that.screen.Beep(); err != nil {
			that.logger.Debug("failed to beep", "cue", cue, "error", err)
		}
	})
}

func (that *View) Notice(text string) {
	that.app.QueueUpdateDraw(func() {
		that.notice.SetText(tview.Escape(text))
	})
}

func (that *View) buildLogin(defaultName string, onLogin func(name string)) {
	that.login = tview.NewForm()
	that.login.AddInputField("Name", defaultName, 20, nil, nil)
	that.login.AddButton("Play", func() {
		name := that.login.GetFormItemByLabel("Name").(*tview.InputField).GetText()
		onLogin(name)
	})
	that.login.AddButton("Quit", that.app.Stop)
	that.login.SetBorder(true).SetTitle(" Who are you? ")

	that.pages.AddPage(pageLogin, center(that.login, 40, 9), true, true)
}

func (that *View) buildGame() {
	that.board = tview.NewTable().SetSelectable(true, true)
	that.board.SetBorders(true)
	that.board.SetSelectedFunc(func(row, column int) {
		if that.control != nil {
			that.control.Move(row*3+column, that.rank)
		}
	})
	that.board.SetInputCapture(that.handleKey)

	that.status = tview.NewTextView().SetDynamicColors(true)
	that.score = tview.NewTextView().SetDynamicColors(true)
	that.stock = tview.NewTextView().SetDynamicColors(true)
	that.notice = tview.NewTextView().SetDynamicColors(true)

	that.connect = tview.NewInputField().SetLabel("Opponent id: ").SetFieldWidth(24)
	that.connect.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && that.control != nil && that.connect.GetText() != "" {
			that.control.Connect(that.connect.GetText())
			that.connect.SetText("")
		}

		that.app.SetFocus(that.board)
	})

	help := tview.NewTextView().SetDynamicColors(true).
		SetText("[gray]arrows move, enter places, 1-7 pick piece, c connect, r rematch, d disconnect, q quit[-]")

	panel := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(that.status, 2, 0, false).
		AddItem(that.score, 1, 0, false).
		AddItem(that.stock, 1, 0, false).
		AddItem(that.notice, 2, 0, false)

	body := tview.NewFlex().
		AddItem(that.board, 15, 0, true).
		AddItem(panel, 0, 1, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 9, 0, true).
		AddItem(that.connect, 1, 0, false).
		AddItem(help, 1, 0, false)

	that.pages.AddPage(pageGame, layout, true, false)
}

func (that *View) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune || that.control == nil {
		return event
	}

	switch r := event.Rune(); {
	case r >= '1' && r <= '7':
		that.rank = pickRank(that.session, int(r-'0'))
		that.render()
	case r == 'c':
		that.app.SetFocus(that.connect)
	case r == 'r':
		that.control.Rematch()
	case r == 'd':
		that.control.Disconnect()
	case r == 'q':
		that.app.Stop()
	default:
		return event
	}

	return nil
}

func (that *View) render() {
	session := that.session
	that.rank = pickRank(session, that.rank)

	for index, cell := range session.Board {
		style := tcell.StyleDefault.Foreground(sideColor(cell.Side)).Bold(!cell.IsEmpty())
		if onWinningLine(session.Outcome, index) {
			style = style.Reverse(true)
		}

		that.board.SetCell(index/3, index%3,
			tview.NewTableCell(" "+cellText(cell, session.Variant)+" ").
				SetStyle(style).
				SetAlign(tview.AlignCenter))
	}

	that.status.SetText(tview.Escape(statusText(session)))
	that.score.SetText(tview.Escape(scoreText(session)))
	that.stock.SetText(tview.Escape(stockText(session, that.rank)))
}

func center(item tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(item, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
