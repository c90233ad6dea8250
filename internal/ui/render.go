// Package ui is the terminal surface of the client: a login form, the board and the status lines.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/rules"
)

const emptyCell = "·"

var sideColors = map[entity.Side]tcell.Color{
	entity.First:  tcell.ColorDodgerBlue,
	entity.Second: tcell.ColorLimeGreen,
}

func sideColor(side entity.Side) tcell.Color {
	if color, ok := sideColors[side]; ok {
		return color
	}

	return tcell.ColorGray
}

// cellText is the glyph for one board cell; gobble pieces show their rank.
func cellText(cell entity.Cell, variant string) string {
	if cell.IsEmpty() {
		return emptyCell
	}

	if variant == string(rules.Gobble) {
		return strconv.Itoa(cell.Rank)
	}

	if cell.Side == entity.First {
		return "X"
	}

	return "O"
}

func onWinningLine(outcome entity.Outcome, index int) bool {
	if outcome.Kind != entity.OutcomeWin {
		return false
	}

	for _, i := range outcome.Line {
		if i == index {
			return true
		}
	}

	return false
}

func opponentName(session entity.Session) string {
	if session.Remote.DisplayName != "" {
		return session.Remote.DisplayName
	}

	if session.Remote.ID != "" {
		return session.Remote.ID
	}

	return "Opponent"
}

// statusText is the one-line summary of where the session stands.
func statusText(session entity.Session) string {
	if !session.Connected() {
		return fmt.Sprintf("Your id is %s. Press c and enter an opponent id to play", session.Local.ID)
	}

	opponent := opponentName(session)

	switch session.Phase {
	case entity.PhaseNegotiating:
		return "Waiting for opponent"
	case entity.PhaseActive:
		if session.IsMyTurn() {
			return fmt.Sprintf("Your turn, you play %s", session.Side)
		}

		return fmt.Sprintf("%s's turn", opponent)
	case entity.PhaseEnded:
		return endedText(session, opponent)
	default:
		return ""
	}
}

func endedText(session entity.Session, opponent string) string {
	var result string

	switch {
	case session.Outcome.Kind == entity.OutcomeDraw:
		result = "Draw"
	case session.Outcome.Winner == session.Side:
		result = "You won"
	default:
		result = opponent + " won"
	}

	switch {
	case session.LocalReady:
		return fmt.Sprintf("%s. Waiting for %s to play again", result, opponent)
	case session.RemoteReady:
		return fmt.Sprintf("%s. %s wants to play again, press r", result, opponent)
	default:
		return result + ". Press r to play again"
	}
}

// scoreText shows the tally against the current opponent, local player first.
func scoreText(session entity.Session) string {
	if session.Remote.ID == "" {
		return ""
	}

	return fmt.Sprintf("%s %d : %d %s",
		session.Local.DisplayName, session.Score.Wins(session.Local.ID),
		session.Score.Wins(session.Remote.ID), opponentName(session))
}

// stockText lists the ranks the local player can still place, marking the selected one.
func stockText(session entity.Session, selected int) string {
	if session.Variant != string(rules.Gobble) || !session.Side.Valid() {
		return ""
	}

	ranks := session.Stock.Of(session.Side).Ranks()
	if len(ranks) == 0 {
		return "No pieces left"
	}

	parts := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		if rank == selected {
			parts = append(parts, fmt.Sprintf("[%d]", rank))
		} else {
			parts = append(parts, strconv.Itoa(rank))
		}
	}

	return "Pieces: " + strings.Join(parts, " ")
}

// pickRank keeps the selected rank while it is still unplaced, else falls back to the highest.
func pickRank(session entity.Session, selected int) int {
	if session.Variant != string(rules.Gobble) || !session.Side.Valid() {
		return 0
	}

	inventory := session.Stock.Of(session.Side)
	if selected > 0 && inventory.Has(selected) {
		return selected
	}

	return inventory.Highest()
}
