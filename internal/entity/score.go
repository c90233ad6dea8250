package entity

import "sort"

const ScoreKeyPrefix = "tic-tac-toe-score-"

// ScoreRecord maps a player id to its win count against one specific opponent.
type ScoreRecord map[string]int

// ScoreKey is the same for (a, b) and (b, a).
func ScoreKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)

	return ScoreKeyPrefix + ids[0] + "-" + ids[1]
}

func NewScoreRecord(a, b string) ScoreRecord {
	return ScoreRecord{a: 0, b: 0}
}

func (that ScoreRecord) Wins(id string) int {
	return that[id]
}
