// Package protocol defines the messages two peers exchange over their data channel.
package protocol

import (
	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

type Type string

const (
	TypeStartGame      Type = "start_game"
	TypeName           Type = "name"
	TypeMove           Type = "move"
	TypeRestartRequest Type = "restart_request"
)

// Message is implemented only by the types in this package.
type Message interface {
	Type() Type
	sealed()
}

// StartGame is sent once by the connection initiator. YourName carries the sender's name.
type StartGame struct {
	YourColor entity.Side `json:"yourColor"`
	YourName  string      `json:"yourName"`
	Turn      entity.Side `json:"turn"`
	Variant   string      `json:"variant,omitempty"`
}

// Name carries the sender's display name.
type Name struct {
	YourName string `json:"yourName"`
}

type Move struct {
	Index int `json:"index"`
	Rank  int `json:"rank,omitempty"`
	// Seq is the 1-based number of this move in the current game, zero when unknown.
	Seq int `json:"seq,omitempty"`
}

type RestartRequest struct{}

func (StartGame) Type() Type      { return TypeStartGame }
func (Name) Type() Type           { return TypeName }
func (Move) Type() Type           { return TypeMove }
func (RestartRequest) Type() Type { return TypeRestartRequest }

func (StartGame) sealed()      {}
func (Name) sealed()           {}
func (Move) sealed()           {}
func (RestartRequest) sealed() {}
