package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownType = errors.New("unknown message type")
	ErrMalformed   = errors.New("malformed message")
)

type header struct {
	Type Type `json:"type"`
}

// Encode writes the message as one flat JSON object tagged with "type".
func Encode(msg Message) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch m := msg.(type) {
	case StartGame:
		data, err = json.Marshal(struct {
			header
			StartGame
		}{header{TypeStartGame}, m})
	case Name:
		data, err = json.Marshal(struct {
			header
			Name
		}{header{TypeName}, m})
	case Move:
		data, err = json.Marshal(struct {
			header
			Move
		}{header{TypeMove}, m})
	case RestartRequest:
		data, err = json.Marshal(header{TypeRestartRequest})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, msg)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", msg.Type(), err)
	}

	return data, nil
}

// Decode reads one message. Unrecognized tags return ErrUnknownType so callers can drop them.
func Decode(data []byte) (Message, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	switch h.Type {
	case TypeStartGame:
		msg, err := decodeAs[StartGame](data)
		if err != nil {
			return nil, err
		}

		if !msg.(StartGame).YourColor.Valid() {
			return nil, fmt.Errorf("%w: start_game without yourColor", ErrMalformed)
		}

		return msg, nil
	case TypeName:
		return decodeAs[Name](data)
	case TypeMove:
		return decodeAs[Move](data)
	case TypeRestartRequest:
		return RestartRequest{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, h.Type)
	}
}

func decodeAs[T Message](data []byte) (Message, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return msg, nil
}
