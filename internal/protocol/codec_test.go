package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "start_game",
			msg:  StartGame{YourColor: entity.Second, YourName: "alice", Turn: entity.First, Variant: "gobble"},
			want: `{"type":"start_game","yourColor":"green","yourName":"alice","turn":"blue","variant":"gobble"}`,
		},
		{
			name: "name",
			msg:  Name{YourName: "bob"},
			want: `{"type":"name","yourName":"bob"}`,
		},
		{
			name: "classic move has no rank",
			msg:  Move{Index: 4, Seq: 1},
			want: `{"type":"move","index":4,"seq":1}`,
		},
		{
			name: "gobble move",
			msg:  Move{Index: 0, Rank: 7, Seq: 3},
			want: `{"type":"move","index":0,"rank":7,"seq":3}`,
		},
		{
			name: "restart_request",
			msg:  RestartRequest{},
			want: `{"type":"restart_request"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: encoding the message
			data, err := Encode(tt.msg)

			// Then: it is one flat tagged record
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			// And: decoding gives the same message back
			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.msg, decoded)
		})
	}
}

func TestEncode_RejectsSideless(t *testing.T) {
	_, err := Encode(StartGame{YourName: "alice"})

	assert.ErrorIs(t, err, entity.ErrUnknownSide)
}

func TestDecode(t *testing.T) {
	t.Run("Original start_game without variant", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"start_game","yourColor":"blue","turn":"blue"}`))

		require.NoError(t, err)
		assert.Equal(t, StartGame{YourColor: entity.First, Turn: entity.First}, msg)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"chat","text":"hi"}`))

		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("Not JSON", func(t *testing.T) {
		_, err := Decode([]byte(`move 4`))

		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("start_game without yourColor", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"start_game","yourName":"alice","turn":"blue"}`))

		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Bad colour", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"start_game","yourColor":"red","turn":"blue"}`))

		assert.ErrorIs(t, err, ErrMalformed)
	})
}
