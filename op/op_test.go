package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(LoopOpen)
	require.Equal(t, "LOOP_OPEN", info.Name)
	require.Equal(t, '[', info.Char)
	require.False(t, info.Foldable)
	require.Equal(t, LoopOpen, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code     Code
		name     string
		char     rune
		foldable bool
	}{
		{MoveRight, "MOVE_RIGHT", '>', true},
		{MoveLeft, "MOVE_LEFT", '<', true},
		{Increment, "INCREMENT", '+', true},
		{Decrement, "DECREMENT", '-', true},
		{Output, "OUTPUT", '.', false},
		{Input, "INPUT", ',', false},
		{LoopOpen, "LOOP_OPEN", '[', false},
		{LoopClose, "LOOP_CLOSE", ']', false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.char, info.Char)
			require.Equal(t, tt.foldable, info.Foldable)
			require.Equal(t, tt.name, tt.code.String())

			code, ok := Lookup(tt.char)
			require.True(t, ok)
			require.Equal(t, tt.code, code)
		})
	}
}

func TestLookupRejectsComments(t *testing.T) {
	for _, ch := range []rune{' ', '\n', 'a', '0', '#', '{', '²', 0} {
		_, ok := Lookup(ch)
		require.False(t, ok, "char %q", ch)
	}
}

func TestInvalid(t *testing.T) {
	require.Equal(t, "INVALID", Invalid.String())
	require.Equal(t, rune(0), Invalid.Char())
	require.Equal(t, "INVALID", Code(200).String())
	require.False(t, Code(200).Foldable())
}
