package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, ModeTwoStage, u.Mode)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
}

func TestUser_SetStateAndMode(t *testing.T) {
	u := NewUser(1, 10)

	u.SetState(StateAwaitingPhoto)
	require.Equal(t, StateAwaitingPhoto, u.State)

	u.SetMode(ModeSimplified)
	require.Equal(t, ModeSimplified, u.Mode)
}
