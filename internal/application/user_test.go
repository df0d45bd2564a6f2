package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/infrastructure/storage"
)

func TestUserService_BeginCheck(t *testing.T) {
	svc := NewUserService(storage.NewMemoryUserRepository())
	ctx := context.Background()

	user, err := svc.GetOrCreate(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	require.NoError(t, svc.BeginCheck(ctx, 1))
	user, err = svc.GetOrCreate(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)
}

func TestUserService_BeginBatchAndCancel(t *testing.T) {
	svc := NewUserService(storage.NewMemoryUserRepository())
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, 1, 10)
	require.NoError(t, err)

	require.NoError(t, svc.BeginBatch(ctx, 1))
	user, _ := svc.GetOrCreate(ctx, 1, 10)
	require.Equal(t, entity.StateAwaitingBatch, user.State)

	require.NoError(t, svc.Cancel(ctx, 1))
	user, _ = svc.GetOrCreate(ctx, 1, 10)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetMode(t *testing.T) {
	svc := NewUserService(storage.NewMemoryUserRepository())
	ctx := context.Background()

	user, err := svc.GetOrCreate(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.ModeTwoStage, user.Mode)

	require.NoError(t, svc.SetMode(ctx, 1, 10, entity.ModeSimplified))
	user, err = svc.GetOrCreate(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.ModeSimplified, user.Mode)
}
