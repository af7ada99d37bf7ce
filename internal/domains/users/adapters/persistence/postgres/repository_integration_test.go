//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-orders/internal/domains/users/domain"
	"github.com/Apurer/storefront-orders/internal/domains/users/ports"
	"github.com/Apurer/storefront-orders/internal/platform/postgres/pgtest"
)

func TestRepository_SaveAndGetByEmail(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	user, err := domain.NewUser(0, "alice", "Alice@Example.com")
	require.NoError(t, err)
	user.UpdateProfile("Alice", "Doe", "1234")
	user.UpdateAddress(domain.Address{Street: "1 Main St", City: "Springfield", ZipCode: "12345", Country: "US"})

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "Alice", saved.FirstName)

	fetched, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "Springfield", fetched.Address.City)
}

func TestRepository_DuplicateEmail(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	first, err := domain.NewUser(0, "alice", "alice@example.com")
	require.NoError(t, err)
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	second, err := domain.NewUser(0, "other", "alice@example.com")
	require.NoError(t, err)
	_, err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ports.ErrEmailTaken)
}

func TestRepository_ListAndDelete(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	var ids []int64
	for i := 1; i <= 3; i++ {
		user, err := domain.NewUser(0, fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i))
		require.NoError(t, err)
		saved, err := repo.Save(ctx, user)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	require.NoError(t, repo.Delete(ctx, ids[1]))
	_, err = repo.GetByID(ctx, ids[1])
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ids[1]), ports.ErrNotFound)
}
