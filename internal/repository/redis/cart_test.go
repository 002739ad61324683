package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"

	"github.com/nguyenhoangkha03/salesdesk/internal/domain"
)

func setupTestRedis(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCartRepository(client, time.Hour), mr
}

func sampleCart() *domain.Cart {
	c := domain.NewCart("op-1")
	c.AddLine(domain.CartLine{ProductID: 11, ProductName: "Steel pipe", SKU: "SP-11", UnitPrice: 45000, TaxRate: 8}, 3)
	c.AddLine(domain.CartLine{ProductID: 12, UnitPrice: 120000, DiscountPercent: 5, TaxRate: 10}, 1)
	c.SetShippingFee(30000)
	return c
}

func TestCartRepository_SaveAndGet(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	require.NoError(t, repo.Save(context.Background(), cart))

	got, err := repo.Get(context.Background(), "op-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Lines, got.Lines)
	assert.Equal(t, int64(30000), got.ShippingFee)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	_, err := repo.Get(context.Background(), "nobody")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartRepository_Get_CorruptPayload(t *testing.T) {
	repo, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("cart:op-1", "{not json"))

	_, err := repo.Get(context.Background(), "op-1")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartRepository_Save_SetsTTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, repo.Save(context.Background(), sampleCart()))

	ttl := mr.TTL("cart:op-1")
	assert.Equal(t, time.Hour, ttl)
}

func TestCartRepository_Save_RefreshesTTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	require.NoError(t, repo.Save(context.Background(), cart))
	mr.FastForward(30 * time.Minute)
	require.NoError(t, repo.Save(context.Background(), cart))

	assert.Equal(t, time.Hour, mr.TTL("cart:op-1"))
}

func TestCartRepository_TTLExpiry(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, repo.Save(context.Background(), sampleCart()))
	mr.FastForward(2 * time.Hour)

	_, err := repo.Get(context.Background(), "op-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartRepository_Delete(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, repo.Save(context.Background(), sampleCart()))
	require.NoError(t, repo.Delete(context.Background(), "op-1"))

	assert.False(t, mr.Exists("cart:op-1"))

	// Deleting again is not an error.
	assert.NoError(t, repo.Delete(context.Background(), "op-1"))
}

func TestCartRepository_Save_Overwrites(t *testing.T) {
	repo, _ := setupTestRedis(t)

	first := sampleCart()
	require.NoError(t, repo.Save(context.Background(), first))

	second := domain.NewCart("op-1")
	second.AddLine(domain.CartLine{ProductID: 99, UnitPrice: 100}, 1)
	require.NoError(t, repo.Save(context.Background(), second))

	got, err := repo.Get(context.Background(), "op-1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(99), got.Lines[0].ProductID)
}

func TestCartRepository_StoredShapeIsJSON(t *testing.T) {
	repo, mr := setupTestRedis(t)
	require.NoError(t, repo.Save(context.Background(), sampleCart()))

	raw, err := mr.Get("cart:op-1")
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	assert.Equal(t, "op-1", m["user_id"])
}
