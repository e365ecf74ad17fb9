package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/db/dbtest"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
	"github.com/simkemas/simkemas-backend/pkg/redis"
)

func newInventory(t *testing.T) (*db.Client, Service, *Ledger) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ledger, err := NewLedger(repo, nil)
	require.NoError(t, err)
	svc, err := NewService(repo, ledger, client, redis.NoopLocker{})
	require.NoError(t, err)
	return client, svc, ledger
}

func seedItem(t *testing.T, client *db.Client, name string, stock int) *models.MaterialItem {
	t.Helper()
	material := &models.Material{Name: "Kertas"}
	require.NoError(t, client.DB().Create(material).Error)
	item := &models.MaterialItem{MaterialID: material.ID, Name: name, Unit: "lembar", Stock: stock}
	require.NoError(t, client.DB().Create(item).Error)
	return item
}

func stockOf(t *testing.T, client *db.Client, id uuid.UUID) int {
	t.Helper()
	var item models.MaterialItem
	require.NoError(t, client.DB().First(&item, "id = ?", id).Error)
	return item.Stock
}

func TestNextStock(t *testing.T) {
	assert.Equal(t, 15, NextStock(10, enums.InventoryLogTypeIn, 5))
	assert.Equal(t, 5, NextStock(10, enums.InventoryLogTypeOut, 5))
	assert.Equal(t, -3, NextStock(2, enums.InventoryLogTypeOut, 5))
	assert.Equal(t, 42, NextStock(50, enums.InventoryLogTypeOpname, 42))
}

func TestUpdateOpnameStoresSignedDelta(t *testing.T) {
	client, svc, _ := newInventory(t)
	item := seedItem(t, client, "Art Paper 150", 50)

	res, err := svc.Update(context.Background(), UpdateInput{
		ItemID:   item.ID,
		Type:     enums.InventoryLogTypeOpname,
		Quantity: 42,
		Note:     "Stock opname bulanan",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, res.PreviousStock)
	assert.Equal(t, 42, res.CurrentStock)
	assert.Equal(t, -8, res.Delta)
	assert.Equal(t, 42, stockOf(t, client, item.ID))

	var entry models.InventoryLog
	require.NoError(t, client.DB().First(&entry, "id = ?", res.LogID).Error)
	assert.Equal(t, -8, entry.Quantity)
	assert.Equal(t, -8, entry.Delta())
}

func TestUpdateOutMayGoNegative(t *testing.T) {
	client, svc, _ := newInventory(t)
	item := seedItem(t, client, "Tinta Cyan", 3)

	res, err := svc.Update(context.Background(), UpdateInput{ItemID: item.ID, Type: enums.InventoryLogTypeOut, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, -2, res.CurrentStock)
	assert.Equal(t, 5, res.Quantity)
	assert.Equal(t, -5, res.Delta)

	var entry models.InventoryLog
	require.NoError(t, client.DB().First(&entry, "id = ?", res.LogID).Error)
	assert.Equal(t, 5, entry.Quantity, "out rows keep the entered quantity")
	assert.Equal(t, -5, entry.Delta())
}

func TestStockMatchesLatestLogAfterSequence(t *testing.T) {
	client, svc, _ := newInventory(t)
	item := seedItem(t, client, "Stiker Vinyl", 10)
	ctx := context.Background()

	steps := []UpdateInput{
		{ItemID: item.ID, Type: enums.InventoryLogTypeIn, Quantity: 20},
		{ItemID: item.ID, Type: enums.InventoryLogTypeOut, Quantity: 7},
		{ItemID: item.ID, Type: enums.InventoryLogTypeOpname, Quantity: 25},
		{ItemID: item.ID, Type: enums.InventoryLogTypeOut, Quantity: 1},
	}
	for _, step := range steps {
		_, err := svc.Update(ctx, step)
		require.NoError(t, err)
	}

	var logs []models.InventoryLog
	require.NoError(t, client.DB().Where("item_id = ?", item.ID).Order("created_at ASC").Find(&logs).Error)
	require.Len(t, logs, 4)

	sum := 0
	for i, l := range logs {
		sum += l.Delta()
		if i > 0 {
			assert.Equal(t, logs[i-1].CurrentStock, l.PreviousStock)
		}
	}
	assert.Equal(t, 24, stockOf(t, client, item.ID))
	assert.Equal(t, 24, logs[len(logs)-1].CurrentStock)
	assert.Equal(t, 24-10, sum)
}

func TestApplyUnknownItemIsNotFound(t *testing.T) {
	client, _, ledger := newInventory(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		_, err := ledger.Apply(context.Background(), tx, Mutation{ItemID: uuid.New(), Type: enums.InventoryLogTypeIn, Quantity: 1})
		return err
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestApplyValidatesInput(t *testing.T) {
	client, _, ledger := newInventory(t)
	item := seedItem(t, client, "Art Carton", 5)
	ctx := context.Background()

	_, err := ledger.Apply(ctx, client.DB(), Mutation{ItemID: item.ID, Type: "adjust", Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ledger.Apply(ctx, client.DB(), Mutation{ItemID: item.ID, Type: enums.InventoryLogTypeIn, Quantity: -1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, 5, stockOf(t, client, item.ID))
}

func TestApplyRollsBackWithCaller(t *testing.T) {
	client, _, ledger := newInventory(t)
	item := seedItem(t, client, "Pouch Standing", 100)
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := ledger.Apply(ctx, tx, Mutation{ItemID: item.ID, Type: enums.InventoryLogTypeOut, Quantity: 30}); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "second item missing")
	})
	require.Error(t, err)
	assert.Equal(t, 100, stockOf(t, client, item.ID))

	var count int64
	require.NoError(t, client.DB().Model(&models.InventoryLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSwapStockDetectsConcurrentChange(t *testing.T) {
	client, _, _ := newInventory(t)
	item := seedItem(t, client, "Label Chromo", 9)
	repo := NewRepository(client.DB())

	err := repo.SwapStock(context.Background(), item.ID, 8, 1)
	assert.ErrorIs(t, err, ErrStockChanged)
	assert.Equal(t, 9, stockOf(t, client, item.ID))
}

func TestStocksAndLogsJoinNames(t *testing.T) {
	client, svc, _ := newInventory(t)
	item := seedItem(t, client, "HVS 80", 12)
	ctx := context.Background()

	_, err := svc.Update(ctx, UpdateInput{ItemID: item.ID, Type: enums.InventoryLogTypeIn, Quantity: 3})
	require.NoError(t, err)

	stocks, err := svc.Stocks(ctx)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "HVS 80", stocks[0].ItemName)
	assert.Equal(t, "Kertas", stocks[0].MaterialName)
	assert.Equal(t, 15, stocks[0].Stock)

	logs, err := svc.Logs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "HVS 80", logs[0].ItemName)
	assert.Equal(t, 3, logs[0].Quantity)
	assert.Equal(t, 3, logs[0].Delta)
	assert.Nil(t, logs[0].UserName)
}
