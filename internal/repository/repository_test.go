package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"storefront/internal/models"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "1"},
			{Key: "name", Value: "PlayStation 5"},
			{Key: "price", Value: 499.99},
			{Key: "original_price", Value: 599.99},
			{Key: "stock_count", Value: int32(25)},
			{Key: "is_deleted", Value: false},
		}))

		p, err := repo.FindByID(context.Background(), "1")
		require.NoError(mt, err)
		assert.Equal(mt, "PlayStation 5", p.Name)
		assert.Equal(mt, 25, p.StockCount)
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), "missing")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("create normalizes derived fields", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &models.Product{Name: "Mouse", Price: 50, OriginalPrice: 100, StockCount: 2, Discount: 99}
		require.NoError(mt, repo.Create(context.Background(), p))
		assert.NotEmpty(mt, p.ID)
		assert.Equal(mt, 50, p.Discount)
		assert.True(mt, p.InStock)
		assert.False(mt, p.CreatedAt.IsZero())
	})

	mt.Run("soft delete unknown id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.SoftDelete(context.Background(), "missing")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create lowercases email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &models.User{Email: "Ana@Shop.Test", FirstName: "Ana"}
		require.NoError(mt, repo.Create(context.Background(), u))
		assert.Equal(mt, "ana@shop.test", u.Email)
		assert.Contains(mt, u.ID, "USR-")
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		err := repo.Create(context.Background(), &models.User{Email: "ana@shop.test"})
		assert.ErrorIs(mt, err, ErrDuplicateEmail)
	})

	mt.Run("touch last login", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll)
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "USR-1"},
			{Key: "email", Value: "ana@shop.test"},
			{Key: "last_login", Value: at},
		}}))

		u, err := repo.TouchLastLogin(context.Background(), "USR-1", at)
		require.NoError(mt, err)
		assert.Equal(mt, "USR-1", u.ID)
		assert.True(mt, u.LastLogin.Equal(at))
	})
}

func TestOrderRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create defaults to pending", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		o := &models.Order{ID: "ORD-1", Total: 10}
		require.NoError(mt, repo.Create(context.Background(), o))
		assert.Equal(mt, models.OrderPending, o.Status)
		assert.False(mt, o.OrderDate.IsZero())
	})

	mt.Run("create requires id", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.Coll)
		assert.Error(mt, repo.Create(context.Background(), &models.Order{}))
	})

	mt.Run("update status", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "ORD-1"},
			{Key: "status", Value: "approved"},
		}}))

		o, err := repo.UpdateStatus(context.Background(), "ORD-1", models.OrderApproved)
		require.NoError(mt, err)
		assert.Equal(mt, models.OrderApproved, o.Status)
	})

	mt.Run("update status unknown order", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateStatus(context.Background(), "ORD-404", models.OrderApproved)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestSettingsRepositoryLoad(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes json and plain values", func(mt *mtest.T) {
		repo := NewSettingsRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "paymentMethods"}, {Key: "value", Value: `[{"id":"1","name":"PayPal","type":"paypal","status":"active"}]`}},
			bson.D{{Key: "_id", Value: "storeName"}, {Key: "value", Value: "Thorp Christopher"}},
		))

		settings, err := repo.Get(context.Background())
		require.NoError(mt, err)
		methods, err := settings.PaymentMethods()
		require.NoError(mt, err)
		require.Len(mt, methods, 1)
		assert.Equal(mt, "PayPal", methods[0].Name)
		assert.JSONEq(mt, `"Thorp Christopher"`, string(settings["storeName"]))
	})
}
