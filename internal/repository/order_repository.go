package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(collection *mongo.Collection) *OrderRepository {
	return &OrderRepository{collection: collection}
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// Create guarda el pedido tal como llega; el estado por defecto es pending
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if order.ID == "" {
		return fmt.Errorf("order id is required")
	}
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	now := time.Now()
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	order.CreatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// UpdateStatus cambia el estado y devuelve el pedido actualizado
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ReplaceAll(ctx context.Context, orders []models.Order) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("clear orders: %w", err)
	}
	if len(orders) == 0 {
		return []models.Order{}, nil
	}

	base := time.Now()
	docs := make([]interface{}, 0, len(orders))
	saved := make([]models.Order, 0, len(orders))
	for i, o := range orders {
		if o.Status == "" {
			o.Status = models.OrderPending
		}
		if o.OrderDate.IsZero() {
			o.OrderDate = base
		}
		o.CreatedAt = base.Add(-time.Duration(i) * time.Millisecond)
		docs = append(docs, o)
		saved = append(saved, o)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert orders: %w", err)
	}
	return saved, nil
}
