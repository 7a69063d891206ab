package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
	"storefront/internal/seed"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrDuplicateID aparece cuando el outbox reenvía un add ya aplicado
	ErrDuplicateID = errors.New("duplicate id")
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{
		collection: collection,
	}
}

// List devuelve el catálogo, más nuevos primero; si está vacío siembra los productos por defecto
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products, err := r.find(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return products, nil
	}

	if err := r.Seed(ctx); err != nil {
		return nil, err
	}
	return r.find(ctx)
}

func (r *ProductRepository) find(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"is_deleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Seed inserta el catálogo por defecto
func (r *ProductRepository) Seed(ctx context.Context) error {
	_, err := r.ReplaceAll(ctx, seed.Products())
	return err
}

// FindByID obtiene un producto por ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var product models.Product
	filter := bson.M{
		"_id":        id,
		"is_deleted": false,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// Create crea un nuevo producto; respeta el ID generado por el cliente
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.IsDeleted = false
	product.Normalize()

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// Replace guarda el producto completo
func (r *ProductRepository) Replace(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	product.UpdatedAt = time.Now()
	product.Normalize()

	filter := bson.M{
		"_id":        product.ID,
		"is_deleted": false,
	}
	result, err := r.collection.ReplaceOne(ctx, filter, product)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marca un producto como eliminado
func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":        id,
		"is_deleted": false,
	}

	update := bson.M{
		"$set": bson.M{
			"is_deleted": true,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// ReplaceAll reemplaza la colección completa (bulk_update)
func (r *ProductRepository) ReplaceAll(ctx context.Context, products []models.Product) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("clear products: %w", err)
	}
	if len(products) == 0 {
		return []models.Product{}, nil
	}

	// created_at decreciente para conservar el orden recibido en List
	base := time.Now()
	docs := make([]interface{}, 0, len(products))
	saved := make([]models.Product, 0, len(products))
	for i, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = base.Add(-time.Duration(i) * time.Millisecond)
		p.UpdatedAt = base
		p.IsDeleted = false
		p.Normalize()
		docs = append(docs, p)
		saved = append(saved, p)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert products: %w", err)
	}
	return saved, nil
}
