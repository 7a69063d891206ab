package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
	"storefront/internal/seed"
)

// settingRow es una fila clave/valor; el valor es JSON serializado
type settingRow struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(collection *mongo.Collection) *SettingsRepository {
	return &SettingsRepository{collection: collection}
}

// Get arma el objeto de settings; si no hay filas siembra la configuración por defecto
func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	settings, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		return settings, nil
	}
	return r.Save(ctx, seed.Settings())
}

func (r *SettingsRepository) load(ctx context.Context) (models.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find settings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []settingRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	settings := models.Settings{}
	for _, row := range rows {
		if json.Valid([]byte(row.Value)) {
			settings[row.Key] = json.RawMessage(row.Value)
			continue
		}
		// valores guardados como texto plano
		quoted, _ := json.Marshal(row.Value)
		settings[row.Key] = quoted
	}
	return settings, nil
}

// Save reemplaza todas las filas por el objeto recibido
func (r *SettingsRepository) Save(ctx context.Context, settings models.Settings) (models.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("clear settings: %w", err)
	}
	if len(settings) == 0 {
		return models.Settings{}, nil
	}

	docs := make([]interface{}, 0, len(settings))
	for key, value := range settings {
		docs = append(docs, settingRow{Key: key, Value: string(value)})
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert settings: %w", err)
	}
	return settings, nil
}
