package store

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

func (s *Store) AddReview(in models.NewReview) (models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return models.Review{}, ErrInvalidRating
	}
	r := models.Review{
		ID:        s.newID(),
		ProductID: in.ProductID,
		User:      in.User,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Date:      s.now(),
		Verified:  true,
	}
	s.mu.Lock()
	s.reviews = append(s.reviews, r)
	s.mu.Unlock()
	s.persist()
	return r, nil
}

// Reviews devuelve las reseñas del producto, más recientes primero
func (s *Store) Reviews(productID string) []models.Review {
	s.mu.RLock()
	out := []models.Review{}
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// AverageRating promedia las reseñas locales redondeando a un decimal; 0 si no hay
func (s *Store) AverageRating(productID string) float64 {
	reviews := s.Reviews(productID)
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg, _ := decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(len(reviews)))).
		Round(1).
		Float64()
	return avg
}
