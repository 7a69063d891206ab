package store

import "storefront/internal/models"

// AddActivity agrega una entrada al registro; se descartan las más viejas al pasar el límite
func (s *Store) AddActivity(in models.NewActivity) models.UserActivity {
	s.mu.Lock()
	a := s.appendActivityLocked(in)
	s.mu.Unlock()
	s.persist()
	return a
}

// appendActivityLocked requiere s.mu en escritura
func (s *Store) appendActivityLocked(in models.NewActivity) models.UserActivity {
	a := models.UserActivity{
		ID:        s.newID(),
		UserID:    in.UserID,
		Action:    in.Action,
		ProductID: in.ProductID,
		Timestamp: s.now(),
		Details:   in.Details,
	}
	s.activities = append(s.activities, a)
	s.trimActivitiesLocked()
	return a
}

func (s *Store) trimActivitiesLocked() {
	if over := len(s.activities) - s.activityLimit; over > 0 {
		s.activities = append([]models.UserActivity(nil), s.activities[over:]...)
	}
}

// Activities devuelve las entradas de userID (todas si es vacío), más recientes primero
func (s *Store) Activities(userID string) []models.UserActivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.UserActivity{}
	for i := len(s.activities) - 1; i >= 0; i-- {
		if userID == "" || s.activities[i].UserID == userID {
			out = append(out, s.activities[i])
		}
	}
	return out
}
