package store

import (
	"fmt"
	"strings"

	"storefront/internal/api"
	"storefront/internal/auth"
	"storefront/internal/models"
)

const (
	msgEmailTaken    = "An account with this email already exists. Please use a different email or try logging in."
	msgShortPassword = "Password must be at least 6 characters long."
	msgRegistered    = "Account created successfully! Welcome to Thorp Christopher."
	msgNoAccount     = "No account found with this email address. Please sign up first."
	msgWrongPassword = "Incorrect password. Please try again."
	msgDeactivated   = "Your account has been deactivated. Please contact support."
	msgHashFailed    = "We could not create your account. Please try again."
)

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult es el resultado que se muestra en línea; los rechazos no son errores
type AuthResult struct {
	Success bool
	Message string
	User    *models.User
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User{}, s.users...)
}

func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.currentUser)
}

// userIndex requiere s.mu; compara emails normalizados
func (s *Store) userIndex(email string) int {
	email = models.NormalizeEmail(email)
	for i := range s.users {
		if models.NormalizeEmail(s.users[i].Email) == email {
			return i
		}
	}
	return -1
}

func (s *Store) CheckEmailExists(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userIndex(email) >= 0
}

func (s *Store) RegisterUser(req RegisterRequest) AuthResult {
	if s.CheckEmailExists(req.Email) {
		return AuthResult{Message: msgEmailTaken}
	}
	if len(req.Password) < auth.MinPasswordLength {
		return AuthResult{Message: msgShortPassword}
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("hash password")
		return AuthResult{Message: msgHashFailed}
	}

	now := s.now()
	u := models.User{
		ID:        "USR-" + s.newID(),
		Email:     models.NormalizeEmail(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password:  hash,
		JoinDate:  now,
		LastLogin: now,
		IsActive:  true,
		CreatedAt: now,
	}

	s.mu.Lock()
	// el hash se calcula fuera del lock; otro registro pudo ganar la carrera
	if s.userIndex(u.Email) >= 0 {
		s.mu.Unlock()
		return AuthResult{Message: msgEmailTaken}
	}
	s.users = append(s.users, u)
	s.currentUser = cloneUser(&u)
	s.appendActivityLocked(models.NewActivity{UserID: u.ID, Action: models.ActionRegister, Details: "Account created"})
	s.mu.Unlock()

	payload := u
	s.sync(api.CollectionUsers, u.ID, api.UserRequest{Action: api.ActionRegister, User: &payload})
	return AuthResult{Success: true, Message: msgRegistered, User: cloneUser(&u)}
}

// LoginUser busca solo en la colección local; no consulta al gateway
func (s *Store) LoginUser(email, password string) AuthResult {
	s.mu.RLock()
	i := s.userIndex(email)
	var u models.User
	if i >= 0 {
		u = s.users[i]
	}
	s.mu.RUnlock()

	switch {
	case i < 0:
		return AuthResult{Message: msgNoAccount}
	case !s.hasher.Verify(password, u.Password):
		return AuthResult{Message: msgWrongPassword}
	case !u.IsActive:
		return AuthResult{Message: msgDeactivated}
	}

	now := s.now()
	s.mu.Lock()
	if i = s.userIndex(u.Email); i >= 0 {
		s.users[i].LastLogin = now
		u = s.users[i]
	}
	u.LastLogin = now
	s.currentUser = cloneUser(&u)
	s.appendActivityLocked(models.NewActivity{UserID: u.ID, Action: models.ActionLogin, Details: "User logged in"})
	s.mu.Unlock()

	s.sync(api.CollectionUsers, u.ID, api.UserRequest{Action: api.ActionLogin, UserID: u.ID, Email: u.Email})
	return AuthResult{
		Success: true,
		Message: fmt.Sprintf("Welcome back, %s!", u.FirstName),
		User:    cloneUser(&u),
	}
}

// LogoutUser es solo local: no hay llamada al gateway
func (s *Store) LogoutUser() {
	s.mu.Lock()
	if s.currentUser != nil {
		s.appendActivityLocked(models.NewActivity{UserID: s.currentUser.ID, Action: models.ActionLogout, Details: "User logged out"})
	}
	s.currentUser = nil
	s.mu.Unlock()
	s.persist()
}

// UpdateUserLastLogin marca el último acceso sin cambiar la sesión actual
func (s *Store) UpdateUserLastLogin(userID string) error {
	now := s.now()
	s.mu.Lock()
	var email string
	found := false
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].LastLogin = now
			email = s.users[i].Email
			found = true
			break
		}
	}
	if found && s.currentUser != nil && s.currentUser.ID == userID {
		s.currentUser.LastLogin = now
	}
	s.mu.Unlock()
	if !found {
		return ErrNotFound
	}

	s.sync(api.CollectionUsers, userID, api.UserRequest{Action: api.ActionLogin, UserID: userID, Email: email})
	return nil
}
