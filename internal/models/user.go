package models

import (
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	FirstName string    `json:"firstName" bson:"first_name"`
	LastName  string    `json:"lastName" bson:"last_name"`
	Password  string    `json:"password" bson:"password"`
	JoinDate  time.Time `json:"joinDate" bson:"join_date"`
	LastLogin time.Time `json:"lastLogin" bson:"last_login"`
	IsActive  bool      `json:"isActive" bson:"is_active"`
	CreatedAt time.Time `json:"-" bson:"created_at"`
}

// NormalizeEmail es la forma usada para comparar emails
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ActivityAction es un tag abierto; estos son los que emite el sistema
type ActivityAction string

const (
	ActionLogin           ActivityAction = "login"
	ActionLogout          ActivityAction = "logout"
	ActionRegister        ActivityAction = "register"
	ActionAddToCart       ActivityAction = "add_to_cart"
	ActionCheckoutStarted ActivityAction = "checkout_started"
	ActionOrderPlaced     ActivityAction = "order_placed"
	ActionViewCart        ActivityAction = "view_cart"
	ActionPageVisit       ActivityAction = "page_visit"
)

// UserActivity es una entrada del registro de auditoría (solo append)
type UserActivity struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Action    ActivityAction `json:"action"`
	ProductID string         `json:"productId,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Details   string         `json:"details,omitempty"`
}

type NewActivity struct {
	UserID    string
	Action    ActivityAction
	ProductID string
	Details   string
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Date      time.Time `json:"date"`
	Verified  bool      `json:"verified"`
	Helpful   int       `json:"helpful"`
}

type NewReview struct {
	ProductID string
	User      string
	Rating    int
	Comment   string
}
