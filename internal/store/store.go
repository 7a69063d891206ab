// Package store es el estado del cliente: catálogo, carrito, pedidos, usuarios y sesión.
//
// Toda mutación ocurre en dos fases. Primero se confirma en memoria bajo el mutex y se
// persiste el snapshot; después se encola el cambio en el outbox, que lo entrega al gateway
// en segundo plano. Una falla de sincronización nunca revierte el cambio local ni llega al
// llamador.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/outbox"
	"storefront/internal/snapshot"
)

const (
	DefaultActivityLimit    = 1000
	DefaultHydrationTimeout = 5 * time.Second
	snapshotSaveTimeout     = 2 * time.Second
)

// ErrNotFound se devuelve cuando la entidad no existe localmente
var ErrNotFound = errors.New("not found")

// Remote es la parte de lectura del gateway que usa el store
type Remote interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
	FetchOrders(ctx context.Context) ([]models.Order, error)
	FetchUsers(ctx context.Context) ([]models.User, error)
	FetchSettings(ctx context.Context) (models.Settings, error)
	AdminSession(ctx context.Context, username, password string) (string, error)
}

// SyncQueue recibe los cambios confirmados localmente
type SyncQueue interface {
	Enqueue(collection, entityID string, payload any) error
	Status(entityID string) outbox.Status
	Export() []outbox.Op
	Import(ops []outbox.Op)
}

type notifier interface {
	OnChange(fn func())
}

// statusKeeper es una cola que además guarda el estado por entidad entre sesiones
type statusKeeper interface {
	Statuses() map[string]outbox.Status
	RestoreStatuses(statuses map[string]outbox.Status)
}

type Store struct {
	mu sync.RWMutex

	products       []models.Product
	cart           []models.CartItem
	orders         []models.Order
	reviews        []models.Review
	users          []models.User
	activities     []models.UserActivity
	currentUser    *models.User
	paymentMethods []models.PaymentMethod
	searchQuery    string
	isAdmin        bool
	adminToken     string
	isLoading      bool
	isInitialized  bool

	initOnce  sync.Once
	persistMu sync.Mutex

	remote   Remote
	queue    SyncQueue
	notifies bool

	snapshots     snapshot.Store
	now           func() time.Time
	newID         func() string
	hasher        auth.PasswordHasher
	activityLimit int
	hydrateWait   time.Duration
	log           zerolog.Logger
}

type Option func(*Store)

func WithSnapshotStore(ss snapshot.Store) Option {
	return func(s *Store) { s.snapshots = ss }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithActivityLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.activityLimit = n
		}
	}
}

func WithHydrationTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.hydrateWait = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithPasswordHasher(h auth.PasswordHasher) Option {
	return func(s *Store) { s.hasher = h }
}

// New crea el store; remote y queue pueden ser nil para operar solo en memoria
func New(remote Remote, queue SyncQueue, opts ...Option) *Store {
	s := &Store{
		remote:         remote,
		queue:          queue,
		now:            time.Now,
		newID:          uuid.NewString,
		hasher:         auth.NewBcryptHasher(bcrypt.DefaultCost),
		activityLimit:  DefaultActivityLimit,
		hydrateWait:    DefaultHydrationTimeout,
		log:            zerolog.Nop(),
		products:       []models.Product{},
		cart:           []models.CartItem{},
		orders:         []models.Order{},
		reviews:        []models.Review{},
		users:          []models.User{},
		activities:     []models.UserActivity{},
		paymentMethods: []models.PaymentMethod{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "store").Logger()

	// el outbox avisa cada cambio; así el snapshot refleja también las entregas
	if n, ok := queue.(notifier); ok {
		n.OnChange(s.persist)
		s.notifies = true
	}
	return s
}

// sync encola la fase remota de una mutación ya confirmada
func (s *Store) sync(collection, entityID string, payload any) {
	if s.queue == nil {
		s.persist()
		return
	}
	if err := s.queue.Enqueue(collection, entityID, payload); err != nil {
		s.log.Warn().Err(err).Str("collection", collection).Str("entity_id", entityID).Msg("enqueue sync failed")
		s.persist()
		return
	}
	if !s.notifies {
		s.persist()
	}
}

// SyncStatus expone el estado de sincronización de una entidad
func (s *Store) SyncStatus(entityID string) outbox.Status {
	if s.queue == nil {
		return outbox.StatusUnknown
	}
	return s.queue.Status(entityID)
}

// persist guarda el snapshot; las fallas solo se registran
func (s *Store) persist() {
	if s.snapshots == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	state := s.durableState()
	data, err := snapshot.Encode(state)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode snapshot")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotSaveTimeout)
	defer cancel()
	if err := s.snapshots.Save(ctx, data); err != nil {
		s.log.Warn().Err(err).Msg("save snapshot")
	}
}

func (s *Store) durableState() snapshot.State {
	s.mu.RLock()
	state := snapshot.State{
		CurrentUser:    cloneUser(s.currentUser),
		Cart:           append([]models.CartItem(nil), s.cart...),
		Users:          append([]models.User(nil), s.users...),
		Products:       cloneProducts(s.products),
		Orders:         cloneOrders(s.orders),
		PaymentMethods: append([]models.PaymentMethod(nil), s.paymentMethods...),
		Reviews:        append([]models.Review(nil), s.reviews...),
		Activities:     append([]models.UserActivity(nil), s.activities...),
	}
	s.mu.RUnlock()

	if s.queue != nil {
		state.Pending = s.queue.Export()
	}
	if k, ok := s.queue.(statusKeeper); ok {
		state.Statuses = k.Statuses()
	}
	return state
}

// restore aplica el snapshot guardado, si existe y es de esta versión
func (s *Store) restore(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	data, err := s.snapshots.Load(ctx)
	if errors.Is(err, snapshot.ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("load snapshot")
		return
	}
	state, err := snapshot.Decode(data)
	if err != nil {
		s.log.Warn().Err(err).Msg("ignoring snapshot")
		return
	}

	s.mu.Lock()
	s.currentUser = cloneUser(state.CurrentUser)
	s.cart = orEmpty(state.Cart)
	s.users = orEmpty(state.Users)
	s.products = orEmpty(state.Products)
	s.orders = orEmpty(state.Orders)
	s.paymentMethods = orEmpty(state.PaymentMethods)
	s.reviews = orEmpty(state.Reviews)
	s.activities = orEmpty(state.Activities)
	s.trimActivitiesLocked()
	s.mu.Unlock()

	if s.queue != nil {
		s.queue.Import(state.Pending)
	}
	if k, ok := s.queue.(statusKeeper); ok {
		k.RestoreStatuses(state.Statuses)
	}
	s.log.Debug().Int("pending", len(state.Pending)).Msg("snapshot restored")
}

func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isInitialized
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	s.searchQuery = q
	s.mu.Unlock()
}

func (s *Store) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

// SetIsAdmin cambia solo la bandera; AdminLogin es quien obtiene el token
func (s *Store) SetIsAdmin(v bool) {
	s.mu.Lock()
	s.isAdmin = v
	if !v {
		s.adminToken = ""
	}
	s.mu.Unlock()
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdmin
}

// AdminToken es la fuente del bearer token para el cliente del gateway
func (s *Store) AdminToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminToken
}

// AdminLogin valida las credenciales en el gateway y guarda el token de sesión
func (s *Store) AdminLogin(ctx context.Context, username, password string) error {
	if s.remote == nil {
		return errors.New("admin login requires a gateway")
	}
	token, err := s.remote.AdminSession(ctx, username, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.isAdmin = true
	s.adminToken = token
	s.mu.Unlock()
	return nil
}

func (s *Store) AdminLogout() {
	s.SetIsAdmin(false)
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneOrders(in []models.Order) []models.Order {
	out := make([]models.Order, len(in))
	for i, o := range in {
		out[i] = o.Clone()
	}
	return out
}
