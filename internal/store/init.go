package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"storefront/internal/api"
	"storefront/internal/models"
	"storefront/internal/seed"
)

// hydration junta lo que cada fetch alcanzó a traer antes del timeout
type hydration struct {
	mu        sync.Mutex
	products  []models.Product
	orders    []models.Order
	users     []models.User
	methods   []models.PaymentMethod
	gotOrders bool
	gotUsers  bool
}

// Initialize restaura el snapshot e hidrata desde el gateway una sola vez.
// Las llamadas concurrentes esperan a la primera; nunca falla: cada colección que no se
// pudo traer cae a su valor por defecto y el store termina inicializado igual.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() { s.initialize(ctx) })
}

func (s *Store) initialize(ctx context.Context) {
	s.mu.Lock()
	s.isLoading = true
	s.mu.Unlock()

	s.restore(ctx)

	h := &hydration{}
	if s.remote != nil {
		s.hydrate(ctx, h)
	}

	pending := s.pendingEntities()

	s.mu.Lock()
	h.mu.Lock()
	// lo que el gateway todavía no recibió gana sobre lo que devolvió
	products := seed.Products()
	if len(h.products) > 0 {
		products = normalizeAll(h.products)
	}
	s.products = overlayPending(products, s.products, pending[api.CollectionProducts], productKey)
	if h.gotOrders {
		s.orders = overlayPending(h.orders, s.orders, pending[api.CollectionOrders], orderKey)
	}
	if h.gotUsers {
		s.users = overlayPending(h.users, s.users, pending[api.CollectionUsers], userKey)
	}
	switch {
	case len(h.methods) > 0:
		s.paymentMethods = overlayPending(h.methods, s.paymentMethods, pending[api.CollectionSettings], methodKey)
	case len(s.paymentMethods) == 0:
		s.paymentMethods = seed.FallbackPaymentMethods()
	}
	h.mu.Unlock()

	s.isLoading = false
	s.isInitialized = true
	counts := [4]int{len(s.products), len(s.orders), len(s.users), len(s.paymentMethods)}
	s.mu.Unlock()

	s.log.Info().
		Int("products", counts[0]).
		Int("orders", counts[1]).
		Int("users", counts[2]).
		Int("payment_methods", counts[3]).
		Msg("store initialized")
	s.persist()
}

// hydrate trae las cuatro colecciones en paralelo con un plazo total
func (s *Store) hydrate(ctx context.Context, h *hydration) {
	ctx, cancel := context.WithTimeout(ctx, s.hydrateWait)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		products, err := s.remote.FetchProducts(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("products unavailable, using defaults")
			return nil
		}
		h.mu.Lock()
		h.products = products
		h.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		orders, err := s.remote.FetchOrders(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("orders unavailable, keeping local copy")
			return nil
		}
		h.mu.Lock()
		h.orders, h.gotOrders = orEmpty(cloneOrders(orders)), true
		h.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		users, err := s.remote.FetchUsers(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("users unavailable, keeping local copy")
			return nil
		}
		h.mu.Lock()
		h.users, h.gotUsers = orEmpty(append([]models.User(nil), users...)), true
		h.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		settings, err := s.remote.FetchSettings(ctx)
		if err == nil {
			var methods []models.PaymentMethod
			if methods, err = settings.PaymentMethods(); err == nil {
				h.mu.Lock()
				h.methods = methods
				h.mu.Unlock()
				return nil
			}
		}
		s.log.Warn().Err(err).Msg("settings unavailable, keeping local payment methods")
		return nil
	})

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn().Dur("timeout", s.hydrateWait).Msg("hydration timed out, continuing with partial data")
	}
}

// pendingEntities agrupa por colección las entidades con operaciones sin entregar
func (s *Store) pendingEntities() map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	if s.queue == nil {
		return out
	}
	for _, op := range s.queue.Export() {
		if op.EntityID == "" {
			continue
		}
		if out[op.Collection] == nil {
			out[op.Collection] = make(map[string]bool)
		}
		out[op.Collection][op.EntityID] = true
	}
	return out
}

// overlayPending reemplaza en fetched las entidades pendientes por su versión local.
// Las pendientes que el gateway no conoce se agregan al final; las que ya no existen
// localmente (borrado pendiente) se quitan.
func overlayPending[T any](fetched, local []T, pending map[string]bool, id func(T) string) []T {
	if len(pending) == 0 {
		return fetched
	}
	byID := make(map[string]T, len(local))
	for _, e := range local {
		byID[id(e)] = e
	}

	out := make([]T, 0, len(fetched))
	seen := make(map[string]bool)
	for _, e := range fetched {
		k := id(e)
		if !pending[k] {
			out = append(out, e)
			continue
		}
		if l, ok := byID[k]; ok {
			out = append(out, l)
			seen[k] = true
		}
	}
	for _, e := range local {
		if k := id(e); pending[k] && !seen[k] {
			out = append(out, e)
		}
	}
	return out
}

func productKey(p models.Product) string { return p.ID }
func orderKey(o models.Order) string { return o.ID }
func userKey(u models.User) string { return u.ID }
func methodKey(m models.PaymentMethod) string { return m.ID }

func normalizeAll(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		p = p.Clone()
		p.Normalize()
		out = append(out, p)
	}
	return out
}
