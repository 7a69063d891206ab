// shopctl maneja el estado del cliente de la tienda desde la terminal.
//
// Cada ejecución restaura el snapshot, hidrata desde el gateway, aplica un comando y espera a
// que el outbox entregue lo pendiente. Lo que no alcance a enviarse queda en el snapshot y se
// reintenta en la siguiente ejecución.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"storefront/internal/config"
	"storefront/internal/gateway"
	"storefront/internal/logger"
	"storefront/internal/outbox"
	"storefront/internal/snapshot"
	"storefront/internal/store"
)

const flushTimeout = 10 * time.Second

var errUsage = errors.New("usage")

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	log := logger.New(cfg.LogLevel, false).Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("start client")
	}

	err = a.run(ctx, flag.Arg(0), flag.Args()[1:])
	a.flush(ctx)
	a.close()
	switch {
	case errors.Is(err, errUsage):
		usage()
		os.Exit(2)
	case err != nil:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	store  *store.Store
	queue  *outbox.Queue
	redis  *redis.Client
	cancel context.CancelFunc
	done   chan struct{}
	log    zerolog.Logger
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	client := gateway.New(cfg.GatewayURL, gateway.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}))
	queue := outbox.New(client, outbox.DefaultOptions(), log)

	a := &app{queue: queue, log: log, done: make(chan struct{})}

	var snapshots snapshot.Store
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			_ = a.redis.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		snapshots = snapshot.NewRedisStore(a.redis, "shopctl")
	} else {
		snapshots = snapshot.NewFileStore(cfg.SnapshotPath)
	}

	a.store = store.New(client, queue,
		store.WithSnapshotStore(snapshots),
		store.WithLogger(log),
		store.WithActivityLimit(cfg.ActivityLimit),
		store.WithHydrationTimeout(cfg.HydrateTimeout),
	)
	client.UseTokenSource(a.store.AdminToken)

	// restaura primero: las operaciones pendientes del snapshot entran a la cola antes de arrancarla
	a.store.Initialize(ctx)

	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go func() {
		defer close(a.done)
		queue.Run(runCtx)
	}()
	return a, nil
}

// flush espera las entregas pendientes sin pasar de flushTimeout
func (a *app) flush(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := a.queue.Flush(ctx); err != nil {
		a.log.Warn().Int("pending", a.queue.Pending()).Msg("changes not yet synced, they will be retried on the next run")
	}
}

func (a *app) close() {
	a.cancel()
	<-a.done
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "products":
		return a.products(args)
	case "product":
		return a.product(args)
	case "deals":
		return a.deals()
	case "featured":
		printProducts(a.store.FeaturedProducts())
		return nil
	case "brands":
		return a.brands()
	case "cart":
		return a.cart(args)
	case "quote":
		return a.quote(args)
	case "checkout":
		return a.checkout(args)
	case "register":
		return a.register(args)
	case "login":
		return a.login(args)
	case "logout":
		a.store.LogoutUser()
		fmt.Println("Logged out")
		return nil
	case "whoami":
		return a.whoami()
	case "orders":
		return a.orders()
	case "review":
		return a.review(args)
	case "activity":
		return a.activity(args)
	case "methods":
		return a.methods()
	case "status":
		if len(args) != 1 {
			return errUsage
		}
		fmt.Println(orDash(string(a.store.SyncStatus(args[0]))))
		return nil
	case "admin":
		return a.admin(ctx, args)
	default:
		return errUsage
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: shopctl <command> [flags] [args]

catalog:
  products [-q text] [-category c] [-brand b] [-price 0-100|1000+] [-sort featured|price-low|price-high|rating|newest]
  product <id>
  featured | deals | brands

cart & checkout:
  cart [list | add <id> [qty] | set <id> <qty> | remove <id> | clear]
  quote [-promo CODE]
  checkout -method <id> -proof <file> [-promo CODE] -first .. -last .. -email .. -phone .. -address .. -city .. -state .. -zip ..

account:
  register -email e -password p [-first f] [-last l]
  login -email e -password p
  logout | whoami | orders | methods
  review <productId> <rating 1-5> <comment>
  activity [userId]
  status <entityId>

admin:
  admin login -user u -password p | logout | stats | order-status <id> <status> | sync
`)
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return n, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
