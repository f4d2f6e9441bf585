package main

import (
	"context"
	"fmt"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tasktracker/api/handler"
	"github.com/fastygo/tasktracker/internal/config"
	"github.com/fastygo/tasktracker/internal/infrastructure/buffer"
	mongoInfra "github.com/fastygo/tasktracker/internal/infrastructure/mongo"
	"github.com/fastygo/tasktracker/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/tasktracker/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/tasktracker/internal/infrastructure/redis"
	"github.com/fastygo/tasktracker/internal/middleware"
	"github.com/fastygo/tasktracker/internal/router"
	"github.com/fastygo/tasktracker/internal/security"
	"github.com/fastygo/tasktracker/internal/services"
	"github.com/fastygo/tasktracker/internal/services/lifecycle"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	"github.com/fastygo/tasktracker/repository"
	"github.com/fastygo/tasktracker/repository/memory"
	mongoRepo "github.com/fastygo/tasktracker/repository/mongo"
	"github.com/fastygo/tasktracker/repository/postgres"
	redisRepo "github.com/fastygo/tasktracker/repository/redis"
	"github.com/fastygo/tasktracker/usecase"
	authUC "github.com/fastygo/tasktracker/usecase/auth"
	profileUC "github.com/fastygo/tasktracker/usecase/profile"
	taskUC "github.com/fastygo/tasktracker/usecase/task"
)

type application struct {
	manager *lifecycle.Manager
	handler fasthttp.RequestHandler
}

type store struct {
	users repository.UserRepository
	tasks repository.TaskRepository
	conn  usecase.Connector
	ping  monitor.PingFunc
	close lifecycle.ShutdownFunc
}

type cache struct {
	repo repository.TaskCache
	ping monitor.PingFunc
}

// newApplication wires every component. Start hooks are registered on the
// manager; nothing runs until manager.Start.
func newApplication(ctx context.Context, cfg *config.Config, log *zap.Logger) (*application, error) {
	manager := lifecycle.New(cfg.Context.ShutdownTimeout, log)

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := connectStore(ctx, cfg, st); err != nil {
		log.Error("store unreachable at startup", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		if st.close != nil {
			_ = st.close(context.Background())
		}
		return nil, err
	}
	manager.Register(cfg.Store.Driver, st.close)

	ch, err := openCache(cfg, log, manager)
	if err != nil {
		return nil, err
	}

	monitorOpts := []monitor.Option{monitor.WithCheck(cfg.Store.Driver, st.ping)}
	if ch != nil {
		monitorOpts = append(monitorOpts, monitor.WithCacheCheck(cfg.Cache.Driver, ch.ping))
	}

	var journal *services.BufferProcessor
	if ch != nil && cfg.Buffer.Enabled {
		bufferStore, err := buffer.Open(cfg.Buffer.Path, "invalidations")
		if err != nil {
			return nil, fmt.Errorf("open buffer store: %w", err)
		}
		manager.Register("buffer", func(context.Context) error {
			return bufferStore.Close()
		})
		monitorOpts = append(monitorOpts, monitor.WithJournal(bufferStore.Size))
		// The monitor reports the journal size, so it is built after the
		// processor and handed over through SetHealth below.
		journal = services.NewBufferProcessor(bufferStore, nil, ch.repo, log, services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  cfg.Buffer.Retention,
		})
	}

	mon := monitor.New(10*time.Second, log, monitorOpts...)
	manager.Add("monitor",
		func(context.Context) error { mon.Start(); return nil },
		func(context.Context) error { mon.Stop(); return nil },
	)

	taskOpts := []taskUC.Option{taskUC.WithConnector(st.conn)}
	if ch != nil {
		taskOpts = append(taskOpts, taskUC.WithCache(ch.repo, cfg.Cache.TTL))
	}
	if journal != nil {
		journal.SetHealth(mon)
		manager.Add("buffer_processor",
			func(context.Context) error { journal.Start(); return nil },
			func(ctx context.Context) error { journal.Stop(ctx); return nil },
		)
		taskOpts = append(taskOpts, taskUC.WithInvalidationBuffer(services.NewBufferBridge(journal)))
	}

	hasher := security.NewHasher(cfg.Password.BcryptCost)
	tokens := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)

	authUseCase := authUC.New(st.users, hasher, tokens, st.conn, log)
	profileUseCase := profileUC.New(st.users, hasher, st.conn, log)
	taskUseCase := taskUC.New(st.tasks, log, taskOpts...)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, log),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, log),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, log),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, log),
	}

	r := router.New(handlers, middleware.JWTAuth(tokens, log))

	return &application{
		manager: manager,
		handler: middleware.Chain(r.Handler,
			middleware.RequestLogger(log),
			middleware.CORS(cfg.HTTP.CORSOrigin),
		),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		if err := pgInfra.RunMigrations(cfg, log); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("postgres pool: %w", err)
		}
		return &store{
			users: postgres.NewUserRepository(pool.Pool),
			tasks: postgres.NewTaskRepository(pool.Pool),
			conn:  pool,
			ping:  pool.Ping,
			close: func(context.Context) error {
				pgInfra.Close(pool, log)
				return nil
			},
		}, nil

	case config.StoreMemory:
		mem := memory.NewStore()
		log.Warn("using in-memory store, data is lost on restart")
		return &store{users: mem.Users(), tasks: mem.Tasks(), conn: mem, ping: mem.Ping}, nil

	default:
		client, err := mongoInfra.NewClient(ctx, cfg.Mongo, log, mongoRepo.EnsureIndexes)
		if err != nil {
			return nil, fmt.Errorf("mongo client: %w", err)
		}
		return &store{
			users: mongoRepo.NewUserRepository(client.Database()),
			tasks: mongoRepo.NewTaskRepository(client.Database()),
			conn:  client,
			ping:  client.Ping,
			close: client.Close,
		}, nil
	}
}

// connectStore fails startup when the store cannot be reached. Both drivers
// dial lazily.
func connectStore(ctx context.Context, cfg *config.Config, st *store) error {
	timeout := cfg.Context.StartupTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := st.conn.EnsureConnected(ctx); err != nil {
		return fmt.Errorf("connect %s store: %w", cfg.Store.Driver, err)
	}
	return nil
}

// openCache returns nil when caching is disabled.
func openCache(cfg *config.Config, log *zap.Logger, manager *lifecycle.Manager) (*cache, error) {
	switch cfg.Cache.Driver {
	case config.CacheNone:
		log.Info("task list cache disabled")
		return nil, nil

	case config.CacheMemory:
		mem := memory.NewCache()
		return &cache{repo: mem, ping: mem.Ping}, nil

	default:
		client, err := redisInfra.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("redis client: %w", err)
		}
		manager.Register("redis", func(context.Context) error {
			return client.Close()
		})
		return &cache{
			repo: redisRepo.NewCacheRepository(client, cfg.Cache.TTL),
			ping: redisPing(client),
		}, nil
	}
}

func redisPing(client *goRedis.Client) monitor.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
