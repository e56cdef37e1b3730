package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/config"
	authcontroller "taskmanager/controller/auth"
	taskcontroller "taskmanager/controller/task"
	"taskmanager/middleware"
	"taskmanager/services"
	"taskmanager/session"
	"taskmanager/store"
	"taskmanager/tasklist"
)

// Backends are the stores selected by TASK_STORE.
type Backends struct {
	Tasks    store.TaskStore
	Users    services.UserRepository
	IDTokens middleware.IDTokenVerifier

	closers []func()
}

func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func OpenBackends(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backends, error) {
	b := &Backends{}

	var fb *Firebase
	if cfg.TaskStore == config.StoreFirestore || cfg.FirebaseIDTokens {
		var err error
		if fb, err = FBConnection(ctx, cfg.CredentialsPath, cfg.FirebaseIDTokens); err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = fb.Close() })
		logger.Info("Firestore connection successful")
		if fb.Auth != nil {
			b.IDTokens = fb.Auth
		}
	}

	switch cfg.TaskStore {
	case config.StoreFirestore:
		b.Tasks = store.NewFirestoreStore(fb.Firestore)
		b.Users = services.NewFirestoreUsers(fb.Firestore)
	case config.StorePostgres:
		pool, err := PGConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)

		tasks := store.NewPostgresStore(pool)
		users := services.NewPostgresUsers(pool)
		if err := tasks.Migrate(ctx); err != nil {
			b.Close()
			return nil, err
		}
		if err := users.Migrate(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.Tasks, b.Users = tasks, users
		logger.Info("Successfully connected to the Database!")
	case config.StoreMemory:
		b.Tasks = store.NewMemoryStore()
		b.Users = services.NewMemoryUsers()
		logger.Warn("using in-memory stores, data is lost on restart")
	default:
		b.Close()
		return nil, fmt.Errorf("unknown TASK_STORE %q", cfg.TaskStore)
	}
	return b, nil
}

func NewRegistry(cfg config.Config, b *Backends, logger *zap.Logger) *tasklist.Registry {
	return tasklist.NewRegistry(b.Tasks, logger,
		tasklist.WithIdleTTL(cfg.IdleListTTL),
		tasklist.WithMaxUsers(cfg.MaxActiveUsers),
	)
}

func NewRouter(cfg config.Config, b *Backends, registry *tasklist.Registry, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		cors.Default(),
		middleware.RequestTimeout(cfg.RequestTimeout),
	)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL)
	accounts := session.NewAccounts(b.Users, jwtService, logger)
	authcontroller.SignInController(router, accounts, logger)
	authcontroller.SignUpController(router, accounts, logger)

	auth := middleware.AccessTokenMiddleware(jwtService, b.IDTokens)
	taskcontroller.TaskController(router, taskcontroller.NewHandler(registry, logger), auth)

	return router
}

// StartServer serves until SIGINT or SIGTERM, then drains in-flight
// requests for up to ten seconds.
func StartServer(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := OpenBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	registry := NewRegistry(cfg, b, logger)
	if cfg.IdleListTTL > 0 {
		go registry.Run(ctx, cfg.IdleListTTL/2)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, b, registry, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr), zap.String("taskStore", cfg.TaskStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
