package main // Entry point package

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/savpro/sav-tracker/internal/config"
	"github.com/savpro/sav-tracker/internal/database"
	"github.com/savpro/sav-tracker/internal/handler"
	"github.com/savpro/sav-tracker/internal/queue"
	"github.com/savpro/sav-tracker/internal/repository"
	"github.com/savpro/sav-tracker/internal/router"
	"github.com/savpro/sav-tracker/internal/service"
	"github.com/savpro/sav-tracker/internal/utils"
)

func main() {
	// Load variables from a local .env file when present.  Real
	// deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	if err := seedAdmin(cfg, store.Users); err != nil {
		log.Fatalf("admin seed: %v", err)
	}

	// Redis is optional.  Without it the API runs with no rate
	// limiting and no response cache.
	rdb := config.NewRedisClient()

	uploader, err := buildUploader(cfg)
	if err != nil {
		log.Fatalf("uploader init: %v", err)
	}

	declarations := handler.NewDeclarationHandler(store)
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		declarations.Publish = service.PublishDeclarationEvent
		go func() {
			if err := queue.StartLifecycleConsumer(); err != nil {
				log.Printf("lifecycle consumer stopped: %v", err)
			}
		}()
	}

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, store.Users),
		Category:    handler.NewCategoryHandler(store.Categories),
		Client:      handler.NewClientHandler(store.Clients),
		Declaration: declarations,
		Admin:       handler.NewAdminHandler(store),
	}
	if uploader != nil {
		h.Upload = handler.NewUploadHandler(uploader)
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// buildStore selects the backing store.  With no DB_HOST configured
// the service runs entirely in memory, which is enough for local
// development and demos; otherwise it connects to MySQL and applies
// the schema.
func buildStore(cfg config.Config) (repository.Store, error) {
	if cfg.UseMemoryStore() {
		log.Println("no DB_HOST set, using in-memory storage")
		return repository.NewMemory().Stores(), nil
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return repository.Store{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		return repository.Store{}, err
	}
	return repository.Store{
		Users:        repository.NewUserRepo(db),
		Clients:      repository.NewClientRepo(db),
		Categories:   repository.NewCategoryRepo(db),
		Declarations: repository.NewDeclarationRepo(db),
	}, nil
}

// seedAdmin creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured and the account does not exist yet.
func seedAdmin(cfg config.Config, users repository.UserStore) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return database.EnsureAdmin(ctx, users, cfg.AdminEmail, hash, cfg.AdminName)
}

// buildUploader picks S3 when credentials and a bucket are configured,
// local disk otherwise.
func buildUploader(cfg config.Config) (service.Uploader, error) {
	if cfg.UseS3Uploads() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return service.NewS3Uploader(ctx, cfg)
	}
	if cfg.UploadDir == "" {
		return nil, nil
	}
	return service.NewDiskUploader(cfg.UploadDir)
}
