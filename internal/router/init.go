package router

import (
	"github.com/oksasatya/photo-gallery/config"
	"github.com/oksasatya/photo-gallery/internal/application"
	"github.com/oksasatya/photo-gallery/internal/container"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
	"github.com/oksasatya/photo-gallery/internal/infrastructure/memory"
	"github.com/oksasatya/photo-gallery/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/photo-gallery/internal/infrastructure/postgres"
	"github.com/oksasatya/photo-gallery/internal/infrastructure/search"
	handlers "github.com/oksasatya/photo-gallery/internal/interface/http"
	"github.com/oksasatya/photo-gallery/internal/interface/middleware"
	"github.com/oksasatya/photo-gallery/internal/router/modules"
)

// Deps is the wired service graph shared by the route modules.
type Deps struct {
	Users   repo.UserRepository
	Photos  repo.PhotoRepository
	Gallery *application.PhotoService
	Admin   *application.AdminService
	Account *application.Service
}

func buildRepositories(cfg *config.Config) (repo.UserRepository, repo.PhotoRepository) {
	if cfg.StoreDriver == "memory" {
		store := memory.NewStore()
		return store.Users(), store.Photos()
	}
	pool := container.GetPGPool()
	return pginfra.NewUserRepository(pool), pginfra.NewPhotoRepository(pool)
}

func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	blobs := container.GetBlobStore()
	users, photos := buildRepositories(cfg)

	gallery := application.NewPhotoService(photos, users, blobs, logger, cfg.MaxUploadBytes)
	account := application.NewService(users, photos, blobs, container.GetJWT(), container.GetRedis(), logger)

	if es := container.GetES(); es != nil {
		gallery.Index = search.NewPhotoIndex(es, cfg.ESPhotosIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		n := notify.NewEmailNotifier(pub, cfg)
		gallery.Notify = n
		account.Notify = n
	}

	return Deps{
		Users:   users,
		Photos:  photos,
		Gallery: gallery,
		Admin:   application.NewAdminService(users, photos, blobs, gallery, logger),
		Account: account,
	}
}

// InitModules builds the service graph and registers every module.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) Deps {
	deps := BuildDeps()
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()

	r.Use(middleware.ResolveActor(deps.Account))

	r.Add(modules.NewPhotoModule(handlers.NewPhotoHandler(deps.Gallery, logger), rdb))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(deps.Account, deps.Gallery, logger, cfg.CookieDomain, cfg.CookieSecure), rdb))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(deps.Admin, logger)))
	if cfg.DebugMetricsEnabled {
		debug := modules.NewDebugModule(rdb)
		r.Add(debug)
		r.AddRoot(debug)
	}
	return deps
}
