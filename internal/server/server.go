package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/config"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/database"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/service"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/store"
)

// MyServer holds the configuration, database and services behind the routes
type MyServer struct {
	Config config.Config
	DB     *database.DBinstanceStruct

	Postings     *service.PostingService
	Moderation   *service.ModerationService
	Applications *service.ApplicationService
}

// NewMyServer wires the stores and services on db.
func NewMyServer(cfg config.Config, db *database.DBinstanceStruct) *MyServer {
	postings := store.NewPostingStore(db)
	applications := store.NewApplicationStore(db)

	return &MyServer{
		Config:       cfg,
		DB:           db,
		Postings:     service.NewPostingService(postings, cfg.Visibility),
		Moderation:   service.NewModerationService(postings, cfg.BulkConcurrency),
		Applications: service.NewApplicationService(postings, applications, cfg.Visibility),
	}
}

// NewServer construct new http.Server serving the API
func NewServer(cfg config.Config, db *database.DBinstanceStruct) *http.Server {
	s := NewMyServer(cfg, db)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
