// Command api runs the posting and application HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/config"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/database"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/server"
)

// @title RaxatJob API
// @version 1.0
// @description Job and internship postings with admin moderation and candidate applications.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Must(err)
	}

	logx.MustSetup(logx.LogConf{
		ServiceName: "raxatjob-api",
		Mode:        cfg.LogMode,
		Level:       cfg.LogLevel,
		Encoding:    "plain",
	})
	defer logx.Close()

	db, err := database.GetMainDB()
	if err != nil {
		logx.Must(err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logx.Errorf("failed to close database: %v", err)
		}
	}()

	srv := server.NewServer(cfg, db)

	go func() {
		logx.Infof("API started on %s, internship visibility %s", srv.Addr, cfg.Visibility.Internship)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Must(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logx.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logx.Errorf("graceful shutdown failed: %v", err)
	}
}
