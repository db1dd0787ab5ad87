package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // keep timezone data available in slim images

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/filmrec/internal/config"
	"github.com/user/filmrec/internal/handler"
	"github.com/user/filmrec/internal/middleware"
	"github.com/user/filmrec/internal/repository"
	"github.com/user/filmrec/internal/router"
	"github.com/user/filmrec/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using the system environment")
	}

	cfg := config.Load()

	db, err := repository.InitDB(cfg.DatabaseURL, cfg.EmbeddingDim)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	repos := repository.NewRepositories(db)

	utils.InitCache()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	h := handler.NewHandler(repos, cfg)
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("server listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("forced shutdown:", err)
	}

	log.Println("server stopped")
}
