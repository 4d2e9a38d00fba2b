package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"tavola/internal/auth"
	"tavola/internal/cart"
	"tavola/internal/catalog"
	"tavola/internal/config"
	"tavola/internal/database"
	"tavola/internal/email"
	"tavola/internal/logging"
	"tavola/internal/metrics"
	"tavola/internal/order"
	"tavola/internal/server"
)

const logMaxBytes = 10 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.LogFile != "" {
		fileWriter, err := logging.NewRotatingFileWriter(cfg.LogFile, logMaxBytes, 3)
		if err != nil {
			log.Fatalf("log setup error: %v", err)
		}
		defer fileWriter.Close()
		logOutput = io.MultiWriter(os.Stdout, fileWriter)
	}
	log.SetOutput(logOutput)
	log.SetFlags(log.LstdFlags | log.LUTC | log.Lshortfile)

	db, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis config error: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	users := auth.NewUserRepository(db)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret))
	recovery := auth.NewRecoveryService(users, hasher)

	var delivery auth.DeliveryChannel
	if cfg.Production() {
		delivery = &auth.MailDelivery{
			Mailer:  email.NewSender(cfg.Email),
			BaseURL: cfg.BaseURL,
		}
	} else {
		delivery = auth.ResponseDelivery{}
	}

	api := server.NewServer(
		cfg,
		users,
		recovery,
		delivery,
		tokens,
		hasher,
		catalog.NewRepository(db),
		cart.NewStore(redisClient),
		order.NewRepository(db),
		metrics.NewCollector(),
	)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
