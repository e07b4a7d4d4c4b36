package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/ticketbari/ticketbari/config"
	"github.com/ticketbari/ticketbari/internal/api"
	"github.com/ticketbari/ticketbari/internal/api/graph"
	"github.com/ticketbari/ticketbari/internal/auth"
	"github.com/ticketbari/ticketbari/internal/countdown"
	intkafka "github.com/ticketbari/ticketbari/internal/kafka"
	"github.com/ticketbari/ticketbari/internal/lock"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/payment"
	"github.com/ticketbari/ticketbari/internal/repository"
	"github.com/ticketbari/ticketbari/internal/service"
	"github.com/ticketbari/ticketbari/internal/tasks"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to the yaml config file")
	instanceID = flag.Int("instance", 1, "instance id, offsets the listen port for multi-instance runs")
)

func main() {
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}
	slog.Info("config loaded", "instance", *instanceID)

	mysqlRepo, err := repository.NewMySQLRepository()
	if err != nil {
		slog.Error("mysql init failed", "error", err)
		os.Exit(1)
	}
	defer mysqlRepo.Close()

	redisRepo, err := repository.NewRedisRepository()
	if err != nil {
		slog.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	defer redisRepo.Close()

	ticketLock, err := lock.NewRedLock()
	if err != nil {
		slog.Error("redlock init failed", "error", err)
		os.Exit(1)
	}
	defer ticketLock.Close()

	producer, err := intkafka.NewProducer()
	if err != nil {
		slog.Error("kafka producer init failed", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	consumer, err := intkafka.NewConsumer()
	if err != nil {
		slog.Error("kafka consumer init failed", "error", err)
		os.Exit(1)
	}
	defer consumer.Stop()

	registry := countdown.NewRegistry()
	defer registry.Close()

	provider := payment.NewHostedProvider(
		cfg.Payment.CheckoutBaseURL,
		cfg.Payment.SuccessURL,
		cfg.Payment.CancelURL,
		cfg.Payment.SigningSecret,
	)

	authService := auth.NewService(mysqlRepo, redisRepo)
	ticketService := service.NewTicketService(mysqlRepo, redisRepo)
	bookingService := service.NewBookingService(mysqlRepo, redisRepo, ticketLock, producer)
	paymentService := service.NewPaymentService(mysqlRepo, redisRepo, ticketLock, producer, provider)
	userService := service.NewUserService(mysqlRepo, redisRepo)
	statsService := service.NewStatsService(mysqlRepo, redisRepo)
	notifier := service.NewNotificationService()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.DataAddress,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	handlers := tasks.NewHandlers(paymentService, bookingService, notifier, asynqClient)

	consumer.StartConsuming(func(event *model.BookingEvent) error {
		if err := bookingService.ProcessBookingEvent(event); err != nil {
			return err
		}
		handlers.NotifyForEvent(event)
		return nil
	})

	go func() {
		if err := tasks.StartServer(redisOpt, handlers); err != nil {
			slog.Error("task server stopped", "error", err)
		}
	}()

	graphqlServer := graph.NewGraphQLServer(ticketService, statsService)

	apiServer := api.NewServer(
		authService,
		ticketService,
		bookingService,
		paymentService,
		userService,
		statsService,
		registry,
	)
	router := api.NewRouter(apiServer, authService, graphqlServer.Handler(), cfg.GraphQL.Path)

	serverPort := cfg.Server.Port + *instanceID - 1
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", serverPort),
		Handler: router,
	}

	go func() {
		slog.Info("http server listening", "addr", srv.Addr, "instance", *instanceID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}
