package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/timer-service/configs"
	"github.com/avvvet/timer-service/internal/comm"
	mongodb "github.com/avvvet/timer-service/internal/db"
	natscli "github.com/avvvet/timer-service/internal/nats"
	"github.com/avvvet/timer-service/internal/observability"
	"github.com/avvvet/timer-service/internal/timersvc/broker"
	svcconfig "github.com/avvvet/timer-service/internal/timersvc/config"
	"github.com/avvvet/timer-service/internal/timersvc/db"
	"github.com/avvvet/timer-service/internal/timersvc/handlers"
	"github.com/avvvet/timer-service/internal/timersvc/service"
	"github.com/avvvet/timer-service/internal/timersvc/store"
	"github.com/avvvet/timer-service/internal/timersvc/ws"
)

const SERVICE_NAME = "timer"

var instanceId string

func init() {
	config.LoadEnv(SERVICE_NAME)
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
}

func main() {
	cfg, err := svcconfig.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	config.Logging(SERVICE_NAME+"_service_"+instanceId, cfg.Log.Level, cfg.Log.Format, cfg.Log.ToFile)

	ctx := context.Background()

	timerStore, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer closeStore()
	log.Infof("%s store ready", cfg.Store.Driver)

	s := ws.NewWs()

	// websocket clients hear about changes from every instance through NATS,
	// otherwise only from this one
	var publishers broker.Fanout
	var natsBroker *broker.NatsBroker
	if cfg.Events.NatsURL != "" {
		n, err := natscli.Connect(cfg.Events.NatsURL, cfg.Events.NatsToken, SERVICE_NAME+"_"+instanceId)
		if err != nil {
			log.Fatalf("Error: unable to connect to NATS server %v", err)
		}
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)

		natsBroker = broker.NewNatsBroker(n.Conn, cfg.Events.NatsSubject)
		publishers = append(publishers, natsBroker)
	} else {
		publishers = append(publishers, s)
	}

	if cfg.KafkaEnabled() {
		kafkaBroker := broker.NewKafkaBroker(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic)
		defer kafkaBroker.Close()
		publishers = append(publishers, kafkaBroker)
		log.Infof("publishing timer events to kafka topic %s", cfg.Events.KafkaTopic)
	}

	if natsBroker != nil {
		sub, err := natsBroker.Subscribe(func(event comm.TimerEvent) { s.Broadcast(event) })
		if err != nil {
			log.Fatalf("Error: unable to subscribe to %s %v", cfg.Events.NatsSubject, err)
		}
		defer sub.Unsubscribe()
	}

	timerService := service.NewTimerService(timerStore,
		service.WithPublisher(publishers),
		service.WithInstanceId(instanceId),
	)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))
	r.Use(observability.HTTPMetrics)

	// Init handlers and routes
	h := handlers.NewHandler(timerService, s, handlers.StatusInfo{
		Service:     SERVICE_NAME,
		InstanceId:  instanceId,
		StoreDriver: cfg.Store.Driver,
		StartedAt:   time.Now().UTC(),
	})
	h.InitAuth(cfg.JWTSecret)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}

// openStore connects the configured backend and returns it with its closer.
func openStore(ctx context.Context, cfg svcconfig.StoreConfig) (store.TimerStore, func(), error) {
	switch cfg.Driver {
	case svcconfig.DriverMongo:
		database, disconnect, err := mongodb.ConnectToDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := disconnect(context.Background()); err != nil {
				log.Errorf("mongo disconnect: %v", err)
			}
		}
		return store.NewMongoStore(database, cfg.MongoCollection), closer, nil

	case svcconfig.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		pgStore := store.NewPostgresStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			db.ClosePool()
			return nil, nil, err
		}
		return pgStore, db.ClosePool, nil

	case svcconfig.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqliteStore := store.NewSQLiteStore(conn)
		if err := sqliteStore.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return sqliteStore, func() { conn.Close() }, nil

	case svcconfig.DriverMemory:
		log.Warn("memory store selected, the timer is lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
