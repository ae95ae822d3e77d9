package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bbmri-tools/directory-sync/pkg/common/config"
	"github.com/bbmri-tools/directory-sync/pkg/common/database"
	"github.com/bbmri-tools/directory-sync/pkg/common/kafka"
	"github.com/bbmri-tools/directory-sync/pkg/common/logger"
	"github.com/bbmri-tools/directory-sync/pkg/common/models"
	"github.com/bbmri-tools/directory-sync/pkg/directory"
	"github.com/bbmri-tools/directory-sync/pkg/fhir"
	"github.com/bbmri-tools/directory-sync/pkg/mapper"
	"github.com/bbmri-tools/directory-sync/pkg/sync"
	"github.com/bbmri-tools/directory-sync/pkg/vocabulary"
	"github.com/gorilla/mux"
)

type syncServer struct {
	service *sync.Service
	repo    *sync.Repository
}

func main() {
	logger.Init()
	cfg := config.Load()

	catalog, err := vocabulary.Load(cfg.VocabularyPath)
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to built-in vocabulary catalog")
	}

	source := directory.NewClient(cfg.DirectoryURL, cfg.DirectoryTimeout)
	builder := mapper.NewBuilder(catalog, cfg.NetworkManagingBiobankID)

	publisher := fhir.NewClient(fhir.Options{
		BaseURL:       cfg.FHIRBaseURL,
		Username:      cfg.FHIRUsername,
		Password:      cfg.FHIRPassword,
		TokenURL:      cfg.FHIRTokenURL,
		ClientID:      cfg.FHIRClientID,
		ClientSecret:  cfg.FHIRClientSecret,
		Timeout:       cfg.FHIRRequestTimeout,
		RetryAttempts: cfg.FHIRRetryAttempts,
		Cache:         database.GetRedis(),
		CacheTTL:      cfg.OrganizationCacheTTL,
	})

	var repo *sync.Repository
	if db, err := database.GetPostgres(); err == nil && db != nil {
		repo = sync.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Error("Failed to migrate sync_runs table")
		}
	} else {
		logger.Log.Warn("Running without run persistence")
	}
	defer database.ClosePostgres()
	defer database.CloseRedis()

	producer := kafka.NewProducer("sync-events")
	defer producer.Close()
	dlq := kafka.NewProducer("sync-events-dlq")
	defer dlq.Close()

	server := &syncServer{
		service: sync.NewService(source, builder, publisher, repo, producer, dlq),
		repo:    repo,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sync runs can also be requested over the event bus.
	consumer := kafka.NewConsumer("sync-requests", cfg.KafkaGroupID)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, server.processRequest); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Fatal("Consumer error")
		}
	}()

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/api/v1/sync/{kind}", server.handleSync).Methods("POST")
	router.HandleFunc("/api/v1/runs", server.handleRuns).Methods("GET")

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":      cfg.ServerHost,
			"port":      cfg.ServerPort,
			"directory": cfg.DirectoryURL,
		}).Info("Directory sync service started")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down directory sync service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Directory sync service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (s *syncServer) run(ctx context.Context, kind string) (*models.SyncSummary, error) {
	switch kind {
	case sync.KindBiobanks:
		return s.service.SyncBiobanks(ctx)
	case sync.KindNetworks:
		return s.service.SyncNetworks(ctx)
	case sync.KindCollections:
		return s.service.SyncCollections(ctx)
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func (s *syncServer) handleSync(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if kind != sync.KindBiobanks && kind != sync.KindNetworks && kind != sync.KindCollections {
		http.Error(w, "unknown entity kind", http.StatusBadRequest)
		return
	}

	summary, err := s.run(r.Context(), kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (s *syncServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		http.Error(w, "run persistence disabled", http.StatusServiceUnavailable)
		return
	}

	runs, err := s.repo.Recent(r.Context(), 50)
	if err != nil {
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

func (s *syncServer) processRequest(ctx context.Context, event models.Event) error {
	kind, _ := event.Data["kind"].(string)
	if kind == "" {
		logger.Log.WithField("event_id", event.ID).Warn("Sync request without kind")
		return nil
	}

	logger.Log.WithFields(map[string]interface{}{
		"event_id": event.ID,
		"kind":     kind,
	}).Info("Processing sync request")

	_, err := s.run(ctx, kind)
	return err
}
