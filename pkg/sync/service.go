package sync

import (
	"context"
	"time"

	"github.com/bbmri-tools/directory-sync/pkg/common/kafka"
	"github.com/bbmri-tools/directory-sync/pkg/common/logger"
	"github.com/bbmri-tools/directory-sync/pkg/common/models"
	"github.com/bbmri-tools/directory-sync/pkg/mapper"
	"github.com/bbmri-tools/directory-sync/pkg/miabis"
	"github.com/google/uuid"
)

const (
	KindBiobanks    = "biobanks"
	KindNetworks    = "networks"
	KindCollections = "collections"
)

// Source is the directory query boundary: one fixed query per entity kind,
// the full dataset in one response.
type Source interface {
	FetchBiobanks(ctx context.Context) (map[string]interface{}, error)
	FetchNetworks(ctx context.Context) (map[string]interface{}, error)
	FetchCollections(ctx context.Context) (map[string]interface{}, error)
}

// Publisher is the destination store boundary. Each upload is idempotent
// create-or-update by entity identifier; serialization to the wire format is
// the publisher's concern, not the orchestrator's.
type Publisher interface {
	UploadBiobank(ctx context.Context, biobank *miabis.Biobank) error
	UploadNetwork(ctx context.Context, network *miabis.Network) error
	UploadCollection(ctx context.Context, collection *miabis.Collection) error
}

// Service drives one fetch → map → publish cycle per entity kind. The three
// kinds are independent; each cycle is strictly sequential and publishes one
// entity at a time in source order.
type Service struct {
	source    Source
	builder   *mapper.Builder
	publisher Publisher
	repo      *Repository
	producer  *kafka.Producer
	dlq       *kafka.Producer
}

func NewService(source Source, builder *mapper.Builder, publisher Publisher, repo *Repository, producer *kafka.Producer, dlq *kafka.Producer) *Service {
	return &Service{
		source:    source,
		builder:   builder,
		publisher: publisher,
		repo:      repo,
		producer:  producer,
		dlq:       dlq,
	}
}

func (s *Service) SyncBiobanks(ctx context.Context) (*models.SyncSummary, error) {
	summary := s.begin(KindBiobanks)

	payload, err := s.source.FetchBiobanks(ctx)
	if err != nil {
		s.fail(ctx, summary, err)
		return nil, err
	}

	biobanks, report := s.builder.Biobanks(payload)
	s.applyReport(summary, report)

	for _, biobank := range biobanks {
		s.recordPublish(summary, biobank.Identifier, s.publisher.UploadBiobank(ctx, biobank))
	}

	s.finish(ctx, summary)
	return summary, nil
}

func (s *Service) SyncNetworks(ctx context.Context) (*models.SyncSummary, error) {
	summary := s.begin(KindNetworks)

	payload, err := s.source.FetchNetworks(ctx)
	if err != nil {
		s.fail(ctx, summary, err)
		return nil, err
	}

	networks, report := s.builder.Networks(payload)
	s.applyReport(summary, report)

	for _, network := range networks {
		s.recordPublish(summary, network.Identifier, s.publisher.UploadNetwork(ctx, network))
	}

	s.finish(ctx, summary)
	return summary, nil
}

func (s *Service) SyncCollections(ctx context.Context) (*models.SyncSummary, error) {
	summary := s.begin(KindCollections)

	payload, err := s.source.FetchCollections(ctx)
	if err != nil {
		s.fail(ctx, summary, err)
		return nil, err
	}

	collections, report := s.builder.Collections(payload)
	s.applyReport(summary, report)

	for _, collection := range collections {
		s.recordPublish(summary, collection.Identifier, s.publisher.UploadCollection(ctx, collection))
	}

	s.finish(ctx, summary)
	return summary, nil
}

func (s *Service) begin(kind string) *models.SyncSummary {
	return &models.SyncSummary{
		RunID:     uuid.New().String(),
		Kind:      kind,
		StartedAt: time.Now().UTC(),
	}
}

func (s *Service) applyReport(summary *models.SyncSummary, report mapper.Report) {
	summary.Fetched = report.Fetched
	summary.Mapped = report.Mapped
	summary.Skipped = len(report.Skipped)
	summary.SkipReasons = report.Skipped
}

func (s *Service) recordPublish(summary *models.SyncSummary, identifier string, err error) {
	if err != nil {
		summary.Failed++
		logger.Log.WithFields(map[string]interface{}{
			"run_id":     summary.RunID,
			"kind":       summary.Kind,
			"identifier": identifier,
		}).WithError(err).Error("Failed to publish entity")
		return
	}
	summary.Published++
}

func (s *Service) fail(ctx context.Context, summary *models.SyncSummary, err error) {
	summary.CompletedAt = time.Now().UTC()
	logger.Log.WithFields(map[string]interface{}{
		"run_id": summary.RunID,
		"kind":   summary.Kind,
	}).WithError(err).Error("Sync run failed to fetch")

	s.emit(ctx, "sync-failed", map[string]interface{}{
		"run_id": summary.RunID,
		"kind":   summary.Kind,
		"error":  err.Error(),
	})
}

func (s *Service) finish(ctx context.Context, summary *models.SyncSummary) {
	summary.CompletedAt = time.Now().UTC()

	logger.Log.WithFields(map[string]interface{}{
		"run_id":    summary.RunID,
		"kind":      summary.Kind,
		"fetched":   summary.Fetched,
		"mapped":    summary.Mapped,
		"skipped":   summary.Skipped,
		"published": summary.Published,
		"failed":    summary.Failed,
	}).Info("Sync run completed")

	if s.repo != nil {
		if err := s.repo.Save(ctx, runRecord(summary)); err != nil {
			logger.Log.WithError(err).Error("Failed to persist sync run")
		}
	}

	s.emit(ctx, "sync-completed", map[string]interface{}{
		"run_id":    summary.RunID,
		"kind":      summary.Kind,
		"fetched":   summary.Fetched,
		"mapped":    summary.Mapped,
		"skipped":   summary.Skipped,
		"published": summary.Published,
		"failed":    summary.Failed,
	})
}

func (s *Service) emit(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEvent(ctx, eventType, "directory-sync", payload); err != nil {
		logger.Log.WithError(err).Error("Failed to publish sync event")
		if s.dlq != nil {
			_ = s.dlq.PublishEvent(ctx, eventType, "directory-sync", payload)
		}
	}
}

func runRecord(summary *models.SyncSummary) *RunModel {
	detail := map[string]interface{}{}
	if len(summary.SkipReasons) > 0 {
		reasons := make([]interface{}, 0, len(summary.SkipReasons))
		for _, reason := range summary.SkipReasons {
			reasons = append(reasons, map[string]interface{}{
				"identity": reason.Identity,
				"reason":   reason.Reason,
			})
		}
		detail["skip_reasons"] = reasons
	}

	return &RunModel{
		ID:          summary.RunID,
		Kind:        summary.Kind,
		Fetched:     summary.Fetched,
		Mapped:      summary.Mapped,
		Skipped:     summary.Skipped,
		Published:   summary.Published,
		Failed:      summary.Failed,
		Detail:      detail,
		StartedAt:   summary.StartedAt,
		CompletedAt: summary.CompletedAt,
	}
}
