package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/encounter-engine/pkg/simulation"
)

const reportTTL = 7 * 24 * time.Hour

// StoredReport wraps a simulation report with batch identity for later
// retrieval and comparison across tuning changes.
type StoredReport struct {
	ID        uuid.UUID          `json:"id"`
	Label     string             `json:"label,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	Seed      int64              `json:"seed"`
	Report    *simulation.Report `json:"report"`
}

// ReportService persists simulation reports in the cache.
type ReportService struct {
	cache  Cache
	logger *slog.Logger
}

func NewReportService(cache Cache, logger *slog.Logger) *ReportService {
	return &ReportService{cache: cache, logger: logger}
}

func reportKey(id uuid.UUID) string {
	return "report:" + id.String()
}

// Save stores a report and returns its assigned id.
func (s *ReportService) Save(ctx context.Context, label string, seed int64, report *simulation.Report) (uuid.UUID, error) {
	stored := StoredReport{
		ID:        uuid.New(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
		Seed:      seed,
		Report:    report,
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := s.cache.Set(ctx, reportKey(stored.ID), string(data), reportTTL); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("Simulation report saved", "report_id", stored.ID, "label", label)
	return stored.ID, nil
}

// Get retrieves a stored report. Returns nil without error when the id is
// unknown or expired.
func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*StoredReport, error) {
	raw, err := s.cache.Get(ctx, reportKey(id))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var stored StoredReport
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return &stored, nil
}
