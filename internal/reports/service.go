package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/LEOK66/Modo-sub000/internal/blob"
	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/LEOK66/Modo-sub000/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrPlanNotFound = errors.New("plan not found")
)

// Export is the result of exporting a plan: either a presigned URL (S3
// mode) or the raw PDF for inline streaming (local mode).
type Export struct {
	URL      string
	Data     []byte
	FileName string
}

// Service turns stored plans into downloadable PDFs, uploading to blob
// storage when one is configured.
type Service struct {
	plansStorage storage.PlansStorage
	generator    *Generator
	blobStore    blob.Store // nil in local mode
	presignTTL   int
}

func NewService(plansStorage storage.PlansStorage, blobStore blob.Store, presignTTLSeconds int) *Service {
	if presignTTLSeconds <= 0 {
		presignTTLSeconds = 900
	}
	return &Service{
		plansStorage: plansStorage,
		generator:    NewGenerator(),
		blobStore:    blobStore,
		presignTTL:   presignTTLSeconds,
	}
}

// ExportPlan renders the plan as a PDF. With a blob store it uploads and
// returns a presigned URL; without one it returns the bytes directly.
func (s *Service) ExportPlan(ctx context.Context, planID uuid.UUID) (*Export, error) {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return nil, ErrUnauthorized
	}

	record, err := s.plansStorage.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	var plan plans.Plan
	if err := json.Unmarshal(record.Payload, &plan); err != nil {
		return nil, fmt.Errorf("stored plan payload unreadable: %w", err)
	}

	data, err := s.generator.GeneratePlanPDF(&plan)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("%s-plan-%s.pdf", record.Kind, record.ID)

	if s.blobStore == nil {
		return &Export{Data: data, FileName: fileName}, nil
	}

	key := fmt.Sprintf("exports/%s/%s", userID, fileName)
	if _, err := s.blobStore.PutObject(ctx, key, data, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}
	url, err := s.blobStore.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export: %w", err)
	}
	return &Export{URL: url, FileName: fileName}, nil
}

func userIDFromContext(ctx context.Context) string {
	userID, _ := userctx.GetUserID(ctx)
	return userID
}

func normalizeOwner(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
