package dataset

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fooddemand/api/internal/domain"
	"github.com/fooddemand/api/internal/pkg/id"
)

// UploadResult carries the outcome of an import attempt. Rejected uploads
// still produce a report and a history record.
type UploadResult struct {
	Accepted bool                   `json:"accepted"`
	Report   domain.HealthReport    `json:"report"`
	Record   *domain.UploadRecord   `json:"record"`
	Dataset  *domain.Dataset        `json:"-"`
	Summary  *domain.DatasetSummary `json:"summary,omitempty"`
}

type Service interface {
	Upload(ctx context.Context, userID, fileName string, data []byte, override domain.ColumnMapping) (*UploadResult, error)
	Get(ctx context.Context, userID string) (*domain.Dataset, *domain.DatasetSummary, error)
	Delete(ctx context.Context, userID string) error
	History(ctx context.Context, userID string) ([]domain.UploadRecord, error)
	RemoveHistory(ctx context.Context, userID string, ids []string) error
}

type datasetStore interface {
	PutDataset(ctx context.Context, ds *domain.Dataset) error
	GetDataset(ctx context.Context, userID string) (*domain.Dataset, error)
	DeleteDataset(ctx context.Context, userID string) error
	AppendUpload(ctx context.Context, rec *domain.UploadRecord) error
	ListUploads(ctx context.Context, userID string) ([]domain.UploadRecord, error)
	RemoveUploads(ctx context.Context, userID string, ids []string) error
}

type archiver interface {
	Archive(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	store   datasetStore
	archive archiver // nil: archiving disabled
}

type ServiceDeps struct {
	Store    datasetStore
	Archiver archiver
}

func NewService(deps ServiceDeps) Service {
	return &service{store: deps.Store, archive: deps.Archiver}
}

// Upload parses, maps, grades and (when healthy) imports a dataset file. The
// history record is written whether or not the import is accepted. An
// accepted upload replaces the user's working dataset.
func (s *service) Upload(ctx context.Context, userID, fileName string, data []byte, override domain.ColumnMapping) (*UploadResult, error) {
	if !SupportedExtension(fileName) {
		return nil, domain.UserError(domain.ErrBadRequest, MsgUnsupportedFormat)
	}

	headers, rows, err := parseFile(fileName, data)
	if err != nil {
		return nil, err
	}

	mapping := AutoMapColumns(headers)
	if override.Date != "" {
		mapping.Date = override.Date
	}
	if override.ItemName != "" {
		mapping.ItemName = override.ItemName
	}
	if override.Quantity != "" {
		mapping.Quantity = override.Quantity
	}
	if override.Revenue != "" {
		mapping.Revenue = override.Revenue
	}

	report := EvaluateHealth(rows, mapping)
	accepted := len(report.BlockingErrors) == 0

	record := &domain.UploadRecord{
		ID:          id.New(),
		UserID:      userID,
		FileName:    fileName,
		RowCount:    len(rows),
		HealthScore: report.Score,
		Status:      domain.UploadFailed,
		UploadedAt:  time.Now().UTC(),
	}
	if accepted {
		record.Status = domain.UploadImported
	}
	if err := s.store.AppendUpload(ctx, record); err != nil {
		return nil, err
	}

	result := &UploadResult{Accepted: accepted, Report: report, Record: record}
	if !accepted {
		return result, nil
	}

	ds := &domain.Dataset{
		UserID:     userID,
		FileName:   fileName,
		Mapping:    mapping,
		Rows:       NormalizeRows(rows, mapping),
		UploadedAt: record.UploadedAt,
	}
	if s.archive != nil {
		key := "datasets/" + userID + "/" + record.ID + "/" + fileName
		url, err := s.archive.Archive(ctx, key, bytes.NewReader(data), contentType(fileName))
		if err != nil {
			// Archiving is best-effort; the import still goes through.
			slog.Warn("dataset archive failed", "user_id", userID, "file", fileName, "err", err)
		} else {
			ds.ArchiveURL = url
		}
	}
	if err := s.store.PutDataset(ctx, ds); err != nil {
		return nil, err
	}

	result.Dataset = ds
	result.Summary = Summarize(ds.Rows)
	return result, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.Dataset, *domain.DatasetSummary, error) {
	ds, err := s.store.GetDataset(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return ds, Summarize(ds.Rows), nil
}

func (s *service) Delete(ctx context.Context, userID string) error {
	return s.store.DeleteDataset(ctx, userID)
}

func (s *service) History(ctx context.Context, userID string) ([]domain.UploadRecord, error) {
	return s.store.ListUploads(ctx, userID)
}

func (s *service) RemoveHistory(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.store.RemoveUploads(ctx, userID, ids)
}

func contentType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/vnd.ms-excel"
	}
}
