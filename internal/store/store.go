package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tenderscope/tenderscope/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error
	GetDefaultTenant(ctx context.Context) (*models.Tenant, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error

	CreateTender(ctx context.Context, tender *models.Tender) error
	GetTender(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Tender, error)
	ListTenders(ctx context.Context, filter TenderFilter) ([]*models.Tender, int, error)
	DeleteTender(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error

	CreateAnalysisResult(ctx context.Context, result *models.AnalysisResult) error
	GetAnalysisResultByJobID(ctx context.Context, jobID uuid.UUID) (*models.AnalysisResult, error)
	GetAnalysisResultByTenderID(ctx context.Context, tenderID uuid.UUID) (*models.AnalysisResult, error)

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Job, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, opts ...JobUpdateOption) error

	UpsertCompanyProfile(ctx context.Context, profile *models.CompanyProfile) error
	GetCompanyProfile(ctx context.Context, tenantID uuid.UUID) (*models.CompanyProfile, error)
}

type TenderFilter struct {
	TenantID uuid.UUID
	FileName string
	Since    time.Time
	Page     int
	Limit    int
}

type jobUpdateParams struct {
	ErrorMessage *string
	TenderID     *uuid.UUID
}

type JobUpdateOption func(*jobUpdateParams)

func WithErrorMessage(msg string) JobUpdateOption {
	return func(p *jobUpdateParams) {
		p.ErrorMessage = &msg
	}
}

func WithTenderID(id uuid.UUID) JobUpdateOption {
	return func(p *jobUpdateParams) {
		p.TenderID = &id
	}
}
