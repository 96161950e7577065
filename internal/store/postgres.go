package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tenderscope/tenderscope/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Tenants ---

func (s *PostgresStore) GetDefaultTenant(ctx context.Context) (*models.Tenant, error) {
	var t models.Tenant
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM tenants WHERE name = 'default' LIMIT 1`,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get default tenant: %w", err)
	}
	return &t, nil
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, tenant_id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.ID, key.TenantID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, id, tenantID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Tenders ---

func (s *PostgresStore) CreateTender(ctx context.Context, tender *models.Tender) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tenders (id, tenant_id, file_name, file_size, page_count, text, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tender.ID, tender.TenantID, tender.FileName, tender.FileSize, tender.PageCount,
		tender.Text, tender.CreatedAt, tender.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create tender: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTender(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Tender, error) {
	var t models.Tender
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, file_name, file_size, page_count, text, created_at, updated_at
		 FROM tenders WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	).Scan(&t.ID, &t.TenantID, &t.FileName, &t.FileSize, &t.PageCount, &t.Text,
		&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tender: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListTenders(ctx context.Context, filter TenderFilter) ([]*models.Tender, int, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{filter.TenantID}
	argIdx := 2

	if filter.FileName != "" {
		conditions = append(conditions, fmt.Sprintf("file_name ILIKE $%d", argIdx))
		args = append(args, "%"+filter.FileName+"%")
		argIdx++
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, filter.Since)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM tenders WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tenders: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	// Listings skip the extracted text; it can run to hundreds of pages.
	dataQuery := fmt.Sprintf(
		`SELECT id, tenant_id, file_name, file_size, page_count, created_at, updated_at
		 FROM tenders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenders: %w", err)
	}
	defer rows.Close()

	var tenders []*models.Tender
	for rows.Next() {
		var t models.Tender
		if err := rows.Scan(&t.ID, &t.TenantID, &t.FileName, &t.FileSize, &t.PageCount,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan tender: %w", err)
		}
		tenders = append(tenders, &t)
	}
	return tenders, total, rows.Err()
}

func (s *PostgresStore) DeleteTender(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM tenders WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete tender: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Analysis Results ---

func (s *PostgresStore) CreateAnalysisResult(ctx context.Context, result *models.AnalysisResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_results (id, tenant_id, tender_id, job_id, provider, model,
		   risk_analysis, required_documents, penalty_clauses, financial_summary,
		   timeline_analysis, executive_summary,
		   risk_score, risk_level, tokens_used, cost_usd, analysis_time, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		result.ID, result.TenantID, result.TenderID, result.JobID, result.Provider, result.Model,
		result.RiskAnalysis, result.RequiredDocuments, result.PenaltyClauses, result.FinancialSummary,
		result.TimelineAnalysis, result.ExecutiveSummary,
		result.RiskScore, result.RiskLevel, result.TokensUsed, result.CostUSD, result.AnalysisTime,
		result.CreatedAt)
	if err != nil {
		return fmt.Errorf("create analysis result: %w", err)
	}
	return nil
}

const analysisResultColumns = `id, tenant_id, tender_id, job_id, provider, model,
	risk_analysis, required_documents, penalty_clauses, financial_summary,
	timeline_analysis, executive_summary,
	risk_score, risk_level, tokens_used, cost_usd, analysis_time, created_at`

func scanAnalysisResult(row pgx.Row) (*models.AnalysisResult, error) {
	var r models.AnalysisResult
	err := row.Scan(&r.ID, &r.TenantID, &r.TenderID, &r.JobID, &r.Provider, &r.Model,
		&r.RiskAnalysis, &r.RequiredDocuments, &r.PenaltyClauses, &r.FinancialSummary,
		&r.TimelineAnalysis, &r.ExecutiveSummary,
		&r.RiskScore, &r.RiskLevel, &r.TokensUsed, &r.CostUSD, &r.AnalysisTime, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) GetAnalysisResultByJobID(ctx context.Context, jobID uuid.UUID) (*models.AnalysisResult, error) {
	r, err := scanAnalysisResult(s.pool.QueryRow(ctx,
		`SELECT `+analysisResultColumns+` FROM analysis_results WHERE job_id = $1`, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis result by job: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) GetAnalysisResultByTenderID(ctx context.Context, tenderID uuid.UUID) (*models.AnalysisResult, error) {
	r, err := scanAnalysisResult(s.pool.QueryRow(ctx,
		`SELECT `+analysisResultColumns+` FROM analysis_results WHERE tender_id = $1 ORDER BY created_at DESC LIMIT 1`, tenderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis result by tender: %w", err)
	}
	return r, nil
}

// --- Jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, tenant_id, type, status, tender_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.TenantID, job.Type, job.Status, job.TenderID, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, type, status, tender_id, error_message, started_at, completed_at, created_at, updated_at
		 FROM jobs WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	).Scan(&j.ID, &j.TenantID, &j.Type, &j.Status, &j.TenderID, &j.ErrorMessage,
		&j.StartedAt, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

var validTransitions = map[string][]string{
	"pending": {"running"},
	"running": {"completed", "failed"},
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, opts ...JobUpdateOption) error {
	params := &jobUpdateParams{}
	for _, opt := range opts {
		opt(params)
	}

	var currentStatus string
	err := s.pool.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&currentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get job status: %w", err)
	}

	allowed := validTransitions[currentStatus]
	valid := false
	for _, a := range allowed {
		if a == status {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid job status transition: %s -> %s", currentStatus, status)
	}

	now := time.Now().UTC()
	query := `UPDATE jobs SET status = $2, updated_at = $3`
	args := []any{id, status, now}
	argIdx := 4

	if status == "running" {
		query += fmt.Sprintf(", started_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if status == "completed" || status == "failed" {
		query += fmt.Sprintf(", completed_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if params.ErrorMessage != nil {
		query += fmt.Sprintf(", error_message = $%d", argIdx)
		args = append(args, *params.ErrorMessage)
		argIdx++
	}
	if params.TenderID != nil {
		query += fmt.Sprintf(", tender_id = $%d", argIdx)
		args = append(args, *params.TenderID)
		argIdx++
	}

	query += " WHERE id = $1"

	_, err = s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// --- Company Profiles ---

func (s *PostgresStore) UpsertCompanyProfile(ctx context.Context, profile *models.CompanyProfile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO company_profiles (id, tenant_id, company_name, annual_revenue, bank_credit_limit,
		   certifications, reference_projects, equipment, employee_count, founding_year, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (tenant_id) DO UPDATE SET
		   company_name = EXCLUDED.company_name,
		   annual_revenue = EXCLUDED.annual_revenue,
		   bank_credit_limit = EXCLUDED.bank_credit_limit,
		   certifications = EXCLUDED.certifications,
		   reference_projects = EXCLUDED.reference_projects,
		   equipment = EXCLUDED.equipment,
		   employee_count = EXCLUDED.employee_count,
		   founding_year = EXCLUDED.founding_year,
		   updated_at = NOW()`,
		profile.ID, profile.TenantID, profile.CompanyName, profile.AnnualRevenue, profile.BankCreditLimit,
		profile.Certifications, profile.ReferenceProjects, profile.Equipment,
		profile.EmployeeCount, profile.FoundingYear, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert company profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCompanyProfile(ctx context.Context, tenantID uuid.UUID) (*models.CompanyProfile, error) {
	var p models.CompanyProfile
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, company_name, annual_revenue, bank_credit_limit,
		   certifications, reference_projects, equipment, employee_count, founding_year, created_at, updated_at
		 FROM company_profiles WHERE tenant_id = $1`, tenantID,
	).Scan(&p.ID, &p.TenantID, &p.CompanyName, &p.AnnualRevenue, &p.BankCreditLimit,
		&p.Certifications, &p.ReferenceProjects, &p.Equipment,
		&p.EmployeeCount, &p.FoundingYear, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get company profile: %w", err)
	}
	return &p, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
