package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanyProfile holds the figures a company-fit match is scored against.
// One profile per tenant; read-only to the scoring engine.
type CompanyProfile struct {
	ID                uuid.UUID `db:"id"                 json:"id"`
	TenantID          uuid.UUID `db:"tenant_id"          json:"tenant_id"`
	CompanyName       string    `db:"company_name"       json:"company_name"`
	AnnualRevenue     float64   `db:"annual_revenue"     json:"annual_revenue"`      // TRY, non-negative
	BankCreditLimit   float64   `db:"bank_credit_limit"  json:"bank_credit_limit"`   // TRY, non-negative
	Certifications    []string  `db:"certifications"     json:"certifications"`
	ReferenceProjects []string  `db:"reference_projects" json:"reference_projects"`
	Equipment         []string  `db:"equipment"          json:"equipment"`
	EmployeeCount     int       `db:"employee_count"     json:"employee_count"`
	FoundingYear      int       `db:"founding_year"      json:"founding_year"`
	CreatedAt         time.Time `db:"created_at"         json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"         json:"updated_at"`
}
