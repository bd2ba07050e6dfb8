package model

import "time"

// Stage is the CRM-visible pipeline phase of a company.
type Stage string

const (
	StageNewLead         Stage = "New Lead"
	StageInitialResearch Stage = "Initial Research"
	StagePartnerReview   Stage = "Partner Review"
)

// DiligenceStatus is the CRM-visible state of a diligence run.
type DiligenceStatus string

const (
	DiligencePending    DiligenceStatus = "Pending"
	DiligenceInProgress DiligenceStatus = "In Progress"
	DiligenceComplete   DiligenceStatus = "Complete"
	DiligenceFailed     DiligenceStatus = "Failed"
)

// Terminal reports whether no further transition can follow s.
func (s DiligenceStatus) Terminal() bool {
	return s == DiligenceComplete || s == DiligenceFailed
}

// Record column names shared by every record store backend.
const (
	FieldExternalID       = "External ID"
	FieldCompanyName      = "Company Name"
	FieldStage            = "Stage"
	FieldDiligenceStatus  = "Diligence Status"
	FieldAIRecommendation = "AI Recommendation"
	FieldLastUpdated      = "Last Updated"
)

// ErrorRecommendation is written to the record when a run fails.
const ErrorRecommendation = "Error - Review Manually"

// StatusUpdate is a partial patch of a company's record status.
type StatusUpdate struct {
	Stage            Stage
	DiligenceStatus  DiligenceStatus
	AIRecommendation string
	LastUpdated      time.Time
}

// Fields returns the patch keyed by record column name. AI Recommendation is
// left out when empty so earlier values are not cleared.
func (u StatusUpdate) Fields() map[string]any {
	f := map[string]any{
		FieldStage:           string(u.Stage),
		FieldDiligenceStatus: string(u.DiligenceStatus),
		FieldLastUpdated:     u.LastUpdated,
	}
	if u.AIRecommendation != "" {
		f[FieldAIRecommendation] = u.AIRecommendation
	}
	return f
}
