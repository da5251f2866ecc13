package model

import (
	"time"
)

// IdeaStatus is the workflow state of an idea.
type IdeaStatus string

const (
	StatusUnderReview IdeaStatus = "under_review"
	StatusOngoing     IdeaStatus = "ongoing"
	StatusApproved    IdeaStatus = "approved"
	StatusImplemented IdeaStatus = "implemented"
	StatusRejected    IdeaStatus = "rejected"
)

var IdeaStatuses = []IdeaStatus{StatusUnderReview, StatusOngoing, StatusApproved, StatusImplemented, StatusRejected}

func (s IdeaStatus) Valid() bool {
	for _, v := range IdeaStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority of an idea or notification.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

type Attachment struct {
	Filename     string `json:"filename" bson:"filename"`
	OriginalName string `json:"originalName" bson:"originalName"`
	Size         int64  `json:"size" bson:"size"`
}

// Idea is an employee-submitted improvement suggestion.
type Idea struct {
	ID                        string       `json:"id" bson:"_id"`
	Title                     string       `json:"title" bson:"title"`
	Problem                   string       `json:"problem" bson:"problem"`
	Improvement               string       `json:"improvement" bson:"improvement"`
	Benefit                   string       `json:"benefit" bson:"benefit"`
	EstimatedSavings          float64      `json:"estimatedSavings" bson:"estimatedSavings"`
	Department                string       `json:"department" bson:"department"`
	SubmittedByEmployeeNumber string       `json:"submittedByEmployeeNumber" bson:"submittedByEmployeeNumber"`
	SubmittedByName           string       `json:"submittedByName" bson:"submittedByName"`
	Status                    IdeaStatus   `json:"status" bson:"status"`
	Priority                  Priority     `json:"priority" bson:"priority"`
	ReviewedBy                string       `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	AssignedReviewer          string       `json:"assignedReviewer" bson:"assignedReviewer"`
	ReviewComments            string       `json:"reviewComments,omitempty" bson:"reviewComments,omitempty"`
	ReviewedAt                *time.Time   `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	Attachments               []Attachment `json:"attachments" bson:"attachments"`
	Tags                      []string     `json:"tags" bson:"tags"`
	IsActive                  bool         `json:"isActive" bson:"isActive"`
	CreatedAt                 time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt                 time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// IdeaFilter is the raw query string of an idea listing or export.
type IdeaFilter struct {
	Status     string
	Department string
	Priority   string
	Search     string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// IdeaQuery is the resolved, role-scoped query handed to the store. Empty
// string fields do not constrain the result; MatchNone matches no idea.
type IdeaQuery struct {
	MatchNone        bool
	Status           IdeaStatus
	Department       string
	Priority         Priority
	AssignedReviewer string
	SubmittedBy      string
	Search           string
	Pagination       Pagination
	Sort             SortOrder
}

// IdeaSortFields are the accepted sortBy values.
var IdeaSortFields = map[string]bool{
	"createdAt":        true,
	"updatedAt":        true,
	"title":            true,
	"status":           true,
	"priority":         true,
	"department":       true,
	"estimatedSavings": true,
	"submittedByName":  true,
	"reviewedAt":       true,
}

// ReviewUpdate is the change applied by a status transition.
type ReviewUpdate struct {
	Status         IdeaStatus
	ReviewedBy     string
	ReviewedAt     time.Time
	ReviewComments string
	Priority       Priority
}

type SubmitIdeaRequest struct {
	Title            string       `json:"title" binding:"required"`
	Problem          string       `json:"problem" binding:"required"`
	Improvement      string       `json:"improvement" binding:"required"`
	Benefit          string       `json:"benefit" binding:"required"`
	EstimatedSavings float64      `json:"estimatedSavings" binding:"min=0"`
	Department       string       `json:"department"`
	Priority         Priority     `json:"priority" binding:"omitempty,priority"`
	Tags             []string     `json:"tags"`
	Attachments      []Attachment `json:"attachments"`
}

type UpdateStatusRequest struct {
	Status         IdeaStatus `json:"status" binding:"required,ideastatus"`
	ReviewComments string     `json:"reviewComments"`
	Priority       Priority   `json:"priority" binding:"omitempty,priority"`
}

type AssignReviewerRequest struct {
	AssignedReviewer string `json:"assignedReviewer"`
}

// IdeaPage is an idea listing page.
type IdeaPage struct {
	Ideas       []*Idea      `json:"ideas"`
	Total       int64        `json:"total"`
	Departments []string     `json:"departments"`
	Statuses    []IdeaStatus `json:"statuses"`
	Priorities  []Priority   `json:"priorities"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
}

// CountBucket is one group of an aggregation keyed by a single value.
type CountBucket struct {
	ID    string `json:"_id" bson:"_id" db:"key"`
	Count int64  `json:"count" bson:"count" db:"count"`
}

type YearMonth struct {
	Year  int `json:"year" bson:"year" db:"year"`
	Month int `json:"month" bson:"month" db:"month"`
}

type MonthlyCount struct {
	ID    YearMonth `json:"_id" bson:"_id"`
	Count int64     `json:"count" bson:"count"`
}

type DashboardStats struct {
	TotalIdeas         int64          `json:"totalIdeas"`
	UnderReview        int64          `json:"underReview"`
	Approved           int64          `json:"approved"`
	Implemented        int64          `json:"implemented"`
	Rejected           int64          `json:"rejected"`
	Ongoing            int64          `json:"ongoing"`
	StatusDistribution []CountBucket  `json:"statusDistribution"`
	DepartmentStats    []CountBucket  `json:"departmentStats"`
	MonthlyTrends      []MonthlyCount `json:"monthlyTrends"`
}
