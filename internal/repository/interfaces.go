package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/ideabox-api/internal/model"
)

// All repository interfaces in one file
type (
	// PrincipalRepository stores admins, reviewers and employees.
	PrincipalRepository interface {
		Create(ctx context.Context, p *model.Principal) error
		Get(ctx context.Context, id string) (*model.Principal, error)
		GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.Principal, error)
		GetByEmail(ctx context.Context, email string) (*model.Principal, error)
		Update(ctx context.Context, p *model.Principal) error
		SetActive(ctx context.Context, id string, active bool) error
		DeactivateByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.Principal, error)
		UpdateCredits(ctx context.Context, id string, points int) (*model.Principal, error)
		// List returns a page of principals and the unpaged total. A zero
		// limit returns every match.
		List(ctx context.Context, q model.PrincipalQuery) ([]*model.Principal, int64, error)
		ListActiveByRoles(ctx context.Context, roles ...model.Role) ([]*model.Principal, error)
		Departments(ctx context.Context) ([]string, error)
		// Upsert creates or updates the principal keyed by employee number.
		// Id, credit points, active flag and creation time are only set on
		// insert.
		Upsert(ctx context.Context, p *model.Principal) (*model.Principal, error)
	}

	// IdeaRepository stores ideas. Inactive ideas are invisible to every
	// read except SetActive.
	IdeaRepository interface {
		Create(ctx context.Context, idea *model.Idea) error
		Get(ctx context.Context, id string) (*model.Idea, error)
		List(ctx context.Context, q model.IdeaQuery) ([]*model.Idea, int64, error)
		Count(ctx context.Context, q model.IdeaQuery) (int64, error)
		Departments(ctx context.Context) ([]string, error)
		UpdateReview(ctx context.Context, id string, u model.ReviewUpdate) (*model.Idea, error)
		AssignReviewer(ctx context.Context, id, reviewer string) (*model.Idea, error)
		SetActive(ctx context.Context, id string, active bool) error
		StatusDistribution(ctx context.Context) ([]model.CountBucket, error)
		DepartmentDistribution(ctx context.Context) ([]model.CountBucket, error)
		MonthlyTrends(ctx context.Context, since time.Time) ([]model.MonthlyCount, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		// ListForRecipient returns newest first.
		ListForRecipient(ctx context.Context, employeeNumber string) ([]*model.Notification, error)
		MarkRead(ctx context.Context, id, employeeNumber string) (*model.Notification, error)
		MarkAllRead(ctx context.Context, employeeNumber string) (int64, error)
	}

	// RevocationStore remembers logged-out token ids until they expire.
	RevocationStore interface {
		Revoke(ctx context.Context, jti string, ttl time.Duration) error
		IsRevoked(ctx context.Context, jti string) (bool, error)
	}

	// Pinger is implemented by backends that can report liveness.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Store bundles the repositories of one storage backend.
type Store struct {
	Principals    PrincipalRepository
	Ideas         IdeaRepository
	Notifications NotificationRepository
	Pinger        Pinger
	Close         func(ctx context.Context) error
}
