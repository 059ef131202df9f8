package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/domain"
)

// ReviewFilter captures listing parameters for reviews.
type ReviewFilter struct {
	EmployeeID *string
	Statuses   []domain.ReviewStatus
}

// ReviewRepository encapsulates performance review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.PerformanceReview) error
	GetByID(ctx context.Context, id string) (*domain.PerformanceReview, error)
	List(ctx context.Context, filter ReviewFilter) ([]domain.PerformanceReview, error)
	// Transition writes the review's mutable fields guarded on the stored
	// status still being one of allowedFrom (atomic compare-and-set). It
	// returns false when no row matched the guard, which for an existing
	// review means a concurrent transition won the race.
	Transition(ctx context.Context, review *domain.PerformanceReview, allowedFrom []domain.ReviewStatus) (bool, error)
}

type reviewRepository struct {
	db Queryer
}

// NewReviewRepository instantiates the repository.
func NewReviewRepository(db Queryer) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `r.id, r.employee_id, r.assigner_id, r.approved_by_id,
               r.scheduled_at, r.feedback, r.status, r.created_at, r.updated_at,
               emp.email, asg.email, apr.email`

const reviewJoins = `
        FROM performance_reviews r
        JOIN users emp ON emp.id = r.employee_id
        LEFT JOIN users asg ON asg.id = r.assigner_id
        LEFT JOIN users apr ON apr.id = r.approved_by_id`

func (r *reviewRepository) Create(ctx context.Context, review *domain.PerformanceReview) error {
	const query = `
        INSERT INTO performance_reviews (employee_id, assigner_id, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		review.EmployeeID,
		review.AssignerID,
		review.Status,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.PerformanceReview, error) {
	query := `SELECT ` + reviewColumns + reviewJoins + ` WHERE r.id=$1`
	row := r.db.QueryRow(ctx, query, id)
	return scanReview(row)
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]domain.PerformanceReview, error) {
	query := `SELECT ` + reviewColumns + reviewJoins
	clauses := []string{"1=1"}
	args := []any{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("r.employee_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		clauses = append(clauses, fmt.Sprintf("r.status = ANY($%d)", len(args)))
	}

	query = fmt.Sprintf("%s WHERE %s ORDER BY r.created_at", query, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PerformanceReview
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *review)
	}
	return result, rows.Err()
}

func (r *reviewRepository) Transition(ctx context.Context, review *domain.PerformanceReview, allowedFrom []domain.ReviewStatus) (bool, error) {
	const query = `
        UPDATE performance_reviews
        SET status=$1, feedback=$2, approved_by_id=$3, scheduled_at=$4, updated_at=NOW()
        WHERE id=$5 AND status = ANY($6)
        RETURNING updated_at`

	from := make([]string, 0, len(allowedFrom))
	for _, s := range allowedFrom {
		from = append(from, string(s))
	}

	err := r.db.QueryRow(ctx, query,
		review.Status,
		review.Feedback,
		review.ApprovedByID,
		review.ScheduledAt,
		review.ID,
		from,
	).Scan(&review.UpdatedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanReview(row pgx.Row) (*domain.PerformanceReview, error) {
	var (
		review        domain.PerformanceReview
		employeeEmail string
		assignerEmail *string
		approverEmail *string
	)
	if err := row.Scan(
		&review.ID,
		&review.EmployeeID,
		&review.AssignerID,
		&review.ApprovedByID,
		&review.ScheduledAt,
		&review.Feedback,
		&review.Status,
		&review.CreatedAt,
		&review.UpdatedAt,
		&employeeEmail,
		&assignerEmail,
		&approverEmail,
	); err != nil {
		return nil, err
	}

	review.Employee = &domain.UserRef{ID: review.EmployeeID, Email: employeeEmail}
	if review.AssignerID != nil && assignerEmail != nil {
		review.Assigner = &domain.UserRef{ID: *review.AssignerID, Email: *assignerEmail}
	}
	if review.ApprovedByID != nil && approverEmail != nil {
		review.ApprovedBy = &domain.UserRef{ID: *review.ApprovedByID, Email: *approverEmail}
	}
	return &review, nil
}
