package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"

	"github.com/spec-kit/hr-service/internal/domain"
)

const transitionQuery = `
        UPDATE performance_reviews
        SET status=$1, feedback=$2, approved_by_id=$3, scheduled_at=$4, updated_at=NOW()
        WHERE id=$5 AND status = ANY($6)
        RETURNING updated_at`

func TestReviewTransitionGuardHit(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	updatedAt := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(transitionQuery)).
		WithArgs(domain.ReviewStatusScheduled, (*string)(nil), (*string)(nil), (*time.Time)(nil),
			"review-1", []string{"PENDING"}).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(updatedAt))

	review := &domain.PerformanceReview{ID: "review-1", Status: domain.ReviewStatusScheduled}
	applied, err := repo.Transition(context.Background(), review, []domain.ReviewStatus{domain.ReviewStatusPending})
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if !applied {
		t.Fatal("expected transition to apply")
	}
	if !review.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("updated_at = %v, want %v", review.UpdatedAt, updatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewTransitionGuardMiss(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(transitionQuery)).
		WithArgs(domain.ReviewStatusApproved, (*string)(nil), (*string)(nil), (*time.Time)(nil),
			"review-1", []string{"UNDER_APPROVAL"}).
		WillReturnError(pgx.ErrNoRows)

	review := &domain.PerformanceReview{ID: "review-1", Status: domain.ReviewStatusApproved}
	applied, err := repo.Transition(context.Background(), review, []domain.ReviewStatus{domain.ReviewStatusUnderApproval})
	if err != nil {
		t.Fatalf("guard miss should not be an error, got %v", err)
	}
	if applied {
		t.Fatal("expected transition not to apply")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewTransitionPropagatesErrors(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(transitionQuery)).
		WithArgs(domain.ReviewStatusScheduled, (*string)(nil), (*string)(nil), (*time.Time)(nil),
			"review-1", []string{"PENDING"}).
		WillReturnError(boom)

	review := &domain.PerformanceReview{ID: "review-1", Status: domain.ReviewStatusScheduled}
	_, err = repo.Transition(context.Background(), review, []domain.ReviewStatus{domain.ReviewStatusPending})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
}

func TestReviewGetByIDExpandsRefs(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	now := time.Now().UTC()
	assignerID := "hr-1"
	assignerEmail := "hr@corp.test"
	columns := []string{
		"id", "employee_id", "assigner_id", "approved_by_id",
		"scheduled_at", "feedback", "status", "created_at", "updated_at",
		"employee_email", "assigner_email", "approver_email",
	}
	mock.ExpectQuery(`(?s)SELECT .+ FROM performance_reviews r`).
		WithArgs("review-1").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			"review-1", "emp-1", &assignerID, (*string)(nil),
			(*time.Time)(nil), (*string)(nil), domain.ReviewStatusPending, now, now,
			"emp@corp.test", &assignerEmail, (*string)(nil),
		))

	review, err := repo.GetByID(context.Background(), "review-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if review.Employee == nil || review.Employee.Email != "emp@corp.test" {
		t.Fatalf("employee ref = %+v, want email expansion", review.Employee)
	}
	if review.Assigner == nil || review.Assigner.ID != assignerID {
		t.Fatalf("assigner ref = %+v, want %s", review.Assigner, assignerID)
	}
	if review.ApprovedBy != nil {
		t.Fatalf("approved_by ref = %+v, want nil", review.ApprovedBy)
	}
}
