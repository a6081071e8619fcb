package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/models"
	"github.com/noah-isme/hire-go-api/internal/repository"
)

func newApplicationService(db *gorm.DB, activity ActivityRecorder, results ResultsInvalidator) ApplicationService {
	return NewApplicationService(
		repository.NewApplicationRepository(db),
		repository.NewJobRepository(db),
		repository.NewUserRepository(db),
		testEngine(),
		testValidator(),
		activity,
		results,
		testLogger(),
	)
}

func TestApplicationServiceApplyScoresSubmission(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	candidate := createUser(t, db, "jane@example.com", models.RoleCandidate, "Go", "Docker")
	invalidator := &recordingInvalidator{}
	svc := newApplicationService(db, nil, invalidator)

	response, err := svc.Apply(context.Background(), candidate.ID, dto.ApplicationCreateRequest{
		JobID:             job.ID,
		CoverLetter:       "<script>alert(1)</script>I run PostgreSQL & Kubernetes clusters in production every day.",
		CVPath:            "/uploads/cv/jane.pdf",
		AvailabilityDate:  "2024-03-01",
		SalaryExpectation: "50k",
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusPending, response.Status)
	require.NotContains(t, response.CoverLetter, "<script>")
	require.Contains(t, response.CoverLetter, "PostgreSQL & Kubernetes")
	require.NotNil(t, response.AvailabilityDate)
	require.NotNil(t, response.AutoScore)
	// experience 25, skills 30, availability 15, salary 15, quality 3+5
	require.Equal(t, 93, *response.AutoScore)
	require.Equal(t, []uint{job.ID}, invalidator.calls())

	mine, err := svc.ListMine(context.Background(), candidate.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Backend Engineer", mine[0].Job.Title)
}

// staleApplications answers the duplicate check as a concurrent request would have seen it.
type staleApplications struct {
	repository.ApplicationRepository
}

func (staleApplications) ExistsForUserAndJob(context.Context, uint, uint) (bool, error) {
	return false, nil
}

func TestApplicationServiceApplyMapsConcurrentDuplicate(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	candidate := createUser(t, db, "jane@example.com", models.RoleCandidate)
	require.NoError(t, db.Create(&models.Application{UserID: candidate.ID, JobID: job.ID, Status: models.ApplicationStatusPending}).Error)

	svc := NewApplicationService(
		staleApplications{repository.NewApplicationRepository(db)},
		repository.NewJobRepository(db),
		repository.NewUserRepository(db),
		testEngine(),
		testValidator(),
		nil,
		nil,
		testLogger(),
	)

	_, err := svc.Apply(context.Background(), candidate.ID, dto.ApplicationCreateRequest{JobID: job.ID})
	require.ErrorIs(t, err, ErrDuplicateApplication)

	var count int64
	require.NoError(t, db.Model(&models.Application{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestApplicationServiceApplyGuards(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	closed := createJob(t, db, "Legacy Maintainer")
	require.NoError(t, db.Model(&closed).Update("is_active", false).Error)
	candidate := createUser(t, db, "jane@example.com", models.RoleCandidate)
	svc := newApplicationService(db, nil, nil)

	_, err := svc.Apply(context.Background(), candidate.ID, dto.ApplicationCreateRequest{JobID: job.ID})
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), candidate.ID, dto.ApplicationCreateRequest{JobID: job.ID})
	require.ErrorIs(t, err, ErrDuplicateApplication)

	_, err = svc.Apply(context.Background(), candidate.ID, dto.ApplicationCreateRequest{JobID: closed.ID})
	require.ErrorIs(t, err, ErrJobClosed)

	_, err = svc.Apply(context.Background(), candidate.ID, dto.ApplicationCreateRequest{JobID: 9999})
	require.ErrorIs(t, err, ErrJobNotFound)

	_, err = svc.Apply(context.Background(), 9999, dto.ApplicationCreateRequest{JobID: job.ID})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Apply(context.Background(), candidate.ID, dto.ApplicationCreateRequest{JobID: closed.ID, AvailabilityDate: "next monday"})
	require.ErrorIs(t, err, ErrInvalidAvailabilityDate)
}

func TestApplicationServiceUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	application := createApplication(t, db, createUser(t, db, "jane@example.com", models.RoleCandidate), job, "", referenceNow)
	activity := &memoryActivityRepo{}
	invalidator := &recordingInvalidator{}
	svc := newApplicationService(db, NewActivityService(activity, testLogger()), invalidator)
	actor := ActivityActor{ID: 1, Role: models.RoleHR}

	response, err := svc.UpdateStatus(context.Background(), application.ID, dto.ApplicationStatusUpdateRequest{Status: models.ApplicationStatusInterview}, actor)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusInterview, response.Status)
	require.Equal(t, []string{ActionApplicationStatus}, activity.actions())
	require.Equal(t, []uint{job.ID}, invalidator.calls())

	_, err = svc.UpdateStatus(context.Background(), application.ID, dto.ApplicationStatusUpdateRequest{Status: "hired"}, actor)
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), 777, dto.ApplicationStatusUpdateRequest{Status: models.ApplicationStatusRejected}, actor)
	require.ErrorIs(t, err, ErrApplicationNotFound)

	listed, err := svc.List(context.Background(), dto.ApplicationListRequest{JobID: job.ID, Status: models.ApplicationStatusInterview})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = svc.List(context.Background(), dto.ApplicationListRequest{Status: "unknown"})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseAvailabilityDate(t *testing.T) {
	parsed, err := parseAvailabilityDate("")
	require.NoError(t, err)
	require.Nil(t, parsed)

	parsed, err = parseAvailabilityDate("2024-04-15T08:00:00+02:00")
	require.NoError(t, err)
	require.Equal(t, 6, parsed.Hour())

	_, err = parseAvailabilityDate(strings.Repeat("9", 8))
	require.ErrorIs(t, err, ErrInvalidAvailabilityDate)
}
