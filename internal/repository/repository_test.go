package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Job{}, &models.Application{}, &models.ActivityLog{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedJobWithApplicants(t *testing.T, db *gorm.DB, applicants int) (models.Job, []models.Application) {
	t.Helper()
	job := models.Job{Title: "Data Engineer", Company: "Acme", ContractType: models.ContractCDI, ExperienceLevel: models.ExperienceSenior, Skills: []string{"Go", "SQL"}, IsActive: true}
	require.NoError(t, db.Create(&job).Error)

	base := time.Now().Add(-time.Duration(applicants) * time.Hour)
	applications := make([]models.Application, 0, applicants)
	for i := 0; i < applicants; i++ {
		user := models.User{Email: fmt.Sprintf("candidate%d@example.com", i), Role: models.RoleCandidate, FirstName: fmt.Sprintf("C%d", i)}
		require.NoError(t, db.Create(&user).Error)
		application := models.Application{UserID: user.ID, JobID: job.ID, Status: models.ApplicationStatusPending, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, db.Create(&application).Error)
		applications = append(applications, application)
	}
	return job, applications
}

func TestApplicationRepositoryListByJobPreloadsAndOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	job, seeded := seedJobWithApplicants(t, db, 3)
	other := seedOtherJob(t, db)

	items, err := repo.List(context.Background(), ApplicationFilter{JobID: &job.ID})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, seeded[0].ID, items[0].ID, "oldest application first")
	require.Equal(t, "C0", items[0].User.FirstName)
	require.Equal(t, "Data Engineer", items[0].Job.Title)
	require.Equal(t, []string{"Go", "SQL"}, []string(items[0].Job.Skills))

	none, err := repo.List(context.Background(), ApplicationFilter{JobID: &other.ID, Status: models.ApplicationStatusAccepted})
	require.NoError(t, err)
	require.Empty(t, none)
}

func seedOtherJob(t *testing.T, db *gorm.DB) models.Job {
	t.Helper()
	job := models.Job{Title: "Designer", Company: "Acme", ContractType: models.ContractCDD, ExperienceLevel: models.ExperienceJunior, IsActive: true}
	require.NoError(t, db.Create(&job).Error)
	return job
}

func TestApplicationRepositoryAssignRecruiterIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	_, seeded := seedJobWithApplicants(t, db, 2)
	recruiter := models.User{Email: "rh@example.com", Role: models.RoleRecruiter}
	require.NoError(t, db.Create(&recruiter).Error)

	err := repo.AssignRecruiter(context.Background(), []uint{seeded[0].ID, 9999}, recruiter.ID, time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	stored, err := repo.GetByID(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	require.Nil(t, stored.AssignedRecruiterID)

	require.NoError(t, repo.AssignRecruiter(context.Background(), []uint{seeded[0].ID, seeded[1].ID}, recruiter.ID, time.Now()))

	assigned, err := repo.List(context.Background(), ApplicationFilter{RecruiterID: &recruiter.ID})
	require.NoError(t, err)
	require.Len(t, assigned, 2)
	for _, application := range assigned {
		require.True(t, application.IsAssignedTo(recruiter.ID))
		require.NotNil(t, application.AssignedAt)
	}
}

func TestApplicationRepositoryScoresRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	job, seeded := seedJobWithApplicants(t, db, 2)

	require.NoError(t, repo.UpdateAutoScores(context.Background(), map[uint]int{seeded[0].ID: 72, seeded[1].ID: 40}))
	require.NoError(t, repo.UpdateManualScore(context.Background(), seeded[0].ID, 85, "Strong candidate", time.Now()))

	stored, err := repo.GetByID(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	require.Equal(t, 72, *stored.AutoScore)
	require.Equal(t, 85, *stored.ManualScore)
	require.Equal(t, "Strong candidate", stored.ScoreNotes)

	require.NoError(t, repo.UpdateManualScore(context.Background(), seeded[0].ID, 60, "", time.Now()))
	stored, err = repo.GetByID(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	require.Equal(t, 60, *stored.ManualScore, "resubmission overwrites")

	scored, err := repo.List(context.Background(), ApplicationFilter{JobID: &job.ID, ScoredOnly: true})
	require.NoError(t, err)
	require.Len(t, scored, 1)
	require.Equal(t, seeded[0].ID, scored[0].ID)

	require.ErrorIs(t, repo.UpdateManualScore(context.Background(), 4242, 10, "", time.Now()), gorm.ErrRecordNotFound)
}

func TestApplicationRepositoryExistsAndStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	job, seeded := seedJobWithApplicants(t, db, 1)

	exists, err := repo.ExistsForUserAndJob(context.Background(), seeded[0].UserID, job.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsForUserAndJob(context.Background(), seeded[0].UserID, job.ID+1)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, repo.UpdateStatus(context.Background(), seeded[0].ID, models.ApplicationStatusInterview))
	stored, err := repo.GetByID(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusInterview, stored.Status)
	require.ErrorIs(t, repo.UpdateStatus(context.Background(), 777, models.ApplicationStatusInterview), gorm.ErrRecordNotFound)
}

func TestJobRepositoryListActiveOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db)

	open := models.Job{Title: "Go Developer", Company: "Acme", ContractType: models.ContractCDI, ExperienceLevel: models.ExperienceSenior, IsActive: true}
	closed := models.Job{Title: "PHP Developer", Company: "Legacy", ContractType: models.ContractCDD, ExperienceLevel: models.ExperienceJunior, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), &open))
	require.NoError(t, repo.Create(context.Background(), &closed))
	closed.IsActive = false
	require.NoError(t, repo.Update(context.Background(), &closed))

	jobs, err := repo.List(context.Background(), JobFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, "Go Developer", jobs[0].Title)

	searched, err := repo.List(context.Background(), JobFilter{Search: "legacy"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	require.Equal(t, "PHP Developer", searched[0].Title)
}

func TestUserRepositoryListByRoles(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	for _, user := range []models.User{
		{Email: "a@example.com", Role: models.RoleCandidate, LastName: "A"},
		{Email: "b@example.com", Role: models.RoleRecruiter, LastName: "B"},
		{Email: "c@example.com", Role: models.RoleHR, LastName: "C"},
	} {
		u := user
		require.NoError(t, repo.Create(context.Background(), &u))
	}

	reviewers, err := repo.ListByRoles(context.Background(), []string{models.RoleRecruiter, models.RoleHR, models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, reviewers, 2)
	require.Equal(t, "b@example.com", reviewers[0].Email)
}

func TestActivityLogRepositoryListPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)

	entity := uint(5)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &models.ActivityLog{ActorID: 1, ActorRole: "admin", Action: "candidates.assigned", EntityType: "application", EntityID: &entity}))
	}
	require.NoError(t, repo.Create(context.Background(), &models.ActivityLog{ActorID: 2, ActorRole: "recruiter", Action: "application.scored", EntityType: "application"}))

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{Action: "candidates.assigned", Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, entries, 1)

	byEntity, total, err := repo.List(context.Background(), ActivityLogFilter{EntityID: &entity})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, byEntity, 3)
}
