package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/models"
	"github.com/noah-isme/hire-go-api/internal/scoring"
)

var referenceNow = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func testEngine() *scoring.Engine {
	return scoring.NewEngineAt(func() time.Time { return referenceNow })
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Job{}, &models.Application{}, &models.ActivityLog{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, role string, skills ...string) models.User {
	t.Helper()
	user := models.User{
		Email:           email,
		Role:            role,
		FirstName:       strings.Split(email, "@")[0],
		ExperienceLevel: models.ExperienceSenior,
		Skills:          skills,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createJob(t *testing.T, db *gorm.DB, title string) models.Job {
	t.Helper()
	job := models.Job{
		Title:           title,
		Company:         "Acme",
		Salary:          "45-55k€",
		ContractType:    models.ContractCDI,
		ExperienceLevel: models.ExperienceSenior,
		Skills:          []string{"Go", "PostgreSQL", "Docker", "Kubernetes"},
		IsActive:        true,
	}
	require.NoError(t, db.Create(&job).Error)
	return job
}

func createApplication(t *testing.T, db *gorm.DB, user models.User, job models.Job, coverLetter string, createdAt time.Time) models.Application {
	t.Helper()
	application := models.Application{
		UserID:      user.ID,
		JobID:       job.ID,
		Status:      models.ApplicationStatusPending,
		CoverLetter: coverLetter,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&application).Error)
	return application
}

func ptrUint(v uint) *uint {
	return &v
}

func ptrInt(v int) *int {
	return &v
}

type recordingInvalidator struct {
	mu   sync.Mutex
	jobs []uint
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, jobID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, jobID)
}

func (r *recordingInvalidator) calls() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint(nil), r.jobs...)
}

type publishedEvent struct {
	eventType string
	data      interface{}
}

type recordingPublisher struct {
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{eventType: eventType, data: data})
	return nil
}
