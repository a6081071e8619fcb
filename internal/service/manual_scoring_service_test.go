package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/models"
	"github.com/noah-isme/hire-go-api/internal/repository"
	"github.com/noah-isme/hire-go-api/pkg/events"
)

type scoringFixture struct {
	svc          ManualScoringService
	applications repository.ApplicationRepository
	activity     *memoryActivityRepo
	publisher    *recordingPublisher
	invalidator  *recordingInvalidator
	recruiter    models.User
	other        models.User
	application  models.Application
}

func newScoringFixture(t *testing.T) scoringFixture {
	t.Helper()
	db := newTestDB(t)
	applications := repository.NewApplicationRepository(db)

	f := scoringFixture{
		applications: applications,
		activity:     &memoryActivityRepo{},
		publisher:    &recordingPublisher{},
		invalidator:  &recordingInvalidator{},
		recruiter:    createUser(t, db, "owner@example.com", models.RoleRecruiter),
		other:        createUser(t, db, "other@example.com", models.RoleRecruiter),
	}
	job := createJob(t, db, "Backend Engineer")
	f.application = createApplication(t, db, createUser(t, db, "candidate@example.com", models.RoleCandidate), job, "", referenceNow)
	require.NoError(t, applications.AssignRecruiter(context.Background(), []uint{f.application.ID}, f.recruiter.ID, referenceNow))

	f.svc = NewManualScoringService(applications, testValidator(), NewActivityService(f.activity, testLogger()), f.publisher, f.invalidator, testLogger())
	return f
}

func TestManualScoringServiceStoresScoreAndNotes(t *testing.T) {
	f := newScoringFixture(t)
	actor := ActivityActor{ID: f.recruiter.ID, Role: models.RoleRecruiter}

	response, err := f.svc.Score(context.Background(), f.application.ID, dto.ManualScoreRequest{Score: ptrInt(85), Notes: "Strong candidate"}, actor)
	require.NoError(t, err)
	require.Equal(t, 85, *response.ManualScore)
	require.Equal(t, "Strong candidate", response.ScoreNotes)
	require.NotNil(t, response.ScoredAt)

	stored, err := f.applications.GetByID(context.Background(), f.application.ID)
	require.NoError(t, err)
	require.Equal(t, 85, *stored.ManualScore)
	require.Equal(t, "Strong candidate", stored.ScoreNotes)

	require.Equal(t, []uint{f.application.JobID}, f.invalidator.calls())
	require.Equal(t, []string{ActionApplicationScored}, f.activity.actions())
	require.Len(t, f.publisher.events, 1)
	require.Equal(t, events.ApplicationScored, f.publisher.events[0].eventType)
	require.Equal(t, 85, f.publisher.events[0].data.(ScoreEvent).ManualScore)
}

func TestManualScoringServiceLastWriteWins(t *testing.T) {
	f := newScoringFixture(t)
	actor := ActivityActor{ID: f.recruiter.ID, Role: models.RoleRecruiter}

	_, err := f.svc.Score(context.Background(), f.application.ID, dto.ManualScoreRequest{Score: ptrInt(40), Notes: "first pass"}, actor)
	require.NoError(t, err)
	_, err = f.svc.Score(context.Background(), f.application.ID, dto.ManualScoreRequest{Score: ptrInt(0)}, actor)
	require.NoError(t, err)

	stored, err := f.applications.GetByID(context.Background(), f.application.ID)
	require.NoError(t, err)
	require.Equal(t, 0, *stored.ManualScore)
	require.Empty(t, stored.ScoreNotes)
	require.Equal(t, 40, f.activity.entries[1].Metadata["previous_score"])
}

func TestManualScoringServiceSanitizesNotes(t *testing.T) {
	f := newScoringFixture(t)

	response, err := f.svc.Score(context.Background(), f.application.ID, dto.ManualScoreRequest{
		Score: ptrInt(70),
		Notes: `<b>Solid</b> Go & SQL <script>alert("x")</script>`,
	}, ActivityActor{ID: f.recruiter.ID})
	require.NoError(t, err)
	require.NotContains(t, response.ScoreNotes, "<")
	require.Contains(t, response.ScoreNotes, "Solid Go & SQL")
}

func TestManualScoringServiceRejectsNonAssignedRecruiter(t *testing.T) {
	f := newScoringFixture(t)

	_, err := f.svc.Score(context.Background(), f.application.ID, dto.ManualScoreRequest{Score: ptrInt(50)}, ActivityActor{ID: f.other.ID, Role: models.RoleRecruiter})
	require.ErrorIs(t, err, ErrNotAssignedRecruiter)

	stored, err := f.applications.GetByID(context.Background(), f.application.ID)
	require.NoError(t, err)
	require.Nil(t, stored.ManualScore)
	require.Empty(t, f.publisher.events)
}

func TestManualScoringServiceUnknownApplication(t *testing.T) {
	f := newScoringFixture(t)

	_, err := f.svc.Score(context.Background(), 9999, dto.ManualScoreRequest{Score: ptrInt(50)}, ActivityActor{ID: f.recruiter.ID})
	require.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestManualScoringServiceValidatesRange(t *testing.T) {
	f := newScoringFixture(t)
	actor := ActivityActor{ID: f.recruiter.ID}

	for _, payload := range []dto.ManualScoreRequest{
		{Score: ptrInt(101)},
		{Score: ptrInt(-5)},
		{},
	} {
		_, err := f.svc.Score(context.Background(), f.application.ID, payload, actor)
		var validationErrors validator.ValidationErrors
		require.True(t, errors.As(err, &validationErrors))
	}
}

func TestManualScoringFeedsFinalResults(t *testing.T) {
	f := newScoringFixture(t)
	final := NewFinalResultsService(f.applications, testEngine(), DefaultScoreWeights(), 3, nil, time.Minute, testLogger())

	before, err := final.FinalTop(context.Background(), f.application.JobID)
	require.NoError(t, err)
	require.Empty(t, before)

	_, err = f.svc.Score(context.Background(), f.application.ID, dto.ManualScoreRequest{Score: ptrInt(85), Notes: "Strong candidate"}, ActivityActor{ID: f.recruiter.ID})
	require.NoError(t, err)

	after, err := final.FinalTop(context.Background(), f.application.JobID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, 85, *after[0].ManualScore)
}
