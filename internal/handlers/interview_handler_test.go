package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gabeliss/kandidly/internal/lifecycle"
	"github.com/gabeliss/kandidly/internal/middleware"
	"github.com/gabeliss/kandidly/internal/models"
	"github.com/gabeliss/kandidly/internal/repositories"
	"github.com/gabeliss/kandidly/internal/testhelpers"
)

type recordingMailer struct {
	to      string
	subject string
	body    string
	err     error
	calls   int
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.calls++
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

type stubAnalyzer struct {
	eval *models.Evaluation
	err  error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ *models.Challenge, _, _ string) (*models.Evaluation, error) {
	return s.eval, s.err
}

type interviewFixture struct {
	router        *chi.Mux
	interviewRepo *repositories.InterviewRepository
	challengeRepo *repositories.ChallengeRepository
	machine       *lifecycle.Machine
	clock         *settableClock
	mailer        *recordingMailer
	analyzer      *stubAnalyzer
}

func newInterviewFixture(t *testing.T) *interviewFixture {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	interviewRepo := &repositories.InterviewRepository{DB: db}
	challengeRepo := &repositories.ChallengeRepository{DB: db}
	clock := &settableClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	machine := lifecycle.NewMachine(interviewRepo, challengeRepo, clock, 7*24*time.Hour, zap.NewNop())

	analyzer := &stubAnalyzer{}
	evaluator := lifecycle.NewEvaluator(machine, challengeRepo, analyzer, zap.NewNop())
	mailer := &recordingMailer{}

	handler := NewInterviewHandler(interviewRepo, machine, evaluator, mailer,
		"http://localhost:8080", testLinkSecret, zap.NewNop())

	router := chi.NewRouter()
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/", handler.CreateHandler)
		r.Get("/", handler.ListHandler)
		r.Get("/stats", handler.StatsHandler)
		r.Get("/{id}", handler.GetHandler)
		r.Delete("/{id}", handler.DeleteHandler)
		r.Post("/{id}/send", handler.SendHandler)
		r.Post("/{id}/analyze", handler.AnalyzeHandler)
		r.With(middleware.ValidateRequest[*models.CompleteEvaluationRequest]()).Post("/{id}/evaluation", handler.CompleteEvaluationHandler)
		r.Post("/{id}/analysis-failed", handler.AnalysisFailedHandler)
	})

	return &interviewFixture{
		router:        router,
		interviewRepo: interviewRepo,
		challengeRepo: challengeRepo,
		machine:       machine,
		clock:         clock,
		mailer:        mailer,
		analyzer:      analyzer,
	}
}

func (f *interviewFixture) seedChallenge(t *testing.T) *models.Challenge {
	t.Helper()
	c := &models.Challenge{
		ID:                "ch-1",
		Title:             "Build a URL shortener",
		Instructions:      "Clone the starter repo.",
		EstimatedDuration: 60,
	}
	require.NoError(t, f.challengeRepo.Create(c))
	return c
}

func (f *interviewFixture) doJSON(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(b)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *interviewFixture) createInterview(t *testing.T) *models.InterviewRecord {
	t.Helper()
	f.seedChallenge(t)
	rr := f.doJSON(t, "POST", "/api/v1/interviews/", models.CreateInterviewRequest{
		CandidateName:  "Ada Lovelace",
		CandidateEmail: "ada@example.com",
		Position:       "Backend Engineer",
		ChallengeID:    "ch-1",
		CompanyID:      "company-1",
		CreatedBy:      "user-1",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var rec models.InterviewRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	return &rec
}

func TestCreateInterview(t *testing.T) {
	f := newInterviewFixture(t)

	rec := f.createInterview(t)
	assert.Equal(t, models.StatusCreated, rec.Status)
	assert.NotEmpty(t, rec.ID)

	stored, err := f.interviewRepo.GetRecord(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", stored.CandidateEmail)
}

func TestCreateInterviewValidation(t *testing.T) {
	f := newInterviewFixture(t)

	rr := f.doJSON(t, "POST", "/api/v1/interviews/", models.CreateInterviewRequest{
		CandidateName: "No Email",
		Position:      "Engineer",
		ChallengeID:   "ch-1",
		CompanyID:     "company-1",
		CreatedBy:     "user-1",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "candidate_email")
}

func TestSendInterview(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/send", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.SendResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusSent, resp.Interview.Status)
	assert.True(t, resp.NotificationSent)
	assert.Contains(t, resp.ChallengeLink, "/take-challenge/"+rec.ID+"?token=")

	assert.Equal(t, 1, f.mailer.calls)
	assert.Equal(t, "ada@example.com", f.mailer.to)
	assert.Contains(t, f.mailer.body, resp.ChallengeLink)
}

func TestSendTwiceConflicts(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/send", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/send", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, 1, f.mailer.calls, "no email for a rejected transition")
}

func TestSendSurvivesMailerFailure(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)
	f.mailer.err = errors.New("smtp down")

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/send", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.SendResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.NotificationSent)
	assert.Equal(t, models.StatusSent, resp.Interview.Status, "transition is not rolled back by a failed email")
}

func TestSendMissingInterview(t *testing.T) {
	f := newInterviewFixture(t)

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+uuid.New().String()+"/send", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// moves a record to submitted directly through the machine
func (f *interviewFixture) submitInterview(t *testing.T, id string) {
	t.Helper()
	_, err := f.machine.Send(id)
	require.NoError(t, err)
	_, err = f.machine.Start(id)
	require.NoError(t, err)
	_, err = f.machine.Submit(id, "artifacts/a1/solution.zip", "notes")
	require.NoError(t, err)
}

func TestAnalyzeEndpoint(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)
	f.submitInterview(t, rec.ID)
	f.analyzer.eval = &models.Evaluation{
		AIAnalysis:     "well structured",
		Recommendation: models.RecommendationHire,
		OverallScore:   8,
	}

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/analyze", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated models.InterviewRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusEvaluated, updated.Status)
	require.NotNil(t, updated.Evaluation)
	assert.Equal(t, models.RecommendationHire, updated.Evaluation.Recommendation)
}

func TestAnalyzeFailureRevertsToSubmitted(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)
	f.submitInterview(t, rec.ID)
	f.analyzer.err = errors.New("provider unavailable")

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/analyze", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	stored, err := f.interviewRepo.GetRecord(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, stored.Status)
}

func TestAnalyzeUnavailableWithoutEvaluator(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)
	f.submitInterview(t, rec.ID)

	handler := NewInterviewHandler(f.interviewRepo, f.machine, nil, f.mailer,
		"http://localhost:8080", testLinkSecret, zap.NewNop())
	router := chi.NewRouter()
	router.Post("/api/v1/interviews/{id}/analyze", handler.AnalyzeHandler)

	req := httptest.NewRequest("POST", "/api/v1/interviews/"+rec.ID+"/analyze", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCompleteEvaluationEndpoint(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)
	f.submitInterview(t, rec.ID)
	_, err := f.machine.BeginAnalysis(rec.ID)
	require.NoError(t, err)

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/evaluation", models.CompleteEvaluationRequest{
		AIAnalysis:     "reviewed by hand",
		Recommendation: "strong_hire",
		OverallScore:   9,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var updated models.InterviewRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusEvaluated, updated.Status)
}

func TestCompleteEvaluationRejectsBadScore(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/evaluation", models.CompleteEvaluationRequest{
		AIAnalysis:     "x",
		Recommendation: "hire",
		OverallScore:   15,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalysisFailedEndpoint(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)
	f.submitInterview(t, rec.ID)
	_, err := f.machine.BeginAnalysis(rec.ID)
	require.NoError(t, err)

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/analysis-failed", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	stored, err := f.interviewRepo.GetRecord(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, stored.Status)
}

func TestAnalysisFailedFromWrongStateConflicts(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)

	rr := f.doJSON(t, "POST", "/api/v1/interviews/"+rec.ID+"/analysis-failed", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestListInterviews(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)
	_, err := f.machine.Send(rec.ID)
	require.NoError(t, err)

	rr := f.doJSON(t, "GET", "/api/v1/interviews/?company_id=company-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.InterviewListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.StatusCounts[models.StatusSent])

	// status filter
	rr = f.doJSON(t, "GET", "/api/v1/interviews/?company_id=company-1&status=created", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)

	// search filter
	rr = f.doJSON(t, "GET", "/api/v1/interviews/?company_id=company-1&search=ada", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestListRequiresCompanyID(t *testing.T) {
	f := newInterviewFixture(t)

	rr := f.doJSON(t, "GET", "/api/v1/interviews/", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.doJSON(t, "GET", "/api/v1/interviews/?company_id=company-1&status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatsEndpoint(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)
	f.submitInterview(t, rec.ID)
	_, err := f.machine.BeginAnalysis(rec.ID)
	require.NoError(t, err)
	_, err = f.machine.CompleteAnalysis(rec.ID, models.Evaluation{
		AIAnalysis:     "great",
		Recommendation: models.RecommendationHire,
		OverallScore:   8,
	})
	require.NoError(t, err)

	rr := f.doJSON(t, "GET", "/api/v1/interviews/stats?company_id=company-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats models.InterviewStatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.EvaluatedDone)
	assert.Equal(t, 8.0, stats.EvaluatedAvg)
}

func TestDeleteInterview(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)

	rr := f.doJSON(t, "DELETE", "/api/v1/interviews/"+rec.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.doJSON(t, "DELETE", "/api/v1/interviews/"+rec.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetInterviewIncludesInternalStatus(t *testing.T) {
	f := newInterviewFixture(t)
	rec := f.createInterview(t)

	rr := f.doJSON(t, "GET", "/api/v1/interviews/"+rec.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"created"`)
}
