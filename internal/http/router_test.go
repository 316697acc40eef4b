package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseline/internal/audit"
	complainthandler "caseline/internal/complaint/handler"
	complaintservice "caseline/internal/complaint/service"
	"caseline/internal/complaint/store/evidence"
	"caseline/internal/complaint/store/record"
	"caseline/internal/complaint/store/timeline"
	router "caseline/internal/http"
	identityhandler "caseline/internal/identity/handler"
	identityservice "caseline/internal/identity/service"
	identitystore "caseline/internal/identity/store"
	"caseline/internal/platform/metrics"
	"caseline/pkg/domain"
)

var testMetrics = metrics.New()

// RouterSuite drives the whole service over HTTP with in-memory stores:
// registration, login, filing, transitions and the filtered case view.
type RouterSuite struct {
	suite.Suite

	handler   http.Handler
	stationID domain.StationID

	victimToken  string
	officerToken string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	identitySvc := identityservice.New(identityservice.Config{
		Store:      identitystore.NewInMemory(),
		SigningKey: []byte("router-test-key"),
		TokenTTL:   time.Hour,
		Logger:     log,
	})
	complaintSvc := complaintservice.New(complaintservice.Config{
		Records:  record.NewInMemory(),
		Timeline: timeline.NewInMemory(),
		Evidence: evidence.NewInMemory(),
		Audit:    audit.NewPublisher(audit.NewInMemoryStore(), nil),
		Metrics:  testMetrics,
		Logger:   log,
	})

	s.handler = router.NewRouter(router.Deps{
		Identity:   identityhandler.New(identitySvc),
		Complaints: complainthandler.New(complaintSvc),
		Verifier:   identitySvc,
		Logger:     log,
		Health: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	})
	s.stationID = domain.NewStationID()

	s.do(http.MethodPost, "/auth/register", "", map[string]any{
		"name": "Asha Rao", "email": "asha@example.org", "password": "correct horse",
	}, http.StatusCreated)
	s.do(http.MethodPost, "/auth/register/officer", "", map[string]any{
		"name": "Insp. Kumar", "email": "kumar@police.example.org",
		"badge_number": "B-1204", "rank": "Inspector",
		"station_id": s.stationID.String(), "password": "station house",
	}, http.StatusCreated)

	s.victimToken = s.login("asha@example.org", "correct horse", "VICTIM")
	s.officerToken = s.login("kumar@police.example.org", "station house", "OFFICER")
}

func (s *RouterSuite) do(method, path, token string, body any, wantStatus int) map[string]any {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Require().Equal(wantStatus, rec.Code, "%s %s: %s", method, path, rec.Body.String())

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return decoded
}

func (s *RouterSuite) doList(method, path, token string) []map[string]any {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var decoded []map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &decoded))
	return decoded
}

func (s *RouterSuite) login(email, password, role string) string {
	resp := s.do(http.MethodPost, "/auth/login", "", map[string]any{
		"email": email, "password": password, "role": role,
	}, http.StatusOK)
	token, _ := resp["token"].(string)
	s.Require().NotEmpty(token)
	return token
}

func (s *RouterSuite) fileComplaint() string {
	resp := s.do(http.MethodPost, "/complaints", s.victimToken, map[string]any{
		"station_id":  s.stationID.String(),
		"title":       "Stolen bicycle",
		"description": "Bicycle taken from the market square overnight.",
		"category":    "THEFT",
	}, http.StatusCreated)
	id, _ := resp["id"].(string)
	s.Require().NotEmpty(id)
	return id
}

func (s *RouterSuite) TestAuthBoundary() {
	req := httptest.NewRequest(http.MethodGet, "/complaints/my", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/complaints/my", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code, "health needs no token")
}

func (s *RouterSuite) TestComplaintLifecycleOverHTTP() {
	id := s.fileComplaint()

	mine := s.doList(http.MethodGet, "/complaints/my", s.victimToken)
	s.Require().Len(mine, 1)
	s.Equal("PENDING", mine[0]["status"])

	station := s.doList(http.MethodGet, "/complaints/station", s.officerToken)
	s.Require().Len(station, 1)

	resp := s.do(http.MethodPut, "/complaints/"+id+"/status", s.officerToken, map[string]any{
		"status": "INVESTIGATION", "remarks": "Assigned to night patrol",
	}, http.StatusOK)
	s.Equal("INVESTIGATION", resp["status"])
	s.NotEmpty(resp["assigned_officer_id"])

	// Victims cannot drive the state machine.
	s.do(http.MethodPut, "/complaints/"+id+"/status", s.victimToken, map[string]any{
		"status": "CLOSED", "remarks": "done",
	}, http.StatusForbidden)

	// Skipping a state is a conflict, not a bad request.
	errResp := s.do(http.MethodPut, "/complaints/"+id+"/status", s.officerToken, map[string]any{
		"status": "INVESTIGATION", "remarks": "again, differently",
	}, http.StatusConflict)
	s.Equal("invalid_transition", errResp["error"])

	view := s.do(http.MethodGet, "/complaints/"+id, s.victimToken, nil, http.StatusOK)
	entries, _ := view["timeline"].([]any)
	s.Require().Len(entries, 1)
	entry, _ := entries[0].(map[string]any)
	s.Equal("Status changed to INVESTIGATION: Assigned to night patrol", entry["text"])
	s.Equal("SYSTEM", entry["author_role"])
	history, _ := view["history"].([]any)
	s.Len(history, 1)
}

func (s *RouterSuite) TestEvidenceVisibilityOverHTTP() {
	id := s.fileComplaint()

	s.do(http.MethodPost, "/complaints/"+id+"/evidence", s.officerToken, map[string]any{
		"kind": "IMAGE", "ref": "https://evidence.example.org/cctv/1.jpg", "tags": []string{"cctv"},
	}, http.StatusCreated)

	// Default PRIVATE evidence is withheld from the owner but not the
	// station officer.
	victimView := s.do(http.MethodGet, "/complaints/"+id, s.victimToken, nil, http.StatusOK)
	victimEvidence, _ := victimView["evidence"].([]any)
	s.Empty(victimEvidence)

	officerView := s.do(http.MethodGet, "/complaints/"+id, s.officerToken, nil, http.StatusOK)
	officerEvidence, _ := officerView["evidence"].([]any)
	s.Len(officerEvidence, 1)

	s.do(http.MethodPost, "/complaints/"+id+"/evidence", s.victimToken, map[string]any{
		"kind": "IMAGE", "ref": "https://evidence.example.org/cctv/2.jpg",
	}, http.StatusForbidden)
}

func (s *RouterSuite) TestNarrativeOverHTTP() {
	id := s.fileComplaint()

	resp := s.do(http.MethodPost, "/complaints/"+id+"/updates", s.victimToken, map[string]any{
		"text": "I found a witness",
	}, http.StatusCreated)
	s.Equal("VICTIM", resp["author_role"])
	s.Equal("Asha Rao", resp["author_name"])
	s.Equal("VICTIM", resp["visibility"], "narrative defaults to VICTIM visibility")

	s.do(http.MethodGet, "/complaints/"+domain.NewComplaintID().String(), s.victimToken, nil, http.StatusNotFound)
	s.do(http.MethodGet, "/complaints/not-a-uuid", s.victimToken, nil, http.StatusBadRequest)
}
