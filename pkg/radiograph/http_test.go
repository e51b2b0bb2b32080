package radiograph

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/radiographapp/backend/pkg/common/logger"
	"github.com/radiographapp/backend/pkg/common/models"
	gatewayauth "github.com/radiographapp/backend/pkg/gateway/auth"
	"github.com/radiographapp/backend/pkg/gateway/middleware"
	"github.com/stretchr/testify/assert"
)

type recordEnvelope struct {
	Message   string   `json:"message"`
	Patient   *Record  `json:"patient"`
	Patients  []Record `json:"patients"`
	Followup  *Record  `json:"followup"`
	Followups []Record `json:"followups"`
}

type testAPI struct {
	router *mux.Router
	signer *gatewayauth.JWTManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger.Init()

	store := newMemStore()
	svc := NewService(NewValidator(), NewGuard(store), nil, nil, nil)
	handler := NewHandler(svc)

	signer, err := gatewayauth.NewJWTManager("unit-test-secret-0123", "test", "test-clients", time.Hour)
	if err != nil {
		t.Fatalf("failed to create jwt manager: %v", err)
	}

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(signer))
	handler.Register(protected)

	return &testAPI{router: router, signer: signer}
}

func (a *testAPI) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := a.signer.IssueToken(models.User{ID: userID, Email: "doc@example.com"})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) recordEnvelope {
	t.Helper()
	var env recordEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return env
}

func TestHandlerRequiresToken(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/api/radiographs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandlerCreateAndListRadiographs(t *testing.T) {
	api := newTestAPI(t)
	owner := uuid.New()
	token := api.token(t, owner)

	rr := api.do(t, http.MethodPost, "/api/radiographs", token, validInput())
	assert.Equal(t, http.StatusCreated, rr.Code)

	created := decodeEnvelope(t, rr)
	assert.Equal(t, "Patient data saved successfully!", created.Message)
	assert.NotNil(t, created.Patient)
	assert.Equal(t, owner, created.Patient.OwnerID)
	assert.False(t, created.Patient.IsFollowUp)

	rr = api.do(t, http.MethodGet, "/api/radiographs", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	listed := decodeEnvelope(t, rr)
	assert.Equal(t, "Radiographs retrieved successfully", listed.Message)
	assert.Len(t, listed.Patients, 1)
}

func TestHandlerValidationFailureIs400(t *testing.T) {
	api := newTestAPI(t)
	token := api.token(t, uuid.New())

	in := validInput()
	in.Sex = "unknown"
	rr := api.do(t, http.MethodPost, "/api/radiographs", token, in)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "sex")
}

func TestHandlerGetScopedToOwner(t *testing.T) {
	api := newTestAPI(t)
	ownerA := uuid.New()
	ownerB := uuid.New()

	rr := api.do(t, http.MethodPost, "/api/radiographs", api.token(t, ownerA), validInput())
	assert.Equal(t, http.StatusCreated, rr.Code)
	created := decodeEnvelope(t, rr)

	// Same not-found shape whether the record is foreign or missing.
	rr = api.do(t, http.MethodGet, "/api/radiographs/"+created.Patient.ID.String(), api.token(t, ownerB), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(t, http.MethodGet, "/api/radiographs/"+uuid.NewString(), api.token(t, ownerB), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(t, http.MethodGet, "/api/radiographs/"+created.Patient.ID.String(), api.token(t, ownerA), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandlerFollowUpFlow(t *testing.T) {
	api := newTestAPI(t)
	owner := uuid.New()
	token := api.token(t, owner)

	rr := api.do(t, http.MethodPost, "/api/radiographs", token, validInput())
	assert.Equal(t, http.StatusCreated, rr.Code)
	original := decodeEnvelope(t, rr)

	in := validInput()
	in.OriginalRecordID = original.Patient.ID.String()
	rr = api.do(t, http.MethodPost, "/api/followups", token, in)
	assert.Equal(t, http.StatusCreated, rr.Code)

	followUp := decodeEnvelope(t, rr)
	assert.Equal(t, "Follow-up saved successfully!", followUp.Message)
	assert.NotNil(t, followUp.Followup)
	assert.True(t, followUp.Followup.IsFollowUp)

	rr = api.do(t, http.MethodGet, "/api/radiographs/"+original.Patient.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	detail := decodeEnvelope(t, rr)
	assert.Len(t, detail.Patient.FollowUps, 1)
	assert.Equal(t, followUp.Followup.ID, detail.Patient.FollowUps[0].ID)

	rr = api.do(t, http.MethodGet, "/api/followups", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	listed := decodeEnvelope(t, rr)
	assert.Len(t, listed.Followups, 1)
}

func TestHandlerFollowUpWithoutOriginalIs400(t *testing.T) {
	api := newTestAPI(t)
	token := api.token(t, uuid.New())

	rr := api.do(t, http.MethodPost, "/api/followups", token, validInput())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "originalRecordId")
}

func TestHandlerAppendImage(t *testing.T) {
	api := newTestAPI(t)
	owner := uuid.New()
	token := api.token(t, owner)

	rr := api.do(t, http.MethodPost, "/api/radiographs", token, validInput())
	assert.Equal(t, http.StatusCreated, rr.Code)
	created := decodeEnvelope(t, rr)

	image := map[string]string{"url": "https://cdn.example/x.png", "filename": "x.png"}
	rr = api.do(t, http.MethodPost, "/api/radiographs/"+created.Patient.ID.String()+"/images", token, image)
	assert.Equal(t, http.StatusOK, rr.Code)

	updated := decodeEnvelope(t, rr)
	assert.Len(t, updated.Patient.Images, 1)
	assert.Equal(t, "x.png", updated.Patient.Images[0].Filename)
}

func TestHandlerRejectsMalformedID(t *testing.T) {
	api := newTestAPI(t)
	token := api.token(t, uuid.New())

	rr := api.do(t, http.MethodGet, "/api/radiographs/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
