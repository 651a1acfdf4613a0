package diagnoses

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Auth("dev"))
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "g1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSubmitAnswerHandlerDistinguishesNullStates(t *testing.T) {
	svc := newTestService(t, &countingCheck{status: answers.CheckSufficient})
	router := newTestRouter(t, svc)
	ctx := context.Background()

	d, err := svc.Create(ctx, "guest:g1", "Acme", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// An explicit null value is a confirmed "not applicable" answer.
	resp := doJSON(t, router, http.MethodPut, "/api/v1/diagnoses/"+d.ID+"/answers/q1", `{"value":null,"evidence":"fora do escopo","confirmed":true}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	got, _ := svc.Get(ctx, "guest:g1", d.ID)
	if got.Answers["q1"].Value.Kind() != answers.NotApplicable {
		t.Fatalf("expected NotApplicable from null value, got kind %d", got.Answers["q1"].Value.Kind())
	}
	if !got.Answers["q1"].Provided() {
		t.Fatal("confirmed not-applicable answer must count as provided")
	}

	// Omitting the value key clears the answer back to unanswered.
	resp = doJSON(t, router, http.MethodPut, "/api/v1/diagnoses/"+d.ID+"/answers/q1", `{"evidence":"rascunho"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	got, _ = svc.Get(ctx, "guest:g1", d.ID)
	if got.Answers["q1"].Value.Kind() != answers.Unanswered {
		t.Fatalf("expected Unanswered from absent value, got kind %d", got.Answers["q1"].Value.Kind())
	}
}

func TestSubmitAnswerHandlerRejectsBadValue(t *testing.T) {
	svc := newTestService(t, &countingCheck{status: answers.CheckSufficient})
	router := newTestRouter(t, svc)

	d, err := svc.Create(context.Background(), "guest:g1", "Acme", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp := doJSON(t, router, http.MethodPut, "/api/v1/diagnoses/"+d.ID+"/answers/q1", `{"value":{"nested":true},"confirmed":true}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported value payload, got %d", resp.Code)
	}
}
