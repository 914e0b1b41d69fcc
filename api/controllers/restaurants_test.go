package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tabegoro/tabegoro-backend/api/middleware"
	"github.com/tabegoro/tabegoro-backend/internal/restaurants"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
)

type stubRestaurantService struct {
	dto  *restaurants.RestaurantDTO
	list []restaurants.RestaurantDTO
	err  error

	capturedUser uuid.UUID
	capturedID   uuid.UUID
}

func (s *stubRestaurantService) Create(ctx context.Context, userID uuid.UUID, req restaurants.CreateRequest) (*restaurants.RestaurantDTO, error) {
	s.capturedUser = userID
	return s.dto, s.err
}

func (s *stubRestaurantService) List(ctx context.Context, userID uuid.UUID) ([]restaurants.RestaurantDTO, error) {
	s.capturedUser = userID
	return s.list, s.err
}

func (s *stubRestaurantService) Get(ctx context.Context, userID, id uuid.UUID) (*restaurants.RestaurantDTO, error) {
	s.capturedUser, s.capturedID = userID, id
	return s.dto, s.err
}

func (s *stubRestaurantService) Update(ctx context.Context, userID, id uuid.UUID, req restaurants.UpdateRequest) (*restaurants.RestaurantDTO, error) {
	s.capturedUser, s.capturedID = userID, id
	return s.dto, s.err
}

func (s *stubRestaurantService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.capturedUser, s.capturedID = userID, id
	return s.err
}

func (s *stubRestaurantService) SetPublished(ctx context.Context, userID, id uuid.UUID, published bool) (*restaurants.RestaurantDTO, error) {
	s.capturedUser, s.capturedID = userID, id
	return s.dto, s.err
}

func (s *stubRestaurantService) RegenerateSlug(ctx context.Context, userID, id uuid.UUID) (*restaurants.RestaurantDTO, error) {
	s.capturedUser, s.capturedID = userID, id
	return s.dto, s.err
}

func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRestaurantCreateSuccess(t *testing.T) {
	owner := uuid.New()
	svc := &stubRestaurantService{dto: &restaurants.RestaurantDTO{ID: uuid.New(), UserID: owner, Name: "Sushi Bar", Slug: "sushi-bar"}}
	handler := RestaurantCreate(svc, nil)

	req := authedRequest(http.MethodPost, "/restaurants", []byte(`{"name":"Sushi Bar"}`), owner)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.capturedUser != owner {
		t.Fatalf("expected owner %s got %s", owner, svc.capturedUser)
	}

	var envelope struct {
		Data restaurants.RestaurantDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Slug != "sushi-bar" {
		t.Fatalf("expected slug in payload got %+v", envelope.Data)
	}
}

func TestRestaurantCreateRejectsUnknownFields(t *testing.T) {
	svc := &stubRestaurantService{dto: &restaurants.RestaurantDTO{}}
	handler := RestaurantCreate(svc, nil)

	req := authedRequest(http.MethodPost, "/restaurants", []byte(`{"name":"Sushi Bar","slug":"forced-slug"}`), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("slug must not be client settable, expected 400 got %d", resp.Code)
	}
}

func TestRestaurantCreateRejectsMalformedHours(t *testing.T) {
	svc := &stubRestaurantService{dto: &restaurants.RestaurantDTO{}}
	handler := RestaurantCreate(svc, nil)

	body := []byte(`{"name":"Sushi Bar","hours":{"monday":{"isOpen":true,"open":"9am"}}}`)
	req := authedRequest(http.MethodPost, "/restaurants", body, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("opening times must be HH:MM, expected 400 got %d", resp.Code)
	}
}

func TestRestaurantUpdateAcceptsWellFormedHours(t *testing.T) {
	svc := &stubRestaurantService{dto: &restaurants.RestaurantDTO{ID: uuid.New()}}
	handler := RestaurantUpdate(svc, nil)

	body := []byte(`{"hours":{"monday":{"isOpen":true,"open":"09:00","close":"22:30","breakStart":""}}}`)
	req := authedRequest(http.MethodPatch, "/restaurants/"+svc.dto.ID.String(), body, uuid.New())
	req = withURLParam(req, "id", svc.dto.ID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRestaurantGetRequiresValidID(t *testing.T) {
	handler := RestaurantGet(&stubRestaurantService{}, nil)

	req := authedRequest(http.MethodGet, "/restaurants/nope", nil, uuid.New())
	req = withURLParam(req, "id", "nope")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRestaurantGetMapsNotFound(t *testing.T) {
	svc := &stubRestaurantService{err: pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")}
	handler := RestaurantGet(svc, nil)

	id := uuid.New()
	req := authedRequest(http.MethodGet, "/restaurants/"+id.String(), nil, uuid.New())
	req = withURLParam(req, "id", id.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if svc.capturedID != id {
		t.Fatalf("expected id %s got %s", id, svc.capturedID)
	}
}

func TestRestaurantUpdateMapsForbidden(t *testing.T) {
	svc := &stubRestaurantService{err: pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this restaurant")}
	handler := RestaurantUpdate(svc, nil)

	id := uuid.New()
	req := authedRequest(http.MethodPatch, "/restaurants/"+id.String(), []byte(`{"name":"New Name"}`), uuid.New())
	req = withURLParam(req, "id", id.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRestaurantPublishTogglesFlag(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	svc := &stubRestaurantService{dto: &restaurants.RestaurantDTO{ID: id, UserID: owner, IsPublished: true}}
	handler := RestaurantSetPublished(svc, nil, true)

	req := authedRequest(http.MethodPatch, "/restaurants/"+id.String()+"/publish", nil, owner)
	req = withURLParam(req, "id", id.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data restaurants.RestaurantDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.IsPublished {
		t.Fatalf("expected isPublished true got %+v", envelope.Data)
	}
}

func TestRestaurantListRequiresUserContext(t *testing.T) {
	handler := RestaurantList(&stubRestaurantService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
