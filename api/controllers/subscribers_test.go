package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"atelier-backend/pkg/db/models"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/pagination"
)

type stubSubscriberService struct {
	subscribed []string
	err        error
}

func (s *stubSubscriberService) Subscribe(_ context.Context, email string) (*models.Subscriber, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.subscribed = append(s.subscribed, email)
	return &models.Subscriber{ID: uuid.New(), Email: email}, nil
}

func (s *stubSubscriberService) List(context.Context, pagination.Params) ([]models.Subscriber, int64, error) {
	panic("unimplemented")
}

func TestSubscriberSignup(t *testing.T) {
	stub := &stubSubscriberService{}
	req := httptest.NewRequest(http.MethodPost, "/api/subscribers", strings.NewReader(`{"email":"reader@example.com"}`))
	rec := httptest.NewRecorder()

	SubscriberSignup(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.subscribed) != 1 || stub.subscribed[0] != "reader@example.com" {
		t.Fatalf("expected subscribe call, got %+v", stub.subscribed)
	}
}

func TestSubscriberSignup_InvalidEmail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/subscribers", strings.NewReader(`{"email":"not-an-email"}`))
	rec := httptest.NewRecorder()

	SubscriberSignup(&stubSubscriberService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", rec.Code)
	}
}

func TestSubscriberSignup_Duplicate(t *testing.T) {
	stub := &stubSubscriberService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already subscribed")}
	req := httptest.NewRequest(http.MethodPost, "/api/subscribers", strings.NewReader(`{"email":"reader@example.com"}`))
	rec := httptest.NewRecorder()

	SubscriberSignup(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", rec.Code)
	}
}
