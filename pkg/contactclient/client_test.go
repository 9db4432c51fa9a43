package contactclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/folio/backend/internal/handler"
	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/ratelimit"
	"github.com/folio/backend/internal/service"
)

type memoryRepository struct {
	rows map[string]*model.Submission
}

func (m *memoryRepository) Insert(ctx context.Context, sub *model.Submission) error {
	sub.ID = "1001"
	m.rows[sub.ID] = sub
	return nil
}

func (m *memoryRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	return m.rows[id], nil
}

func (m *memoryRepository) Delete(ctx context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memoryRepository) Ping(ctx context.Context) error { return nil }

func (m *memoryRepository) Close() error { return nil }

func newServer(t *testing.T, svc service.ContactService, limiter ratelimit.Limiter) *httptest.Server {
	t.Helper()
	contact := handler.NewContactHandler(svc, limiter)
	srv := httptest.NewServer(http.HandlerFunc(contact.Handle))
	t.Cleanup(srv.Close)
	return srv
}

var validForm = Form{
	Name:    "Jane Doe",
	Email:   "jane@example.com",
	Subject: "Hello there",
	Message: "This is a test message.",
}

func TestClient_Submit_Success(t *testing.T) {
	repo := &memoryRepository{rows: map[string]*model.Submission{}}
	srv := newServer(t, service.NewContactService(repo), ratelimit.NewWindow(ratelimit.DefaultLimit, ratelimit.DefaultWindow))

	res, err := New(srv.URL).Submit(context.Background(), validForm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID != "1001" {
		t.Errorf("expected id 1001, got %q", res.ID)
	}
	if res.Message == "" {
		t.Error("expected confirmation message")
	}
	if _, ok := repo.rows["1001"]; !ok {
		t.Error("expected submission to be stored")
	}
}

func TestClient_Submit_ValidationFailed(t *testing.T) {
	repo := &memoryRepository{rows: map[string]*model.Submission{}}
	srv := newServer(t, service.NewContactService(repo), ratelimit.NewWindow(ratelimit.DefaultLimit, ratelimit.DefaultWindow))

	form := validForm
	form.Email = "not-an-email"
	_, err := New(srv.URL).Submit(context.Background(), form)

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *RejectedError, got %v", err)
	}
	if rejected.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rejected.StatusCode)
	}
	if rejected.Message != "Validation failed." {
		t.Errorf("unexpected message %q", rejected.Message)
	}
	if len(rejected.Errors) != 1 || rejected.Errors[0] != service.MsgEmailInvalid {
		t.Errorf("unexpected errors %v", rejected.Errors)
	}
}

func TestClient_Submit_RateLimited(t *testing.T) {
	deny := ratelimit.LimiterFunc(func(ctx context.Context, key string) (bool, error) { return false, nil })
	srv := newServer(t, service.NewContactService(nil), deny)

	_, err := New(srv.URL).Submit(context.Background(), validForm)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestClient_Submit_ServerError(t *testing.T) {
	srv := newServer(t, service.NewContactService(nil), ratelimit.NewWindow(ratelimit.DefaultLimit, ratelimit.DefaultWindow))

	_, err := New(srv.URL).Submit(context.Background(), validForm)
	if !errors.Is(err, ErrServer) {
		t.Errorf("expected ErrServer, got %v", err)
	}
}

func TestClient_Submit_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL).WithTimeout(50 * time.Millisecond).Submit(context.Background(), validForm)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestClient_Submit_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Submit(context.Background(), validForm)
	if err == nil || errors.Is(err, ErrTimeout) {
		t.Errorf("expected network error, got %v", err)
	}
}
