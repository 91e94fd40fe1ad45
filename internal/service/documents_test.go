package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/klinikapp/klinikd/internal/service"
)

type mockRepo struct {
	CreateFunc  func(ctx context.Context, id string, body []byte) error
	GetFunc     func(ctx context.Context, id string) ([]byte, error)
	ReplaceFunc func(ctx context.Context, id string, body []byte) error
}

func (m *mockRepo) Create(ctx context.Context, id string, body []byte) error {
	return m.CreateFunc(ctx, id, body)
}
func (m *mockRepo) Get(ctx context.Context, id string) ([]byte, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockRepo) Replace(ctx context.Context, id string, body []byte) error {
	return m.ReplaceFunc(ctx, id, body)
}

func TestCreate_MintsUniqueIds(t *testing.T) {
	var gotIDs []string
	var gotBody []byte
	repo := &mockRepo{
		CreateFunc: func(_ context.Context, id string, body []byte) error {
			gotIDs = append(gotIDs, id)
			gotBody = body
			return nil
		},
	}
	svc := service.NewDocumentService(repo)

	body := []byte(`{"patients":[]}`)
	id1, err := svc.Create(context.Background(), body)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	id2, err := svc.Create(context.Background(), body)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if id1 == "" || id2 == "" || id1 == id2 {
		t.Errorf("ids not unique/opaque: %q %q", id1, id2)
	}
	if len(gotIDs) != 2 || gotIDs[0] != id1 || gotIDs[1] != id2 {
		t.Errorf("repo saw ids %v; want [%s %s]", gotIDs, id1, id2)
	}
	if string(gotBody) != string(body) {
		t.Errorf("repo saw body %s; want %s", gotBody, body)
	}
}

func TestCreate_RepoErrorReturnsNoId(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &mockRepo{
		CreateFunc: func(context.Context, string, []byte) error { return wantErr },
	}
	svc := service.NewDocumentService(repo)

	id, err := svc.Create(context.Background(), []byte(`{}`))
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v; want %v", err, wantErr)
	}
	if id != "" {
		t.Errorf("id allocated on failure: %q", id)
	}
}

func TestGetAndReplace_Delegate(t *testing.T) {
	wantBody := []byte(`{"queue":[]}`)
	var replacedID string
	repo := &mockRepo{
		GetFunc: func(_ context.Context, id string) ([]byte, error) {
			if id != "KL-1" {
				t.Errorf("Get id = %q", id)
			}
			return wantBody, nil
		},
		ReplaceFunc: func(_ context.Context, id string, body []byte) error {
			replacedID = id
			return nil
		},
	}
	svc := service.NewDocumentService(repo)

	got, err := svc.Get(context.Background(), "KL-1")
	if err != nil || string(got) != string(wantBody) {
		t.Errorf("Get = %s, %v", got, err)
	}
	if err := svc.Replace(context.Background(), "KL-1", wantBody); err != nil {
		t.Errorf("Replace error: %v", err)
	}
	if replacedID != "KL-1" {
		t.Errorf("Replace id = %q", replacedID)
	}
}
