package mocks

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Create(ctx context.Context, in service.CreateInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) GetMetadata(ctx context.Context, id, principal string) (*model.DocumentMetadata, error) {
	args := m.Called(ctx, id, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentMetadata), args.Error(1)
}

func (m *MockDocumentService) UpdateMetadata(ctx context.Context, id, principal, name string) (*model.Document, error) {
	args := m.Called(ctx, id, principal, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) SoftDelete(ctx context.Context, id, principal string) (*model.Document, error) {
	args := m.Called(ctx, id, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Restore(ctx context.Context, id, principal string) (*model.Document, error) {
	args := m.Called(ctx, id, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) PermanentlyDelete(ctx context.Context, id, principal string) error {
	args := m.Called(ctx, id, principal)
	return args.Error(0)
}

func (m *MockDocumentService) ListDeleted(ctx context.Context, principal string) ([]model.Document, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) ListByWorkspace(ctx context.Context, workspaceID, principal string, f service.ListFilters) ([]model.Document, error) {
	args := m.Called(ctx, workspaceID, principal, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Search(ctx context.Context, workspaceID, query string) ([]model.Document, error) {
	args := m.Called(ctx, workspaceID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) PrepareDownload(ctx context.Context, id, principal string) (*service.Download, error) {
	args := m.Called(ctx, id, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Download), args.Error(1)
}

func (m *MockDocumentService) PrepareView(ctx context.Context, id, principal string) (*service.View, error) {
	args := m.Called(ctx, id, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.View), args.Error(1)
}

func (m *MockDocumentService) PreparePreview(ctx context.Context, id, principal string) (*service.Preview, error) {
	args := m.Called(ctx, id, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Preview), args.Error(1)
}
