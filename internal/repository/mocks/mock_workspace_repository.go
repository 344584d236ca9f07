package mocks

import (
	"context"

	"docvault/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, ws *model.Workspace) (*model.Workspace, error) {
	args := m.Called(ctx, ws)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) FindOwned(ctx context.Context, id, ownerID string) (*model.Workspace, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Workspace, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Rename(ctx context.Context, id, name string) (*model.Workspace, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
