package mocks

import (
	"context"

	"docvault/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) Create(ctx context.Context, principal, name string) (*model.Workspace, error) {
	args := m.Called(ctx, principal, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) ListByOwner(ctx context.Context, principal string) ([]model.Workspace, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Get(ctx context.Context, id, principal string) (*model.Workspace, error) {
	args := m.Called(ctx, id, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Update(ctx context.Context, id, principal, name string) (*model.Workspace, error) {
	args := m.Called(ctx, id, principal, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Delete(ctx context.Context, id, principal string) error {
	args := m.Called(ctx, id, principal)
	return args.Error(0)
}
