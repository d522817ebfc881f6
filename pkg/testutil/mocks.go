package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/arthur-debert/winslim/pkg/types"
)

// MockServiceManager implements types.ServiceManager
type MockServiceManager struct {
	mock.Mock
}

func (m *MockServiceManager) Config(name string) (types.ServiceConfig, error) {
	args := m.Called(name)
	return args.Get(0).(types.ServiceConfig), args.Error(1)
}

func (m *MockServiceManager) Remove(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

// MockBackupStore implements types.BackupStore
type MockBackupStore struct {
	mock.Mock
}

func (m *MockBackupStore) Backup(ctx context.Context, service string) error {
	args := m.Called(service)
	return args.Error(0)
}

// MockTaskScheduler implements types.TaskScheduler
type MockTaskScheduler struct {
	mock.Mock
}

func (m *MockTaskScheduler) Disable(ctx context.Context, taskPath string) (bool, error) {
	args := m.Called(taskPath)
	return args.Bool(0), args.Error(1)
}

// MockPolicyWriter implements types.PolicyWriter
type MockPolicyWriter struct {
	mock.Mock
}

func (m *MockPolicyWriter) SetDWORD(keyPath, valueName string, value uint32) error {
	args := m.Called(keyPath, valueName, value)
	return args.Error(0)
}

// MockContextMenuCleaner implements types.ContextMenuCleaner
type MockContextMenuCleaner struct {
	mock.Mock
}

func (m *MockContextMenuCleaner) DeleteSubKeysNamed(root, name string) (int, error) {
	args := m.Called(root, name)
	return args.Int(0), args.Error(1)
}

// MockAppRemover implements types.AppRemover
type MockAppRemover struct {
	mock.Mock
}

func (m *MockAppRemover) Remove(ctx context.Context, name string, sink types.MessageSink) (types.AppRemoval, error) {
	args := m.Called(name)
	return args.Get(0).(types.AppRemoval), args.Error(1)
}

var (
	_ types.ServiceManager     = (*MockServiceManager)(nil)
	_ types.BackupStore        = (*MockBackupStore)(nil)
	_ types.TaskScheduler      = (*MockTaskScheduler)(nil)
	_ types.PolicyWriter       = (*MockPolicyWriter)(nil)
	_ types.ContextMenuCleaner = (*MockContextMenuCleaner)(nil)
	_ types.AppRemover         = (*MockAppRemover)(nil)
)
