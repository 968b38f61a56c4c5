package chathub_test

import (
	"sync"

	"dategogo/backend/internal/chathub"
	"dategogo/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify/mock implementation of the storage.Store
// interface, shared by the router and heartbeat tests.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetChatHistory(userID1, userID2 int64, page, size int) ([]models.ChatMessage, error) {
	args := m.Called(userID1, userID2, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockStorage) MarkAsRead(toUserID, fromUserID int64) error {
	args := m.Called(toUserID, fromUserID)
	return args.Error(0)
}

func (m *MockStorage) GetUnreadCount(userID int64) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetChatContacts(userID int64) ([]models.ChatContact, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatContact), args.Error(1)
}

func (m *MockStorage) GetUserProfile(userID int64) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) IsUserBanned(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetUserOnline(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) RefreshUserOnline(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) SetUserOffline(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockClient is a test double for the chathub.Client interface recording
// every frame enqueued to it.
type MockClient struct {
	mu         sync.Mutex
	userID     int64
	open       bool
	enqueueErr error
	frames     [][]byte
}

func newMockClient(userID int64) *MockClient {
	return &MockClient{userID: userID, open: true}
}

func (c *MockClient) UserID() int64 { return c.userID }

func (c *MockClient) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *MockClient) Enqueue(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return chathub.ErrClientClosed
	}
	if c.enqueueErr != nil {
		return c.enqueueErr
	}
	c.frames = append(c.frames, frame)
	return nil
}

func (c *MockClient) Run() {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

// Frames returns a copy of everything enqueued so far.
func (c *MockClient) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	frames := make([][]byte, len(c.frames))
	copy(frames, c.frames)
	return frames
}

// FailEnqueueWith makes every subsequent Enqueue return err.
func (c *MockClient) FailEnqueueWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enqueueErr = err
}
