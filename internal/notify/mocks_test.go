package notify

import (
	"context"
	"sync"

	"teamchat/internal/models"
)

type mockSender struct {
	mu     sync.Mutex
	sent   []Email
	sendFn func(email Email) error
}

func (m *mockSender) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendFn != nil {
		if err := m.sendFn(email); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, email)
	return nil
}

type memoryEmailLogs struct {
	mu      sync.Mutex
	entries []models.EmailLog
}

func (m *memoryEmailLogs) Create(_ context.Context, e *models.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memoryEmailLogs) List(_ context.Context, _ int) ([]models.EmailLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.EmailLog(nil), m.entries...), nil
}
