package email

import "sync"

// MockProvider собирает отправленные письма в памяти (для тестов)
type MockProvider struct {
	mu   sync.Mutex
	Sent []*Email
	Err  error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Send(email *Email) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.Sent = append(m.Sent, email)
	m.mu.Unlock()
	return nil
}

func (m *MockProvider) SendVerification(to string, name string, token string) error {
	return m.Send(&Email{To: []string{to}, Subject: "verification", Body: token})
}

func (m *MockProvider) SendPasswordReset(to string, name string, token string) error {
	return m.Send(&Email{To: []string{to}, Subject: "password_reset", Body: token})
}

func (m *MockProvider) Validate() error {
	return nil
}

// SentTo возвращает письма, отправленные на адрес
func (m *MockProvider) SentTo(addr string) []*Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Email
	for _, e := range m.Sent {
		for _, to := range e.To {
			if to == addr {
				out = append(out, e)
			}
		}
	}
	return out
}
