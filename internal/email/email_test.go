package email

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateManager_RenderVerification(t *testing.T) {
	tm := NewTemplateManager()

	body, err := tm.Render(TemplateVerification, TemplateData{
		"Name": "Айгерим",
		"Link": "http://localhost:4000/api/auth/verify-email?token=abc",
	})
	assert.NoError(t, err)
	assert.Contains(t, body, "Айгерим")
	assert.Contains(t, body, "verify-email?token=abc")
}

func TestTemplateManager_UnknownTemplate(t *testing.T) {
	tm := NewTemplateManager()

	_, err := tm.Render("no-such-template", TemplateData{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "template not found")
}

func TestTemplateManager_AddTemplate(t *testing.T) {
	tm := NewTemplateManager()

	assert.NoError(t, tm.AddTemplate("custom", "Hello {{.Name}}"))
	body, err := tm.Render("custom", TemplateData{"Name": "World"})
	assert.NoError(t, err)
	assert.Equal(t, "Hello World", body)

	// Невалидный шаблон отклоняется
	assert.Error(t, tm.AddTemplate("broken", "Hello {{.Name"))
}

func TestMockProvider_CollectsSent(t *testing.T) {
	mock := NewMockProvider()

	assert.NoError(t, mock.SendVerification("donor@test.com", "Donor", "token-1"))
	assert.NoError(t, mock.SendPasswordReset("donor@test.com", "Donor", "token-2"))
	assert.NoError(t, mock.SendVerification("other@test.com", "Other", "token-3"))

	assert.Len(t, mock.Sent, 3)
	assert.Len(t, mock.SentTo("donor@test.com"), 2)
	assert.Len(t, mock.SentTo("nobody@test.com"), 0)
}

func TestMockProvider_PropagatesError(t *testing.T) {
	mock := NewMockProvider()
	mock.Err = errors.New("smtp down")

	assert.Error(t, mock.Send(&Email{To: []string{"donor@test.com"}}))
	assert.Empty(t, mock.Sent)
}
