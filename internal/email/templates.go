package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateVerification  = "verification"
	TemplatePasswordReset = "password_reset"
)

var verificationTemplate = `
<h2>Добро пожаловать, {{.Name}}!</h2>
<p>Для активации аккаунта перейдите по ссылке:</p>
<p><a href="{{.Link}}">Подтвердить email</a></p>
<p>Ссылка действительна 24 часа.</p>
`

var passwordResetTemplate = `
<h2>Здравствуйте, {{.Name}}</h2>
<p>Вы запросили сброс пароля. Перейдите по ссылке:</p>
<p><a href="{{.Link}}">Сбросить пароль</a></p>
<p>Если вы не запрашивали сброс, проигнорируйте это письмо.</p>
`

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с предзагруженными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	_ = tm.AddTemplate(TemplateVerification, verificationTemplate)
	_ = tm.AddTemplate(TemplatePasswordReset, passwordResetTemplate)
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
