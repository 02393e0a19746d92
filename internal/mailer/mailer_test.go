package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTemplatesRender(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	tests := []struct {
		kind     Kind
		mail     Mail
		contains string
	}{
		{KindSignupCode, Mail{Name: "Maria", Code: "123456"}, "123456"},
		{KindLoginCode, Mail{Name: "Maria", Code: "654321"}, "654321"},
		{KindPasswordReset, Mail{Name: "Maria", ResetLink: "http://localhost:3000/reset-password?token=abc"}, "reset-password?token=abc"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		err := templates.ExecuteTemplate(&buf, tt.kind.templateName(), map[string]string{
			"Name":      tt.mail.Name,
			"Code":      tt.mail.Code,
			"ResetLink": tt.mail.ResetLink,
		})
		require.NoError(t, err, tt.kind.templateName())
		assert.Contains(t, buf.String(), tt.contains)
		assert.Contains(t, buf.String(), "Maria")
	}
}

func TestKindSubjects(t *testing.T) {
	assert.NotEmpty(t, KindSignupCode.subject())
	assert.NotEmpty(t, KindLoginCode.subject())
	assert.NotEmpty(t, KindPasswordReset.subject())
}

func TestLogMailerNeverFails(t *testing.T) {
	m := NewLogMailer(zap.NewNop())

	err := m.Send(context.Background(), Mail{
		Kind: KindSignupCode,
		To:   "maria@example.com",
		Name: "Maria",
		Code: "123456",
	})
	assert.NoError(t, err)
}
