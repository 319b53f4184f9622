package emailsending

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

func resolveTemplate(tempName string, templateDef string, contentInfos map[string]string) (content string, err error) {
	if strings.TrimSpace(templateDef) == "" {
		return "", errors.New("empty template `" + tempName)
	}
	tmpl, err := template.New(tempName).Parse(templateDef)
	if err != nil {
		err = fmt.Errorf("error when parsing template %s: %v", tempName, err)
		return "", err
	}
	var tpl bytes.Buffer

	err = tmpl.Execute(&tpl, contentInfos)
	if err != nil {
		err = fmt.Errorf("error during executing template %s: %v", tempName, err)
		return "", err
	}
	return tpl.String(), nil
}

const reportReadyTemplate = `<html><body>
<p>Dear {{.nickname}},</p>
<p>Your results for <b>{{.testTitle}}</b> are ready.</p>
<p>You can review your report after signing in to your account.</p>
{{if .helpText}}<p>{{.helpText}}</p>{{end}}
</body></html>`

const welcomeTemplate = `<html><body>
<p>Dear {{.nickname}},</p>
<p>Welcome! Your account has been created.</p>
</body></html>`

const passwordResetTemplate = `<html><body>
<p>Dear {{.nickname}},</p>
<p>A password reset was requested for your account. Use the following code to continue: <b>{{.code}}</b></p>
<p>If you did not request this, you can ignore this message.</p>
</body></html>`
