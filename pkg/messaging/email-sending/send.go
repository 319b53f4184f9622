package emailsending

import (
	"errors"
	"log/slog"

	smtpclient "github.com/wttaideveloper/MentalHealth-sub002/pkg/smtp-client"
)

var (
	smtpClients *smtpclient.SmtpClients

	GlobalTemplateInfos = map[string]string{}
)

func InitMessageSendingVariables(
	clients *smtpclient.SmtpClients,
	globalTemplateInfos map[string]string,
) {
	smtpClients = clients
	GlobalTemplateInfos = globalTemplateInfos
}

func sendEmail(to []string, subject string, templateName string, templateDef string, payload map[string]string) error {
	if smtpClients == nil {
		return errors.New("smtp clients not initialized")
	}

	contentInfos := map[string]string{}
	for k, v := range GlobalTemplateInfos {
		contentInfos[k] = v
	}
	for k, v := range payload {
		contentInfos[k] = v
	}

	content, err := resolveTemplate(templateName, templateDef, contentInfos)
	if err != nil {
		return err
	}

	err = smtpClients.SendMail(to, subject, content, nil)
	if err != nil {
		slog.Error("failed to send email", slog.String("error", err.Error()), slog.String("messageType", templateName))
		return err
	}
	return nil
}

// SendReportReadyEmail notifies the user that a submitted test has been
// evaluated and the report can be accessed.
func SendReportReadyEmail(to []string, nickname string, testTitle string, helpText string) error {
	return sendEmail(
		to,
		"Your test results are ready",
		"report-ready",
		reportReadyTemplate,
		map[string]string{
			"nickname":  nickname,
			"testTitle": testTitle,
			"helpText":  helpText,
		},
	)
}

func SendWelcomeEmail(to []string, nickname string) error {
	return sendEmail(
		to,
		"Welcome",
		"welcome",
		welcomeTemplate,
		map[string]string{
			"nickname": nickname,
		},
	)
}

func SendPasswordResetEmail(to []string, nickname string, code string) error {
	return sendEmail(
		to,
		"Password reset",
		"password-reset",
		passwordResetTemplate,
		map[string]string{
			"nickname": nickname,
			"code":     code,
		},
	)
}
