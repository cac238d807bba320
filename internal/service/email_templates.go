package service

import "fmt"

func documentEmailTemplate(clientName, caseStyle, filename, documentURL, appName string) (string, string) {
	subject := fmt.Sprintf("%s: %s", caseStyle, filename)
	if caseStyle == "" {
		subject = filename
	}

	greeting := "Hello,"
	if clientName != "" {
		greeting = fmt.Sprintf("Dear %s,", clientName)
	}

	body := fmt.Sprintf(`%s

Please find the document "%s" below.

You can also view it online: %s

Best,
%s`, greeting, filename, documentURL, appName)

	return subject, body
}
