package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/chucky-1/budget-jobs/internal/model"
)

var deletionTemplate = template.Must(template.New("deletion").Parse(`
<h2>Account Deletion Confirmation</h2>
<p>Hello,</p>
<p>This is a confirmation that your BudgetByMe account and all associated data have been successfully deleted from our system.</p>
<p>We're sorry to see you go. If you have any feedback about your experience with BudgetByMe, please feel free to reply to this email.</p>
<p>If you deleted your account by mistake or wish to rejoin in the future, you'll need to create a new account.</p>
<p>Thank you for using BudgetByMe.</p>
`))

var exportTemplate = template.Must(template.New("export").Parse(`
<h2>Your data export is ready</h2>
<p>You requested an export of your expenses data with event information. Your file is now ready for download.</p>
<p><a href="{{.URL}}">Click here to download your CSV file</a></p>
<p>This link will expire in {{.Expiry}}.</p>
`))

func deletionEmail(from, to string) (model.Email, error) {
	var buf bytes.Buffer
	if err := deletionTemplate.Execute(&buf, nil); err != nil {
		return model.Email{}, fmt.Errorf("couldn't render deletion email: %v", err)
	}
	return model.Email{
		From:    from,
		To:      to,
		Subject: "Your account has been deleted",
		HTML:    buf.String(),
	}, nil
}

func exportEmail(from, to, url string, ttl time.Duration) (model.Email, error) {
	var buf bytes.Buffer
	err := exportTemplate.Execute(&buf, struct {
		URL    string
		Expiry string
	}{
		URL:    url,
		Expiry: humanizeTTL(ttl),
	})
	if err != nil {
		return model.Email{}, fmt.Errorf("couldn't render export email: %v", err)
	}
	return model.Email{
		From:    from,
		To:      to,
		Subject: "Your data export is ready",
		HTML:    buf.String(),
	}, nil
}

func humanizeTTL(ttl time.Duration) string {
	days := int(ttl / (24 * time.Hour))
	switch {
	case days == 1 && ttl%(24*time.Hour) == 0:
		return "1 day"
	case days > 1 && ttl%(24*time.Hour) == 0:
		return fmt.Sprintf("%d days", days)
	}
	return ttl.String()
}
