package notify

import (
	"bytes"
	"html/template"

	"github.com/peakcomfort/backend/internal/models"
)

var leadAlertTmpl = template.Must(template.New("lead_alert").Parse(`
<h2>New estimate request</h2>
<p><strong>{{.Name}}</strong> ({{.Priority}}) — {{.ServiceType}}</p>
<ul>
	<li>Phone: {{.Phone}}</li>
	<li>Email: {{.Email}}</li>
	<li>Source: {{.Source}}</li>
</ul>
<p>{{.Description}}</p>
`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<p>Hi {{.Name}},</p>
<p>Thanks for contacting Peak Comfort Heating &amp; Air. We received your
{{.ServiceType}} request and will reach out shortly to confirm a time.</p>
<p>— The Peak Comfort team</p>
`))

func renderLeadAlert(lead models.EstimateRequest) (string, error) {
	var buf bytes.Buffer
	if err := leadAlertTmpl.Execute(&buf, lead); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderConfirmation(name, serviceType string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Name        string
		ServiceType string
	}{name, serviceType}
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
