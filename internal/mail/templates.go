package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/may-baker/helpdesk-service/internal/domain"
)

// AssignedSubject builds the assignment notification subject. Replies to it
// are recognized by the classifier, so the format must stay in sync with
// replySubjectPattern.
func AssignedSubject(t domain.Ticket) string {
	return fmt.Sprintf("%s (ID: %d): %s", AssignedSubjectMarker, t.ID, t.Issue)
}

// ResolvedSubject builds the resolution notification subject.
func ResolvedSubject(t domain.Ticket) string {
	return fmt.Sprintf("Helpdesk Request Resolved (ID: %d): %s", t.ID, t.Issue)
}

var assignedTemplate = template.Must(template.New("assigned").Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h2 style="color: #22a7f0;">New Helpdesk Request Assigned</h2>
  <p>You have been assigned a new helpdesk request with the following details:</p>
  <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; background-color: #f2f2f2; font-weight: bold;">Issue:</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Issue}}</td>
    </tr>
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; background-color: #f2f2f2; font-weight: bold;">Description:</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{or .Description "N/A"}}</td>
    </tr>
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; background-color: #f2f2f2; font-weight: bold;">Reported By:</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{or .ReportedBy "Unknown"}}</td>
    </tr>
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; background-color: #f2f2f2; font-weight: bold;">Department:</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{or .Department "N/A"}}</td>
    </tr>
  </table>
  <p>Please attend to this request as soon as possible.</p>
  <p>Thank you.</p>
</div>
`))

var resolvedTemplate = template.Must(template.New("resolved").Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h2 style="color: #27ae60;">Helpdesk Request Resolved</h2>
  <p>The following helpdesk request has been marked as resolved:</p>
  <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; background-color: #f2f2f2; font-weight: bold;">Issue:</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Issue}}</td>
    </tr>
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; background-color: #f2f2f2; font-weight: bold;">Reported By:</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{or .ReportedBy "Unknown"}}</td>
    </tr>
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; background-color: #f2f2f2; font-weight: bold;">Resolved On:</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.DateClosed}} {{.ResolutionTime}}</td>
    </tr>
  </table>
  <p>No further action is required.</p>
  <p>Thank you.</p>
</div>
`))

// RenderAssignedBody renders the assignment notification body.
func RenderAssignedBody(t domain.Ticket) (string, error) {
	var buf bytes.Buffer
	if err := assignedTemplate.Execute(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderResolvedBody renders the resolution notification body.
func RenderResolvedBody(t domain.Ticket) (string, error) {
	var buf bytes.Buffer
	if err := resolvedTemplate.Execute(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}
