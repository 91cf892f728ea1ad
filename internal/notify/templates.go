package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"teamchat/internal/models"
)

// Job is a rendered email plus the metadata recorded in the email log.
type Job struct {
	Type      models.EmailType `json:"type"`
	Email     Email            `json:"email"`
	MessageID *int64           `json:"message_id,omitempty"`
	TaskID    *int64           `json:"task_id,omitempty"`
	TeamID    *int64           `json:"team_id,omitempty"`
}

// Templates renders the HTML bodies. AppURL is linked from every email.
type Templates struct {
	AppURL string
}

func (t Templates) layout(title, body string) string {
	link := ""
	if t.AppURL != "" {
		link = fmt.Sprintf(`<p><a href="%s">Open Teamchat</a></p>`, html.EscapeString(t.AppURL))
	}
	return fmt.Sprintf(`
		<h2>%s</h2>
		%s
		%s
		<p>The Teamchat team</p>
	`, html.EscapeString(title), body, link)
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "no due date"
	}
	return due.Format("2006-01-02 15:04")
}

// TaskAssigned tells the assignee about a new task or task proposal.
func (t Templates) TaskAssigned(to, assignee, creator, title string, due *time.Time) Email {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p><strong>%s</strong> assigned you a task:</p>
		<blockquote>%s</blockquote>
		<p>Due: %s</p>`,
		html.EscapeString(assignee), html.EscapeString(creator), html.EscapeString(title), formatDue(due))
	return Email{To: to, Subject: "New task: " + title, HTML: t.layout("New task assigned", body)}
}

// ProposalAnswered tells the proposer how the assignee responded.
func (t Templates) ProposalAnswered(to, responder, content string, status models.ProposalStatus) Email {
	body := fmt.Sprintf(`
		<p><strong>%s</strong> %s your task proposal:</p>
		<blockquote>%s</blockquote>`,
		html.EscapeString(responder), status, html.EscapeString(content))
	return Email{To: to, Subject: fmt.Sprintf("Task %s: %s", status, content), HTML: t.layout("Task proposal "+string(status), body)}
}

func (t Templates) TaskCompleted(to, assignee, title string) Email {
	body := fmt.Sprintf(`<p><strong>%s</strong> marked <em>%s</em> as done.</p>`,
		html.EscapeString(assignee), html.EscapeString(title))
	return Email{To: to, Subject: "Task completed: " + title, HTML: t.layout("Task completed", body)}
}

func (t Templates) Nudge(to, recipient, nudger, content string) Email {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p><strong>%s</strong> nudged you about this message:</p>
		<blockquote>%s</blockquote>`,
		html.EscapeString(recipient), html.EscapeString(nudger), html.EscapeString(content))
	return Email{To: to, Subject: nudger + " nudged you", HTML: t.layout("You were nudged", body)}
}

// TaskNudge is the task-flavoured nudge; task may be nil.
func (t Templates) TaskNudge(to, recipient, nudger, content string, task *models.Task) Email {
	var b strings.Builder
	fmt.Fprintf(&b, `<p>Hi %s,</p><p><strong>%s</strong> is waiting on you:</p><blockquote>%s</blockquote>`,
		html.EscapeString(recipient), html.EscapeString(nudger), html.EscapeString(content))
	subject := nudger + " is waiting on a task"
	if task != nil {
		fmt.Fprintf(&b, `<p>Related task: <strong>%s</strong> (%s, due %s)</p>`,
			html.EscapeString(task.Title), task.Status, formatDue(task.DueDate))
		subject = "Reminder: " + task.Title
	}
	return Email{To: to, Subject: subject, HTML: t.layout("Task reminder", b.String())}
}

func (t Templates) OverdueReminder(to, recipient string, overdue []models.Task) Email {
	var b strings.Builder
	fmt.Fprintf(&b, `<p>Hi %s, you have %d overdue task(s):</p><ul>`, html.EscapeString(recipient), len(overdue))
	for _, task := range overdue {
		fmt.Fprintf(&b, `<li><strong>%s</strong> (due %s)</li>`, html.EscapeString(task.Title), formatDue(task.DueDate))
	}
	b.WriteString("</ul>")
	return Email{To: to, Subject: fmt.Sprintf("You have %d overdue task(s)", len(overdue)), HTML: t.layout("Overdue tasks", b.String())}
}

func (t Templates) DailyDigest(to, recipient, team string, pending, completed []models.Task) Email {
	var b strings.Builder
	fmt.Fprintf(&b, `<p>Hi %s, here is your summary for <strong>%s</strong>.</p>`, html.EscapeString(recipient), html.EscapeString(team))
	writeList := func(title string, tasks []models.Task) {
		if len(tasks) == 0 {
			return
		}
		fmt.Fprintf(&b, `<h3>%s (%d)</h3><ul>`, title, len(tasks))
		for _, task := range tasks {
			fmt.Fprintf(&b, `<li>%s <small>(%s, due %s)</small></li>`,
				html.EscapeString(task.Title), task.Priority, formatDue(task.DueDate))
		}
		b.WriteString("</ul>")
	}
	writeList("Pending", pending)
	writeList("Completed", completed)
	return Email{To: to, Subject: "Daily digest: " + team, HTML: t.layout("Daily digest", b.String())}
}

func (t Templates) TeamInvitation(to, inviter, team string) Email {
	body := fmt.Sprintf(`<p><strong>%s</strong> invited you to join <strong>%s</strong>.</p>`,
		html.EscapeString(inviter), html.EscapeString(team))
	return Email{To: to, Subject: "Invitation to " + team, HTML: t.layout("Team invitation", body)}
}

func (t Templates) Announcement(to, team, author, subject, text string) Email {
	body := fmt.Sprintf(`<p><strong>%s</strong> posted to %s:</p><blockquote>%s</blockquote>`,
		html.EscapeString(author), html.EscapeString(team), html.EscapeString(text))
	return Email{To: to, Subject: fmt.Sprintf("[%s] %s", team, subject), HTML: t.layout(subject, body)}
}
