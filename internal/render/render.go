// Package render maps state snapshots to markup fragments. Every record field
// is treated as untrusted text: fragments are built with html/template so
// user-supplied values (filenames, descriptions, tags, ticket text) are
// escaped before they reach a shared browsing context. No function here
// performs network calls or mutates session/catalog state.
package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wyejay/edulibrary-client/internal/models"
)

// Viewer is the identity the fragments are rendered for; it decides which
// actions (delete, admin controls) appear.
type Viewer struct {
	Username string
	IsAdmin  bool
}

var funcs = template.FuncMap{
	"formatDate": func(v interface{}) string {
		var t time.Time
		switch d := v.(type) {
		case time.Time:
			t = d
		case *time.Time:
			if d == nil {
				return ""
			}
			t = *d
		default:
			return "Unknown"
		}
		if t.IsZero() {
			return "Unknown"
		}
		return t.Format("Jan 2, 2006 15:04")
	},
	"formatSize": func(mb float64) string {
		return fmt.Sprintf("%.2fMB", mb)
	},
}

var tmpl = template.Must(template.New("fragments").Funcs(funcs).Parse(`
{{define "empty"}}<div class="empty-state"><h3>{{.Title}}</h3><p>{{.Hint}}</p></div>{{end}}

{{define "fileCard"}}<div class="file-card" data-id="{{.File.ID}}">
<div class="file-header">
<h3 class="file-title">{{.File.OriginalName}}{{if .File.IsFeatured}} <span class="featured-badge">Featured</span>{{end}}</h3>
<div class="file-meta">{{.File.Category}} &middot; {{formatSize .File.SizeMB}} &middot; {{.File.UploadedBy}} &middot; {{formatDate .File.UploadDate}} &middot; {{.File.DownloadCount}} downloads</div>
</div>
{{if .File.Description}}<p class="file-description">{{.File.Description}}</p>{{end}}
{{if .File.Tags}}<div class="file-tags">{{range .File.Tags}}<span class="tag">{{.}}</span>{{end}}</div>{{end}}
<div class="file-actions">
<button data-action="download" data-id="{{.File.ID}}">Download</button>
<button data-action="preview" data-id="{{.File.ID}}">Preview</button>
{{if .CanDelete}}<button data-action="delete" data-id="{{.File.ID}}">Delete</button>{{end}}
</div>
</div>{{end}}

{{define "fileGrid"}}<div class="file-grid">{{range .Cards}}{{template "fileCard" .}}{{end}}</div>{{end}}

{{define "adminFileRow"}}<div class="admin-file-card" data-id="{{.ID}}">
<h4>{{.OriginalName}}{{if .IsFeatured}} <span class="featured-badge">Featured</span>{{end}}</h4>
<div class="file-meta">{{.Category}} &middot; {{formatSize .SizeMB}} &middot; {{.UploadedBy}} &middot; {{.DownloadCount}} downloads</div>
<div class="file-actions">
<button data-action="toggle-featured" data-id="{{.ID}}">{{if .IsFeatured}}Unfeature{{else}}Feature{{end}}</button>
<button data-action="delete" data-id="{{.ID}}">Delete</button>
</div>
</div>{{end}}

{{define "ticketCard"}}<div class="ticket-card" data-id="{{.Ticket.ID}}">
<div class="ticket-header">
<h4 class="ticket-title">{{.Ticket.Title}}</h4>
<span class="priority-badge priority-{{.Ticket.Priority}}">{{.Ticket.Priority}}</span>
<span class="status-badge status-{{.Ticket.Status}}">{{.Ticket.Status}}</span>
</div>
{{if .AdminView}}<p class="ticket-user">{{.Ticket.User}}</p>{{end}}
<p class="ticket-description">{{.Ticket.Description}}</p>
<div class="ticket-meta">Created: {{formatDate .Ticket.CreatedDate}}{{if .Ticket.ResolvedDate}} &middot; Resolved: {{formatDate .Ticket.ResolvedDate}}{{end}}</div>
{{if .Ticket.AdminResponse}}<div class="admin-response"><strong>Admin Response:</strong> {{.Ticket.AdminResponse}}</div>{{end}}
{{if .ShowRespond}}<div class="ticket-respond">
<textarea name="response" data-id="{{.Ticket.ID}}" placeholder="Enter response..."></textarea>
<button data-action="respond" data-id="{{.Ticket.ID}}" data-status="in-progress">Mark In Progress</button>
<button data-action="respond" data-id="{{.Ticket.ID}}" data-status="resolved">Resolve</button>
</div>{{end}}
</div>{{end}}

{{define "userCard"}}<div class="user-card" data-id="{{.ID}}">
<h4>{{.Username}}{{if .IsAdmin}} <span class="admin-badge">Admin</span>{{end}}</h4>
<div class="user-meta">{{.Email}} &middot; Joined: {{formatDate .JoinDate}} &middot; {{.UploadsCount}} uploads &middot; {{.DownloadsCount}} downloads &middot; {{if .IsActive}}Active{{else}}Inactive{{end}}</div>
{{if not .IsAdmin}}<div class="user-actions">
<button data-action="toggle-user" data-id="{{.ID}}">{{if .IsActive}}Deactivate{{else}}Activate{{end}}</button>
<button data-action="delete-user" data-id="{{.ID}}">Delete</button>
</div>{{end}}
</div>{{end}}

{{define "statCard"}}<div class="stat-card"><div class="stat-number">{{.Number}}</div><div class="stat-label">{{.Label}}</div></div>{{end}}

{{define "analytics"}}<div class="analytics-grid">{{range .Stats}}{{template "statCard" .}}{{end}}</div>
<h3>Category Distribution</h3>
<div class="category-stats">{{range .Categories}}<div class="stat-item"><strong>{{.Category}}</strong> {{.Count}} files</div>{{end}}</div>
<h3>Recent Uploads</h3>
<div class="recent-uploads">{{range .Recent}}<div class="upload-item"><strong>{{.OriginalName}}</strong> <small>{{.UploadedBy}} &middot; {{formatDate .UploadDate}} &middot; {{.DownloadCount}} downloads</small></div>{{end}}</div>{{end}}

{{define "userBar"}}<div class="user-stats">{{.Username}} &middot; {{.UploadsCount}} uploads &middot; {{.DownloadsCount}} downloads{{if .IsAdmin}} &middot; Admin{{end}}</div>{{end}}

{{define "categoryOptions"}}<option value="all">All Categories</option>{{range .}}<option value="{{.}}">{{.}}</option>{{end}}{{end}}

{{define "invite"}}<div class="invite-section">
<form data-action="invite">
<input name="email" type="email" placeholder="Friend's email">
<textarea name="message" placeholder="Personal message (optional)"></textarea>
<button type="submit">Send Invitation</button>
</form>
{{if .InviteLink}}<div class="invite-link"><label>Your invite link</label><input readonly value="{{.InviteLink}}"></div>{{end}}
</div>{{end}}

{{define "auth"}}<div class="auth-forms">
<form data-action="login"><input name="username" placeholder="Username"><input name="password" type="password" placeholder="Password"><button type="submit">Login</button></form>
<form data-action="register"><input name="username" placeholder="Username"><input name="email" type="email" placeholder="Email" value="{{.Email}}"><input name="password" type="password" placeholder="Password"><input name="invite_code" type="hidden" value="{{.InviteCode}}"><button type="submit">Register</button></form>
</div>{{end}}
`))

func render(name string, data interface{}) template.HTML {
	var sb strings.Builder
	if err := tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		// Templates are parsed at init and data is typed; an execute failure
		// is a programming error, surfaced as an empty fragment.
		return template.HTML("")
	}
	return template.HTML(sb.String())
}

type fileCard struct {
	File      models.FileRecord
	CanDelete bool
}

// FileGrid renders the browse grid for the given viewer. Empty collections
// produce an explicit empty state, hint varying with whether a search query
// was active.
func FileGrid(files []models.FileRecord, viewer Viewer, searched bool) template.HTML {
	if len(files) == 0 {
		hint := "Upload some PDFs to get started!"
		if searched {
			hint = "Try a different search term"
		}
		return render("empty", map[string]string{"Title": "No files found", "Hint": hint})
	}

	cards := make([]fileCard, 0, len(files))
	for _, f := range files {
		cards = append(cards, fileCard{
			File:      f,
			CanDelete: viewer.IsAdmin || f.UploadedBy == viewer.Username,
		})
	}
	return render("fileGrid", map[string]interface{}{"Cards": cards})
}

// AdminFileList renders the admin file tab; the featured action label flips
// between Feature and Unfeature with the record's flag.
func AdminFileList(files []models.FileRecord) template.HTML {
	if len(files) == 0 {
		return render("empty", map[string]string{"Title": "No files", "Hint": "Nothing has been uploaded yet"})
	}
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(string(render("adminFileRow", f)))
	}
	return template.HTML(sb.String())
}

type ticketCard struct {
	Ticket      models.Ticket
	AdminView   bool
	ShowRespond bool
}

func TicketList(tickets []models.Ticket, adminView bool) template.HTML {
	if len(tickets) == 0 {
		return render("empty", map[string]string{"Title": "No support tickets yet", "Hint": "Submitted tickets will show up here"})
	}
	var sb strings.Builder
	for _, t := range tickets {
		sb.WriteString(string(render("ticketCard", ticketCard{
			Ticket:      t,
			AdminView:   adminView,
			ShowRespond: adminView && t.Status != models.TicketStatusResolved,
		})))
	}
	return template.HTML(sb.String())
}

func UserList(users []models.User) template.HTML {
	if len(users) == 0 {
		return render("empty", map[string]string{"Title": "No users", "Hint": "No registered users yet"})
	}
	var sb strings.Builder
	for _, u := range users {
		sb.WriteString(string(render("userCard", u)))
	}
	return template.HTML(sb.String())
}

type stat struct {
	Number string
	Label  string
}

func Analytics(snap *models.AnalyticsSnapshot) template.HTML {
	if snap == nil {
		return render("empty", map[string]string{"Title": "No analytics yet", "Hint": "Analytics load when the tab opens"})
	}
	stats := []stat{
		{fmt.Sprintf("%d", snap.Stats.TotalUsers), "Total Users"},
		{fmt.Sprintf("%d", snap.Stats.ActiveUsers), "Active Users"},
		{fmt.Sprintf("%d", snap.Stats.TotalFiles), "Total Files"},
		{fmt.Sprintf("%d", snap.Stats.TotalDownloads), "Downloads"},
		{fmt.Sprintf("%.2f MB", snap.Stats.TotalSizeMB), "Storage Used"},
		{fmt.Sprintf("%d", snap.Stats.OpenTickets), "Open Tickets"},
	}
	return render("analytics", map[string]interface{}{
		"Stats":      stats,
		"Categories": snap.Categories,
		"Recent":     snap.RecentUploads,
	})
}

func UserBar(user models.User) template.HTML {
	return render("userBar", user)
}

func CategoryOptions(categories []string) template.HTML {
	return render("categoryOptions", categories)
}

// InviteScreen renders the invite form together with the viewer's shareable
// invite link when one is known.
func InviteScreen(inviteLink string) template.HTML {
	return render("invite", map[string]string{"InviteLink": inviteLink})
}

// AuthScreen renders the login/register forms, prefilled from an invite link
// when one was followed.
func AuthScreen(email, inviteCode string) template.HTML {
	return render("auth", map[string]string{"Email": email, "InviteCode": inviteCode})
}
