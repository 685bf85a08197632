// Package ui provides the Datastar-based web UI for managing theme fonts.
package ui

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/font"
	"github.com/joeblew999/plat-fonts/pkg/queue"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	data "maragu.dev/gomponents-datastar"
)

// EmptyCatalogMessage is shown when the theme defines no families.
const EmptyCatalogMessage = "There are no font families defined in your theme.json file."

// FontsView is what the manage-fonts page renders.
type FontsView struct {
	SessionID string
	Theme     string
	Source    string
	Outline   catalog.Outline
	Pending   *catalog.Target
}

// Layout wraps content in the base HTML layout.
func Layout(title string, content ...g.Node) g.Node {
	return h.HTML(
		h.Lang("en"),
		h.Head(
			h.Meta(h.Charset("utf-8")),
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.TitleEl(g.Text(title)),
			h.Script(h.Type("module"), h.Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js")),
			h.StyleEl(h.Type("text/css"), g.Raw(styles)),
		),
		h.Body(
			h.Nav(h.Class("navbar"),
				h.Div(h.Class("nav-brand"), g.Text("plat-fonts")),
				h.Div(h.Class("nav-links"),
					h.A(h.Href("/"), g.Text("Fonts")),
					h.A(h.Href("/submissions"), g.Text("Submissions")),
				),
			),
			h.Main(h.Class("container"), g.Group(content)),
			h.Footer(h.Class("footer"),
				g.Text("plat-fonts - Theme Font Manager"),
			),
		),
	)
}

// FontsPage renders the manage-fonts page for one editing session.
func FontsPage(v FontsView) g.Node {
	return Layout("Fonts - plat-fonts",
		data.Signals(map[string]any{
			"demoText": font.DefaultPreviewText,
			"help":     false,
			"error":    "",
		}),
		h.StyleEl(h.Type("text/css"), g.Raw(font.OutlineCSS(v.Outline))),

		h.Div(h.Class("family-header"),
			h.H1(g.Text("Manage Fonts")),
			h.Button(h.Class("secondary"), data.On("click", "$help = true"), g.Text("Help")),
		),
		h.P(h.Class("hint"), g.Textf("Theme %s, loaded from %s.", v.Theme, v.Source)),
		h.Div(h.Class("error"), data.Show("$error"), data.Text("$error")),

		h.Div(h.Class("section demo-text"),
			h.Label(h.For("demo-text"), g.Text("Demo text")),
			h.Input(h.ID("demo-text"), h.Type("text"), data.Bind("demoText")),
		),

		h.Div(h.Class("fonts-grid"),
			FamilyList(v.SessionID, v.Outline),
			OutlineSidebar(v.Outline),
		),

		ConfirmModal(v.SessionID, v.Pending, v.Outline),
		HelpModal(),
	)
}

// FamilyList renders every family with its faces. Entries marked for
// removal are struck through and cannot be deleted again.
func FamilyList(sessionID string, o catalog.Outline) g.Node {
	if o.Len() == 0 {
		return h.Div(h.ID("font-list"),
			h.P(h.Class("hint"), g.Text(EmptyCatalogMessage)),
		)
	}

	var families []g.Node
	for _, family := range o.Families() {
		families = append(families, familyCard(sessionID, family))
	}
	return h.Div(h.ID("font-list"), g.Group(families))
}

func familyCard(sessionID string, family catalog.OutlineFamily) g.Node {
	var faces []g.Node
	for _, face := range family.Faces {
		removed := family.Removed || face.Removed
		// A face without both weight and style cannot be addressed on its own.
		target := catalog.FaceTarget(family.ID, face.Weight, face.Style)
		faces = append(faces, h.Div(h.Class(classes("face", removed)),
			h.Span(h.Class("face-label"), g.Textf("%s %s", face.Weight, face.Style)),
			h.Div(h.Class("preview"),
				h.StyleAttr(previewStyle(family, face)),
				data.Text("$demoText"),
			),
			g.If(!removed && target.IsFace(), h.Button(h.Class("danger"),
				data.On("click", "@post('"+actionURL(sessionID, "request", target)+"')"),
				g.Text("Delete face"),
			)),
		))
	}

	return h.Div(h.Class("family"),
		h.Div(h.Class("family-header"),
			h.H3(g.If(family.Removed, h.Class("removed")), g.Text(family.Family)),
			g.If(!family.Removed, h.Button(h.Class("danger"),
				data.On("click", "@post('"+actionURL(sessionID, "request", catalog.FamilyTarget(family.ID))+"')"),
				g.Text("Delete family"),
			)),
		),
		g.If(len(family.Faces) == 0, h.Div(h.Class(classes("preview", family.Removed)),
			h.StyleAttr(fmt.Sprintf("font-family: %s", family.ID)),
			data.Text("$demoText"),
		)),
		g.Group(faces),
	)
}

func previewStyle(family catalog.OutlineFamily, face catalog.OutlineFace) string {
	return fmt.Sprintf("font-family: '%s', %s; font-weight: %s; font-style: %s",
		font.PreviewFamily(family.ID), family.ID, face.Weight, face.Style)
}

// OutlineSidebar renders the compact family/face outline.
func OutlineSidebar(o catalog.Outline) g.Node {
	var items []g.Node
	for _, family := range o.Families() {
		var faces []g.Node
		for _, face := range family.Faces {
			faces = append(faces, h.Li(
				g.If(family.Removed || face.Removed, h.Class("removed")),
				g.Textf("%s %s", face.Weight, face.Style),
			))
		}
		items = append(items, h.Li(
			h.Span(g.If(family.Removed, h.Class("removed")), g.Text(family.Family)),
			g.If(len(faces) > 0, h.Ul(h.Class("faces"), g.Group(faces))),
		))
	}

	return h.Aside(h.ID("font-outline"), h.Class("sidebar"),
		h.H2(g.Text("Outline")),
		g.If(len(items) == 0, h.P(h.Class("hint"), g.Text("No families"))),
		g.If(len(items) > 0, h.Ul(g.Group(items))),
	)
}

// ConfirmModal asks for confirmation of the pending delete. Without a
// pending delete it renders an empty placeholder.
func ConfirmModal(sessionID string, pending *catalog.Target, o catalog.Outline) g.Node {
	if pending == nil {
		return h.Div(h.ID("confirm-modal"))
	}

	name := pending.FontFamily
	if family, ok := o.Get(pending.FontFamily); ok {
		name = family.Family
	}
	question := fmt.Sprintf("Delete the font family %q?", name)
	if pending.IsFace() {
		question = fmt.Sprintf("Delete the %s %s face of %q?", pending.Weight, pending.Style, name)
	}

	return h.Div(h.ID("confirm-modal"),
		h.Div(h.Class("modal-backdrop"),
			h.Div(h.Class("modal"), g.Attr("role", "dialog"),
				h.H2(g.Text("Confirm deletion")),
				h.P(g.Text(question)),
				h.Div(h.Class("actions"),
					h.Button(h.Class("danger"),
						data.On("click", "@post('"+actionURL(sessionID, "confirm", catalog.Target{})+"')"),
						g.Text("Delete"),
					),
					h.Button(h.Class("secondary"),
						data.On("click", "@post('"+actionURL(sessionID, "cancel", catalog.Target{})+"')"),
						g.Text("Cancel"),
					),
				),
			),
		),
	)
}

// HelpModal explains the page.
func HelpModal() g.Node {
	return h.Div(h.ID("help-modal"), data.Show("$help"),
		h.Div(h.Class("modal-backdrop"),
			h.Div(h.Class("modal"), g.Attr("role", "dialog"),
				h.H2(g.Text("Managing fonts")),
				h.P(g.Text("Deleting a family or a face marks it for removal from the theme. "+
					"Every deletion asks for confirmation first. "+
					"Removing the last remaining face of a family removes the family as well.")),
				h.Button(data.On("click", "$help = false"), g.Text("Close")),
			),
		),
	)
}

// UnavailablePage is shown when the theme's catalog cannot be loaded.
func UnavailablePage(err error) g.Node {
	return Layout("Catalog unavailable - plat-fonts",
		h.H1(g.Text("Catalog unavailable")),
		h.Div(h.Class("notice"),
			h.P(g.Text("The theme's font catalog could not be loaded.")),
			h.P(h.Class("hint"), g.Text(err.Error())),
		),
	)
}

// SubmissionsPage renders the outbox monitoring page. Without an outbox
// submissions go straight to the backing store and there is nothing to list.
func SubmissionsPage(queued bool) g.Node {
	if !queued {
		return Layout("Submissions - plat-fonts",
			h.H1(g.Text("Submissions")),
			h.Div(h.Class("notice"),
				h.P(g.Text("Catalog submissions are delivered directly; there is no outbox to show.")),
			),
		)
	}

	filters := []string{"all", queue.StatusPending, queue.StatusRetry, queue.StatusDelivered, queue.StatusFailed}
	var buttons []g.Node
	for _, f := range filters {
		query := ""
		if f != "all" {
			query = "?status=" + f
		}
		buttons = append(buttons, h.Button(
			data.On("click", "$filter = '"+f+"'; @get('/api/submissions"+query+"')"),
			data.Class("active", "$filter === '"+f+"'"),
			g.Text(f),
		))
	}

	return Layout("Submissions - plat-fonts",
		data.Signals(map[string]any{
			"stats":   map[string]int{},
			"filter":  "all",
			"loading": true,
		}),
		data.Init("@get('/api/submissions/stats'); @get('/api/submissions')"),

		h.H1(g.Text("Submissions")),

		h.Div(h.Class("stats-grid"),
			StatCard(queue.StatusPending, "Pending"),
			StatCard(queue.StatusRetry, "Retry"),
			StatCard(queue.StatusDelivered, "Delivered"),
			StatCard(queue.StatusFailed, "Failed"),
		),

		h.Div(h.Class("filter-bar"), g.Group(buttons)),

		h.Div(h.Class("refresh-bar"),
			data.OnInterval("@get('/api/submissions/stats'); @get('/api/submissions?status=' + ($filter === 'all' ? '' : $filter))",
				data.ModifierDuration, data.Duration(5*time.Second)),
			g.Text("Auto-refresh: 5s"),
		),

		h.Div(h.Class("queue-list"),
			data.Show("$loading"),
			h.Div(h.Class("loading"),
				h.Span(h.Class("loading-spinner")),
				g.Text(" Loading submissions..."),
			),
		),
		h.Div(h.ID("submission-items"), h.Class("queue-list"),
			data.Show("!$loading"),
		),
	)
}

// StatCard renders a statistics card.
func StatCard(key, label string) g.Node {
	return h.Div(h.Class("stat-card"),
		h.Div(h.Class("stat-value"), data.Text("$stats."+key+" || 0")),
		h.Div(h.Class("stat-label"), g.Text(label)),
	)
}

// SubmissionItems renders the submission table.
func SubmissionItems(jobs []*queue.SubmissionJob) g.Node {
	if len(jobs) == 0 {
		return h.Div(h.ID("submission-items"), h.Class("queue-list"),
			h.P(h.Class("hint loading"), g.Text("No submissions")),
		)
	}

	var rows []g.Node
	for _, job := range jobs {
		errText := job.Error
		if errText == "" {
			errText = "-"
		}
		rows = append(rows, h.Tr(
			h.Td(g.Text(job.ID)),
			h.Td(g.Text(job.Theme)),
			h.Td(g.Textf("%d", job.Families)),
			h.Td(h.Span(h.StyleAttr("color:"+statusColor(job.Status)+";font-weight:600;"), g.Text(job.Status))),
			h.Td(g.Textf("%d/%d", job.Attempts, job.MaxAttempts)),
			h.Td(g.Text(errText)),
			h.Td(g.Text(job.CreatedAt.Format("Jan 2 15:04"))),
		))
	}

	return h.Div(h.ID("submission-items"), h.Class("queue-list"),
		h.Table(h.StyleAttr("width:100%;border-collapse:collapse;"),
			h.THead(h.Tr(
				h.Th(g.Text("ID")),
				h.Th(g.Text("Theme")),
				h.Th(g.Text("Families")),
				h.Th(g.Text("Status")),
				h.Th(g.Text("Attempts")),
				h.Th(g.Text("Error")),
				h.Th(g.Text("Created")),
			)),
			h.TBody(g.Group(rows)),
		),
	)
}

func statusColor(status string) string {
	switch status {
	case queue.StatusDelivered:
		return "var(--success)"
	case queue.StatusFailed:
		return "var(--danger)"
	case queue.StatusPending:
		return "var(--warning)"
	case queue.StatusRetry:
		return "var(--primary)"
	default:
		return "var(--text-muted)"
	}
}

func classes(base string, removed bool) string {
	if removed {
		return base + " removed"
	}
	return base
}

func actionURL(sessionID, action string, t catalog.Target) string {
	u := "/api/sessions/" + url.PathEscape(sessionID) + "/" + action
	if t.FontFamily == "" {
		return u
	}
	q := url.Values{}
	q.Set("family", t.FontFamily)
	if t.IsFace() {
		q.Set("weight", string(t.Weight))
		q.Set("style", t.Style)
	}
	return u + "?" + q.Encode()
}
