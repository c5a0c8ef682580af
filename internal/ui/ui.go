// Package ui renders the event listing markup.
//
// Every renderer is a pure function of its input: the same props always
// produce byte-identical HTML. Values are escaped by html/template and are
// otherwise not validated.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/huangsam/devevent/schema"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// DefaultHeading titles the featured events section.
const DefaultHeading = "Featured Events"

// DefaultTitle is the document title.
const DefaultTitle = "DevEvent"

// NavLinks are the fixed navigation entries.
var NavLinks = []schema.NavLink{
	{Label: "Home", Href: "/"},
	{Label: "Events", Href: "/"},
	{Label: "Create Event", Href: "/"},
}

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// PageData is the input to Page.
type PageData struct {
	Title   string
	Heading string
	Notice  string // Shown above the list when non-empty
	Events  []schema.Event
}

type pageView struct {
	PageData
	NavLinks []schema.NavLink
}

// render executes a named template. Templates are static, so a failure here
// is a programming error.
func render(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		panic(fmt.Sprintf("ui: render %s: %v", name, err))
	}
	return template.HTML(buf.String())
}

// EventCard renders a card linking to the events page.
func EventCard(event schema.Event) template.HTML {
	return render("event_card", event)
}

// Navbar renders the site header.
func Navbar() template.HTML {
	return render("navbar", NavLinks)
}

// EventList renders a section of event cards under heading.
func EventList(heading string, events []schema.Event, notice string) template.HTML {
	return render("event_list", PageData{Heading: heading, Events: events, Notice: notice})
}

// Page renders a complete HTML document.
func Page(data PageData) ([]byte, error) {
	if data.Title == "" {
		data.Title = DefaultTitle
	}
	if data.Heading == "" {
		data.Heading = DefaultHeading
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page", pageView{PageData: data, NavLinks: NavLinks}); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), nil
}

// Icons returns the static icon set rooted so that "logo.png" is at the top.
func Icons() fs.FS {
	icons, err := fs.Sub(staticFS, "static/icons")
	if err != nil {
		panic(err) // Embedded path is fixed
	}
	return icons
}
