// internal/api/page.go
package api

import (
	"html/template"
	"net/http"
	"net/url"

	"docs-browser/internal/markdown"
	"docs-browser/internal/model"
	"docs-browser/internal/navigation"
	"docs-browser/internal/normalize"
)

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

type subTopicLink struct {
	Name   string
	URL    string
	Active bool
}

type topicGroup struct {
	Name      string
	Count     int
	Open      bool
	SubTopics []subTopicLink
}

type pageData struct {
	Query     string
	Collapsed bool

	Topics    []topicGroup
	IndexErr  string
	RetryURL  string
	ToggleURL string

	Selection   model.Selection
	ContentHTML template.HTML
	CloseURL    string

	Repositories []model.RepositorySummary
}

// page renders the browser view. The query string carries the whole view state:
// topic and subtopic select content, q filters the sidebar, collapsed=1 folds it.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	sel := navigation.SelectionFromURL(r.URL)

	data := pageData{
		Query:     query.Get("q"),
		Collapsed: query.Get("collapsed") == "1",
		Selection: sel,
		RetryURL:  r.URL.RequestURI(),
		ToggleURL: toggleCollapsed(r.URL),
		CloseURL:  navigation.SelectionToURL(r.URL, model.Selection{}).RequestURI(),
	}

	topics, err := h.content.ReadIndices(ctx)
	if err != nil {
		h.logger.Error("Failed to read topic index", "error", err)
		data.IndexErr = "Failed to load topics. Please try again."
	}
	for _, topic := range normalize.FilterTopics(topics, data.Query) {
		group := topicGroup{Name: topic.TopicName, Count: topic.NoOfSubTopics, Open: topic.TopicName == sel.Topic}
		for _, sub := range topic.SubTopicList {
			target := model.Selection{Topic: topic.TopicName, SubTopic: sub.SubTopicName}
			group.SubTopics = append(group.SubTopics, subTopicLink{
				Name:   sub.SubTopicName,
				URL:    navigation.SelectionToURL(r.URL, target).RequestURI(),
				Active: target == sel,
			})
		}
		data.Topics = append(data.Topics, group)
	}

	if sel.Complete() {
		content := h.content.FetchBlog(ctx, sel.Topic, sel.SubTopic)
		// RenderHTML escapes all text, so the fragment is safe to embed.
		data.ContentHTML = template.HTML(markdown.ToHTML(content))
	} else if data.IndexErr == "" {
		data.Repositories = h.content.FetchContributions(ctx)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		h.logger.Error("Failed to render page", "error", err)
	}
}

func toggleCollapsed(u *url.URL) string {
	clone := *u
	q := clone.Query()
	if q.Get("collapsed") == "1" {
		q.Del("collapsed")
	} else {
		q.Set("collapsed", "1")
	}
	clone.RawQuery = q.Encode()
	return clone.RequestURI()
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{if .Selection.Complete}}{{.Selection.SubTopic}} · {{.Selection.Topic}}{{else}}Documentation{{end}}</title>
  <style>
    body { margin: 0; font-family: system-ui, sans-serif; display: flex; min-height: 100vh; }
    .sidebar { width: 280px; border-right: 1px solid #ddd; padding: 1rem; overflow-y: auto; }
    .sidebar.collapsed { width: 3rem; }
    .sidebar.collapsed .sidebar-body { display: none; }
    .content { flex: 1; padding: 2rem; max-width: 900px; }
    .active { font-weight: bold; }
    .error-panel { border: 1px solid #e33; padding: 1rem; border-radius: 4px; }
    .code-block { background: #f6f8fa; padding: 1rem; overflow-x: auto; }
    .repo-card { border: 1px solid #ddd; border-radius: 4px; padding: 1rem; margin-bottom: 1rem; }
  </style>
</head>
<body>
  <nav class="sidebar{{if .Collapsed}} collapsed{{end}}">
    <a href="{{.ToggleURL}}" aria-label="Toggle sidebar">{{if .Collapsed}}&raquo;{{else}}&laquo;{{end}}</a>
    <div class="sidebar-body">
      <form method="get" action="/">
        {{if .Selection.Topic}}<input type="hidden" name="topic" value="{{.Selection.Topic}}">{{end}}
        {{if .Selection.SubTopic}}<input type="hidden" name="subtopic" value="{{.Selection.SubTopic}}">{{end}}
        <input type="search" name="q" value="{{.Query}}" placeholder="Search topics...">
      </form>
      {{if .IndexErr}}
      <div class="error-panel">
        <p>{{.IndexErr}}</p>
        <a href="{{.RetryURL}}">Retry</a>
      </div>
      {{else}}
      {{range .Topics}}
      <details {{if .Open}}open{{end}}>
        <summary>{{.Name}} ({{.Count}})</summary>
        <ul>
          {{range .SubTopics}}<li><a href="{{.URL}}" {{if .Active}}class="active"{{end}}>{{.Name}}</a></li>
          {{end}}
        </ul>
      </details>
      {{else}}
      <p>No topics found.</p>
      {{end}}
      {{end}}
    </div>
  </nav>
  <main class="content">
    {{if .Selection.Complete}}
    <header>
      <span>{{.Selection.Topic}} / {{.Selection.SubTopic}}</span>
      <a href="{{.CloseURL}}" aria-label="Close">&times;</a>
    </header>
    <article>{{.ContentHTML}}</article>
    {{else}}
    <h1>Documentation</h1>
    <p>Select a topic from the sidebar to start reading.</p>
    {{range .Repositories}}
    <div class="repo-card">
      <h2><a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Name}}</a></h2>
      {{with .Description}}<p>{{.}}</p>{{end}}
      <ul>
        {{range .Contribution}}<li><a href="{{.ProfileURL}}" target="_blank" rel="noopener noreferrer">{{.UserName}}</a> · {{.ContributionCount}} contributions</li>
        {{end}}
      </ul>
    </div>
    {{end}}
    {{end}}
  </main>
</body>
</html>`
