// ABOUTME: Help pages rendered from embedded markdown
// ABOUTME: Lists topics from docs/help and converts the selected one with goldmark

package web

import (
	"bytes"
	"html/template"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
)

const defaultHelpTopic = "getting-started"

// helpTopic represents a help documentation topic
type helpTopic struct {
	Slug   string
	Title  string
	Active bool
}

var helpTopicOrder = map[string]int{
	"getting-started": 1,
	"managing-todos":  2,
	"troubleshooting": 3,
}

// handleHelp renders a help topic.
func (a *App) handleHelp(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("topic")
	if selected == "" {
		selected = defaultHelpTopic
	}

	topics, err := listHelpTopics(selected)
	if err != nil {
		a.logger.Error("failed to read help docs", "error", err)
		a.renderError(w, r, http.StatusInternalServerError, "Failed to load help")
		return
	}

	known := false
	for _, t := range topics {
		known = known || t.Active
	}
	if !known {
		a.renderError(w, r, http.StatusNotFound, "This help topic could not be found.")
		return
	}

	md, err := helpDocsFS.ReadFile(path.Join("docs/help", selected+".md"))
	if err != nil {
		a.logger.Error("failed to read help topic", "topic", selected, "error", err)
		a.renderError(w, r, http.StatusInternalServerError, "Failed to load help")
		return
	}

	var htmlBuf bytes.Buffer
	if err := goldmark.Convert(md, &htmlBuf); err != nil {
		a.logger.Error("failed to convert markdown", "error", err)
		htmlBuf.Reset()
		htmlBuf.WriteString("<p>Failed to render help content.</p>")
	}

	a.render(w, r, http.StatusOK, viewHelp, map[string]any{
		"topics":  topics,
		"content": template.HTML(htmlBuf.String()),
	})
}

func listHelpTopics(selected string) ([]helpTopic, error) {
	entries, err := helpDocsFS.ReadDir("docs/help")
	if err != nil {
		return nil, err
	}

	var topics []helpTopic
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		topics = append(topics, helpTopic{
			Slug:   slug,
			Title:  formatHelpTitle(slug),
			Active: slug == selected,
		})
	}

	sort.Slice(topics, func(i, j int) bool {
		oi, okI := helpTopicOrder[topics[i].Slug]
		oj, okJ := helpTopicOrder[topics[j].Slug]
		if !okI {
			oi = 100
		}
		if !okJ {
			oj = 100
		}
		if oi != oj {
			return oi < oj
		}
		return topics[i].Slug < topics[j].Slug
	})
	return topics, nil
}

// formatHelpTitle converts a slug to a display title
func formatHelpTitle(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
