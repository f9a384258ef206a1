// internal/normalize/normalize.go
package normalize

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"docs-browser/internal/model"
)

// Normalize groups raw items by category and sorts every category by title.
// Items without LastUpdated are stamped with now.
func Normalize(items []model.RawBlogItem, now time.Time) model.Catalog {
	catalog := make(model.Catalog)

	for _, item := range items {
		lastUpdated := now
		if item.LastUpdated != nil {
			lastUpdated = *item.LastUpdated
		}
		catalog[item.Category] = append(catalog[item.Category], model.BlogEntry{
			ID:          item.ID,
			Title:       item.Title,
			Content:     item.Content,
			LastUpdated: lastUpdated,
		})
	}

	col := newTitleCollator()
	for _, entries := range catalog {
		sort.SliceStable(entries, func(i, j int) bool {
			return col.CompareString(entries[i].Title, entries[j].Title) < 0
		})
	}

	return catalog
}

// CompareTitles orders titles the way Normalize does: case-insensitively, by locale collation.
func CompareTitles(a, b string) int {
	return newTitleCollator().CompareString(a, b)
}

// Collators keep scratch buffers, so each call gets its own.
func newTitleCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// FormatTitle turns a file or directory name into a display title:
// "my_file-name.md" becomes "My File Name".
func FormatTitle(name string) string {
	for _, ext := range []string{".md", ".txt"} {
		if len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}

	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	var b strings.Builder
	b.Grow(len(name))
	prevWord := false
	for _, r := range name {
		word := isWordRune(r)
		if word && !prevWord {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevWord = word
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// FilterCatalog keeps entries whose title or category contains term, ignoring case.
// Categories left without entries are dropped. An empty term returns catalog unchanged.
func FilterCatalog(catalog model.Catalog, term string) model.Catalog {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return catalog
	}

	filtered := make(model.Catalog)
	for category, entries := range catalog {
		categoryMatch := strings.Contains(strings.ToLower(category), term)
		var kept []model.BlogEntry
		for _, e := range entries {
			if categoryMatch || strings.Contains(strings.ToLower(e.Title), term) {
				kept = append(kept, e)
			}
		}
		if len(kept) > 0 {
			filtered[category] = kept
		}
	}
	return filtered
}

// FilterTopics applies the sidebar search to the topic index. A topic whose name matches keeps all
// of its sub-topics; otherwise only matching sub-topics are kept.
func FilterTopics(topics []model.Topic, term string) []model.Topic {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return topics
	}

	filtered := make([]model.Topic, 0, len(topics))
	for _, topic := range topics {
		if strings.Contains(strings.ToLower(topic.TopicName), term) {
			filtered = append(filtered, topic)
			continue
		}
		var subs []model.SubTopic
		for _, sub := range topic.SubTopicList {
			if strings.Contains(strings.ToLower(sub.SubTopicName), term) {
				subs = append(subs, sub)
			}
		}
		if len(subs) > 0 {
			filtered = append(filtered, model.Topic{
				TopicName:     topic.TopicName,
				NoOfSubTopics: len(subs),
				SubTopicList:  subs,
			})
		}
	}
	return filtered
}
