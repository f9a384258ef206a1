// internal/model/models.go
package model

import (
	"sort"
	"time"
)

// Topic is one node of the remote topic index.
type Topic struct {
	TopicName     string     `json:"topic_name"`
	NoOfSubTopics int        `json:"no_of_sub_topics"`
	SubTopicList  []SubTopic `json:"subTopicList"`
}

type SubTopic struct {
	SubTopicName string `json:"sub_topic_name"`
}

// BlogEntry is a single markdown article inside a category.
type BlogEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// RawBlogItem is the un-grouped shape returned by the blogs endpoint.
// LastUpdated is optional on the wire.
type RawBlogItem struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Catalog maps a category name to its entries, sorted by title.
type Catalog map[string][]BlogEntry

// Categories returns the category names in ascending order.
func (c Catalog) Categories() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of entries across all categories.
func (c Catalog) Len() int {
	n := 0
	for _, entries := range c {
		n += len(entries)
	}
	return n
}

// RepositorySummary feeds the landing view.
type RepositorySummary struct {
	Name         string         `json:"name"`
	URL          string         `json:"url"`
	Description  *string        `json:"description,omitempty"`
	Contribution []Contribution `json:"contribution"`
}

type Contribution struct {
	UserName          string `json:"user_name"`
	ProfileURL        string `json:"profile_url"`
	ContributionCount int    `json:"contribution_count"`
}

// TopContributor returns the first listed contributor, if any.
func (r RepositorySummary) TopContributor() (Contribution, bool) {
	if len(r.Contribution) == 0 {
		return Contribution{}, false
	}
	return r.Contribution[0], true
}

// Selection is the topic/sub-topic pair mirrored in the shareable URL.
type Selection struct {
	Topic    string
	SubTopic string
}

// Complete reports whether both halves are set, which is required before content is fetched.
func (s Selection) Complete() bool {
	return s.Topic != "" && s.SubTopic != ""
}

func (s Selection) IsZero() bool {
	return s.Topic == "" && s.SubTopic == ""
}

// RepoRef identifies a branch of a source-hosting repository.
type RepoRef struct {
	Owner  string
	Name   string
	Branch string
}

// CacheKey is the cache key for the repository's catalog.
func (r RepoRef) CacheKey() string {
	return r.Owner + "/" + r.Name + "/" + r.Branch
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name + "@" + r.Branch
}
