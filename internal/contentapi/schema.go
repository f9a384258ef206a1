// internal/contentapi/schema.go
package contentapi

import (
	"fmt"

	custom_errors "docs-browser/internal/errors"
	"docs-browser/internal/model"
)

// Each endpoint decodes into pointer fields so a missing member can be told apart from a zero value.

type indicesResponse struct {
	Data *[]topicPayload `json:"data"`
}

type topicPayload struct {
	TopicName     *string           `json:"topic_name"`
	NoOfSubTopics *int              `json:"no_of_sub_topics"`
	SubTopicList  []subTopicPayload `json:"subTopicList"`
}

type subTopicPayload struct {
	SubTopicName *string `json:"sub_topic_name"`
}

func (r indicesResponse) validate() ([]model.Topic, error) {
	if r.Data == nil {
		return nil, &custom_errors.SchemaError{Endpoint: endpointIndices, Reason: "missing data"}
	}

	topics := make([]model.Topic, 0, len(*r.Data))
	for i, p := range *r.Data {
		if p.TopicName == nil || *p.TopicName == "" {
			return nil, &custom_errors.SchemaError{Endpoint: endpointIndices, Reason: fmt.Sprintf("topic %d has no topic_name", i)}
		}
		topic := model.Topic{
			TopicName:    *p.TopicName,
			SubTopicList: make([]model.SubTopic, 0, len(p.SubTopicList)),
		}
		for j, s := range p.SubTopicList {
			if s.SubTopicName == nil || *s.SubTopicName == "" {
				return nil, &custom_errors.SchemaError{
					Endpoint: endpointIndices,
					Reason:   fmt.Sprintf("topic %q sub-topic %d has no sub_topic_name", topic.TopicName, j),
				}
			}
			topic.SubTopicList = append(topic.SubTopicList, model.SubTopic{SubTopicName: *s.SubTopicName})
		}
		topic.NoOfSubTopics = len(topic.SubTopicList)
		if p.NoOfSubTopics != nil {
			topic.NoOfSubTopics = *p.NoOfSubTopics
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

type blogResponse struct {
	Data *struct {
		Content *string `json:"content"`
	} `json:"data"`
}

func (r blogResponse) validate() (string, error) {
	if r.Data == nil {
		return "", &custom_errors.SchemaError{Endpoint: endpointBlog, Reason: "missing data"}
	}
	if r.Data.Content == nil {
		return "", &custom_errors.SchemaError{Endpoint: endpointBlog, Reason: "missing data.content"}
	}
	if *r.Data.Content == "" {
		return "", custom_errors.ErrEmptyContent
	}
	return *r.Data.Content, nil
}

type contributionsResponse struct {
	Success bool                       `json:"success"`
	Data    *[]model.RepositorySummary `json:"data"`
}

func (r contributionsResponse) validate() ([]model.RepositorySummary, error) {
	if !r.Success {
		return nil, &custom_errors.SchemaError{Endpoint: endpointContributions, Reason: "success is false"}
	}
	if r.Data == nil {
		return nil, &custom_errors.SchemaError{Endpoint: endpointContributions, Reason: "missing data"}
	}
	for i, repo := range *r.Data {
		if repo.Name == "" {
			return nil, &custom_errors.SchemaError{Endpoint: endpointContributions, Reason: fmt.Sprintf("repository %d has no name", i)}
		}
	}
	return *r.Data, nil
}

func validateBlogItems(items []model.RawBlogItem) error {
	for i, item := range items {
		if item.Category == "" || item.Title == "" {
			return &custom_errors.SchemaError{Endpoint: endpointBlogs, Reason: fmt.Sprintf("item %d needs category and title", i)}
		}
	}
	return nil
}
