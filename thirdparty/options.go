package thirdparty

import (
	"fmt"
	"net/url"
	"strconv"
)

// SearchOptions are the query-string parameters of a search request.
type SearchOptions struct {
	IntegrationID string
	NodeID        string
	SourceKey     string
	MaxResults    int
}

// DetailsOptions are the query-string parameters of a details request.
type DetailsOptions struct {
	IntegrationID  string
	SearchResultID string
}

// OptionsError matches ErrInvalidOptions with errors.Is.
type OptionsError struct {
	Message string
}

func (e OptionsError) Error() string {
	return e.Message
}

func (e OptionsError) Is(target error) bool {
	return target == ErrInvalidOptions
}

func invalidOptions(format string, args ...interface{}) error {
	return OptionsError{Message: fmt.Sprintf(format, args...)}
}

// ParseSearchOptions reads and validates search options. maxResults defaults
// to DefaultMaxResults.
func ParseSearchOptions(query url.Values) (SearchOptions, error) {
	result := SearchOptions{
		IntegrationID: query.Get("integrationId"),
		NodeID:        query.Get("nodeId"),
		SourceKey:     query.Get("sourceKey"),
		MaxResults:    DefaultMaxResults,
	}
	if result.IntegrationID == "" {
		return result, invalidOptions("Missing query-string parameter: integrationId")
	}
	if result.NodeID == "" {
		return result, invalidOptions("Missing query-string parameter: nodeId (hint: you possibly forgot to use a {{node}} entry in your action URL)")
	}
	if result.SourceKey == "" {
		return result, invalidOptions("Missing query-string parameter: sourceKey (hint: you possibly forgot to use a {{sourceKey}} entry in your action URL)")
	}
	if s := query.Get("maxResults"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return result, invalidOptions("Invalid query-string parameter: maxResults (must be a number)")
		}
		if n < 1 || n > MaxMaxResults {
			return result, invalidOptions("Invalid query-string parameter: maxResults (must be between 1 and %d)", MaxMaxResults)
		}
		result.MaxResults = n
	}
	return result, nil
}

func ParseDetailsOptions(query url.Values) (DetailsOptions, error) {
	result := DetailsOptions{
		IntegrationID:  query.Get("integrationId"),
		SearchResultID: query.Get("searchResultId"),
	}
	if result.IntegrationID == "" {
		return result, invalidOptions("Missing query-string parameter: integrationId")
	}
	if result.SearchResultID == "" {
		return result, invalidOptions("Missing query-string parameter: searchResultId")
	}
	return result, nil
}
