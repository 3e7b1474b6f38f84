package storefront

import (
	"fmt"
	"strings"
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("storefront API returned %s", e.Status)
	}
	return fmt.Sprintf("storefront API returned %s: %s", e.Status, e.Body)
}

// GraphQLError is one entry of the top-level errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLErrors is returned when the response carries top-level errors.
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, gqlErr := range e {
		if msg := strings.TrimSpace(gqlErr.Message); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		return "storefront API returned graphql errors"
	}
	return "storefront API graphql errors: " + strings.Join(msgs, "; ")
}
