package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/inspect"
)

// QueryMap represents URL query parameters with convenient access methods
type QueryMap struct {
	values url.Values
}

// NewQueryMap creates a QueryMap from Echo context
func NewQueryMap(c echo.Context) QueryMap {
	return QueryMap{values: c.QueryParams()}
}

// Get returns the first value for the given key, or empty string if not found
func (q QueryMap) Get(key string) string {
	return q.values.Get(key)
}

// GetAll returns every value for the key, splitting comma separated values
func (q QueryMap) GetAll(key string) []string {
	var all []string
	for _, v := range q.values[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				all = append(all, part)
			}
		}
	}
	return all
}

// GetBool returns the first value for the given key as a boolean
// Accepts: "true", "1", "yes", "on" (case insensitive) as true
func (q QueryMap) GetBool(key string) bool {
	value := strings.ToLower(q.values.Get(key))
	return value == "true" || value == "1" || value == "yes" || value == "on"
}

// GetInt parses the first value for the key; ok is false when the key is absent
func (q QueryMap) GetInt(key string) (n int, ok bool, err error) {
	value := q.values.Get(key)
	if value == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(value)
	if err != nil {
		return 0, false, errors.Newf(errors.PreconditionErrorCode, "query parameter '%s' must be an integer", key).
			WithContext("value", value)
	}
	return n, true, nil
}

// Has returns true if the key exists in the query parameters
func (q QueryMap) Has(key string) bool {
	_, exists := q.values[key]
	return exists
}

// Options converts the query parameters into inspection options
func (q QueryMap) Options() (inspect.Options, error) {
	opts := inspect.Options{
		Name:        q.Get("name"),
		Pattern:     q.Get("pattern"),
		SimpleName:  q.Get("simple"),
		Modifiers:   q.GetAll("modifiers"),
		Annotation:  q.Get("annotation"),
		Identifier:  q.Get("identifier"),
		InstanceOf:  q.Get("instanceOf"),
		Scope:       q.Get("scope"),
		Recursive:   q.GetBool("recursive"),
		ExcludeSelf: q.GetBool("excludeSelf"),
		Equivalence: q.Get("equivalence"),
	}

	limit, _, err := q.GetInt("limit")
	if err != nil {
		return opts, err
	}
	opts.Limit = limit

	index, ok, err := q.GetInt("index")
	if err != nil {
		return opts, err
	}
	if ok {
		opts.Index = &index
	}
	return opts, nil
}
