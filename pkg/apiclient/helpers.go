package apiclient

import (
	"fmt"
	"net/url"
	"strconv"
)

// Generic API Client Helpers
//
// These helpers reduce repetitive HTTP boilerplate across the resource
// files. Each wraps the underlying Client verbs with type-safe generics.
// They are unexported (package-internal).

// getResource performs a GET request to the given path and decodes the
// response body into a value of type T.
func getResource[T any](c *Client, path string) (*T, error) {
	var result T
	if err := c.get(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// listResources performs a GET request to the given path and decodes the
// response body into a slice of T.
func listResources[T any](c *Client, path string) ([]T, error) {
	var results []T
	if err := c.get(path, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// listPage performs a GET request to the given path and decodes the
// response body into one page of T.
func listPage[T any](c *Client, path string) (*Page[T], error) {
	var result Page[T]
	if err := c.get(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// createResource performs a POST request with the provided body and decodes
// the response into a value of type T.
func createResource[T any](c *Client, path string, body any) (*T, error) {
	var result T
	if err := c.post(path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// patchResource performs a PATCH request with the provided body and decodes
// the response into a value of type T.
func patchResource[T any](c *Client, path string, body any) (*T, error) {
	var result T
	if err := c.patch(path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// deleteResource performs a DELETE request.
func deleteResource(c *Client, path string) error {
	return c.delete(path, nil)
}

// resourcePath builds a resource path by formatting a path template with
// the given arguments.
func resourcePath(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// pageQuery encodes pagination parameters, omitting unset values so the
// server applies its defaults.
func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	return q
}

// withQuery appends an encoded query string to path, if any.
func withQuery(path string, q url.Values) string {
	if encoded := q.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
