// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Handlers accept both HTMX form posts and JSON bodies through the same
// parser, so field extraction lives here rather than in each handler.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofrs/uuid/v5"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// maxBodyBytes caps request bodies; a transaction is a handful of short fields
const maxBodyBytes = 64 << 10

var (
	errInvalidID    = errors.New("invalid transaction id")
	errInvalidIndex = errors.New("index must be a whole number")
)

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := bytes.TrimSpace(p.body)
	if len(body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		data := make(map[string]any)
		if err := dec.Decode(&data); err != nil {
			p.err = err
			return err
		}
		p.jsonData = data
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(body))
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON reports whether the request body is (or claims to be) JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil || strings.HasPrefix(p.contentType, "application/json")
}

// stringValue converts a decoded JSON value to string. Numbers keep their
// literal text so amounts are not rounded through float64.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseTransactionInput extracts the add-transaction fields. Validation is
// left to the ledger so every entry point rejects the same inputs.
func ParseTransactionInput(p *RequestBodyParser) core.TransactionInput {
	kind := p.Get("kind")
	if kind == "" {
		kind = p.Get("type")
	}
	return core.TransactionInput{
		Category: p.Get("category"),
		Amount:   p.Get("amount"),
		Date:     p.Get("date"),
		Kind:     kind,
	}
}

// Selection identifies the transaction a delete request targets.
type Selection struct {
	ID       uuid.UUID
	HasID    bool
	Index    int // ledger.NoSelection when absent
	Category string
}

// ParseSelection reads id, index and category from the body, falling back to
// the query string for DELETE requests without a body.
func ParseSelection(p *RequestBodyParser, query url.Values) (Selection, error) {
	get := func(key string) string {
		if v := p.Get(key); v != "" {
			return v
		}
		return sanitizeInput(query.Get(key))
	}

	sel := Selection{Index: ledger.NoSelection, Category: get("category")}

	if raw := get("id"); raw != "" {
		id, err := uuid.FromString(raw)
		if err != nil {
			return Selection{}, errInvalidID
		}
		sel.ID = id
		sel.HasID = true
		return sel, nil
	}

	if raw := get("index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Selection{}, errInvalidIndex
		}
		sel.Index = n
	}
	return sel, nil
}

// parseCategoryFilter returns the category query value. Empty means no filter;
// anything else is matched exactly.
func parseCategoryFilter(query url.Values) string {
	return sanitizeInput(query.Get("category"))
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}
