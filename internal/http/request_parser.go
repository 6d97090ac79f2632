// Package http provides the JSON API over the ledger.
//
// This file implements utilities for parsing request bodies and query
// parameters. Bodies may be JSON objects or form-encoded.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"piggy/internal/core"
)

// maxBodyBytes bounds request bodies; a transaction is a handful of short fields.
const maxBodyBytes = 64 << 10

var errInvalidMonth = errors.New("month must be between 1 and 12")

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// Ref returns the first day of the month, usable as a reference date.
func (p MonthParams) Ref() core.Date {
	return core.NewDate(p.Year, p.Month, 1)
}

// ParseMonthParams extracts year and month from query parameters, using
// today's year and month as defaults. Unparseable values fall back to the
// default; a month outside 1-12 is an error.
func ParseMonthParams(query url.Values, today core.Date) (MonthParams, error) {
	params := MonthParams{
		Year:  today.Year(),
		Month: today.Month(),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			params.Month = m
		}
	}

	if params.Month < 1 || params.Month > 12 {
		return params, fmt.Errorf("%w: got %d", errInvalidMonth, params.Month)
	}
	return params, nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
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
		// Numbers stay as their literal text so amounts keep every digit
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		p.jsonData = make(map[string]interface{})
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("decode JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// Draft collects the transaction fields from the body.
func (p *RequestBodyParser) Draft() core.Draft {
	return core.Draft{
		Type:     core.TransactionType(strings.ToLower(p.Get("type"))),
		Amount:   p.Get("amount"),
		Category: p.Get("category"),
		Note:     p.Get("note"),
		Date:     p.Get("date"),
	}
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
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
