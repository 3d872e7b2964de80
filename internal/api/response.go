package api

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/sportchat/internal/errors"
	"github.com/diogo/sportchat/internal/models"
)

// Member names read from the ask reply
const (
	PathAnswer = "answer"
	PathError  = "error"
)

// parseAskResponse decodes a reply body into an AskResponse
func parseAskResponse(body []byte, statusCode int) (*models.AskResponse, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, apierrors.NewParseError("unexpected end of JSON input", body)
	}

	if !gjson.Valid(trimmed) {
		return nil, apierrors.NewParseError("response is not valid JSON", body)
	}

	parsed := gjson.Parse(trimmed)
	if parsed.Type == gjson.Null {
		return nil, apierrors.NewParseError("response body is null", body)
	}

	out := &models.AskResponse{
		StatusCode: statusCode,
		Raw:        body,
	}

	// Field lookups only apply to objects; any other top-level value has neither field.
	if !parsed.IsObject() {
		return out, nil
	}

	if answer := lastField(parsed, PathAnswer); truthy(answer) {
		out.Answer = displayText(answer)
		out.HasAnswer = true
	}

	if errField := lastField(parsed, PathError); truthy(errField) {
		out.Error = displayText(errField)
		out.HasError = true
	}

	return out, nil
}

// lastField returns the value of the last member named key. Duplicate keys
// resolve to the last occurrence, the same as JSON.parse.
func lastField(obj gjson.Result, key string) gjson.Result {
	var last gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			last = v
		}
		return true
	})
	return last
}

// truthy mirrors JavaScript truthiness for a decoded JSON value
func truthy(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}

	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True, gjson.JSON:
		return true
	case gjson.Number:
		return r.Num != 0 && !math.IsNaN(r.Num)
	case gjson.String:
		return r.Str != ""
	default:
		return false
	}
}

// displayText returns the text rendered for a value: strings verbatim, anything else as JSON
func displayText(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return r.Raw
}
