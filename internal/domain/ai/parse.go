package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

const fence = "```"

// StripFences returns the JSON payload of a model answer. A ```json block wins
// over a bare ``` block; text without fences is returned unchanged.
func StripFences(text string) string {
	if _, after, ok := strings.Cut(text, fence+"json"); ok {
		body, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(body)
	}
	if _, after, ok := strings.Cut(text, fence); ok {
		body, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(body)
	}
	return text
}

// ParseResult strips fences from a model answer and decodes it, checking every
// field the result schema requires.
func ParseResult(text string) (*Result, error) {
	payload := StripFences(text)
	if strings.TrimSpace(payload) == "" {
		return nil, &ResponseParseError{Err: errors.New("empty response")}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &top); err != nil {
		return nil, &ResponseParseError{Err: err}
	}

	var res Result
	if err := decodeString(top, "summary", "summary", true, &res.Summary); err != nil {
		return nil, err
	}

	rawTags, err := decodeArray(top, "tags", "tags")
	if err != nil {
		return nil, err
	}
	res.Tags = make([]string, 0, len(rawTags))
	for i, raw := range rawTags {
		var tag string
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, &ResponseParseError{Field: fmt.Sprintf("tags[%d]", i), Err: errors.New("not a string")}
		}
		res.Tags = append(res.Tags, tag)
	}

	rawPoints, err := decodeArray(top, "painPoints", "painPoints")
	if err != nil {
		return nil, err
	}
	res.PainPoints = make([]PainPoint, 0, len(rawPoints))
	for i, raw := range rawPoints {
		pp, err := decodePainPoint(raw, fmt.Sprintf("painPoints[%d]", i))
		if err != nil {
			return nil, err
		}
		res.PainPoints = append(res.PainPoints, pp)
	}
	return &res, nil
}

func decodePainPoint(raw json.RawMessage, path string) (PainPoint, error) {
	obj, err := decodeObject(raw, path)
	if err != nil {
		return PainPoint{}, err
	}

	var pp PainPoint
	if err := decodeString(obj, "icon", path+".icon", false, &pp.Icon); err != nil {
		return pp, err
	}
	if err := decodeString(obj, "title", path+".title", true, &pp.Title); err != nil {
		return pp, err
	}
	if strings.TrimSpace(pp.Title) == "" {
		return pp, &ResponseParseError{Field: path + ".title", Err: errors.New("empty")}
	}

	rawCount, ok := obj["count"]
	if !ok {
		return pp, &ResponseParseError{Field: path + ".count", Err: errors.New("missing")}
	}
	var count float64
	if err := json.Unmarshal(rawCount, &count); err != nil {
		return pp, &ResponseParseError{Field: path + ".count", Err: errors.New("not a number")}
	}
	if count < 0 || math.IsNaN(count) {
		return pp, &ResponseParseError{Field: path + ".count", Err: errors.New("negative")}
	}
	if count > math.MaxInt32 {
		return pp, &ResponseParseError{Field: path + ".count", Err: errors.New("out of range")}
	}
	// models sometimes answer 2.0 or 2.5; round to the nearest mention
	pp.Count = int(math.Round(count))

	rawQuotes, err := decodeArray(obj, "quotes", path+".quotes")
	if err != nil {
		return pp, err
	}
	pp.Quotes = make([]Quote, 0, len(rawQuotes))
	for j, rq := range rawQuotes {
		qpath := fmt.Sprintf("%s.quotes[%d]", path, j)
		qobj, err := decodeObject(rq, qpath)
		if err != nil {
			return pp, err
		}
		var q Quote
		if err := decodeString(qobj, "text", qpath+".text", true, &q.Text); err != nil {
			return pp, err
		}
		if err := decodeString(qobj, "url", qpath+".url", false, &q.URL); err != nil {
			return pp, err
		}
		pp.Quotes = append(pp.Quotes, q)
	}
	return pp, nil
}

func decodeObject(raw json.RawMessage, path string) (map[string]json.RawMessage, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, &ResponseParseError{Field: path, Err: errors.New("not an object")}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &ResponseParseError{Field: path, Err: err}
	}
	return obj, nil
}

func decodeArray(obj map[string]json.RawMessage, key, path string) ([]json.RawMessage, error) {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return nil, &ResponseParseError{Field: path, Err: errors.New("missing")}
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, &ResponseParseError{Field: path, Err: errors.New("not an array")}
	}
	return arr, nil
}

func decodeString(obj map[string]json.RawMessage, key, path string, required bool, dst *string) error {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		if required {
			return &ResponseParseError{Field: path, Err: errors.New("missing")}
		}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ResponseParseError{Field: path, Err: errors.New("not a string")}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
