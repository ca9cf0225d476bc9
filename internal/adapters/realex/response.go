package realex

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/cobaltpay/realex-gateway/pkg/errors"
)

// Fields is the flattened gateway response: normalized field name to scalar
// value. Values are string, bool (from the literals "true"/"false"), or nil
// (from "" and "null"). Result codes stay strings so the classifier can
// prefix-match them.
type Fields map[string]any

// String returns the field as a string, or "" when absent, nil, or not a
// string.
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Bool returns the field as a bool, or false when absent or not a bool.
func (f Fields) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// Empty reports whether the response carried no fields at all. An empty map
// is what a response without a root element parses to, so callers use this
// to detect a malformed or empty response body.
func (f Fields) Empty() bool {
	return len(f) == 0
}

// xmlNode mirrors the response document shape for decoding. The protocol
// never nests deeper than two levels below the root.
type xmlNode struct {
	XMLName  xml.Name
	Chardata string    `xml:",chardata"`
	Nodes    []xmlNode `xml:",any"`
}

// parseResponse flattens the gateway's XML response. First-level leaf
// elements map to their lowercased tag name; elements with children map each
// child to "parent_child". A body without a root response element yields an
// empty field map, not an error.
func parseResponse(body []byte) (Fields, error) {
	fields := make(Fields)
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}

	var root xmlNode
	if err := xml.Unmarshal(body, &root); err != nil {
		return nil, &errors.MalformedResponseError{Reason: "invalid XML", Err: err}
	}
	if !strings.EqualFold(root.XMLName.Local, "response") {
		return fields, nil
	}

	for _, node := range root.Nodes {
		name := strings.ToLower(node.XMLName.Local)
		if len(node.Nodes) == 0 {
			fields[name] = normalize(node.Chardata)
			continue
		}
		for _, child := range node.Nodes {
			key := name + "_" + strings.ToLower(child.XMLName.Local)
			fields[key] = normalize(child.Chardata)
		}
	}
	return fields, nil
}

// normalize maps the gateway's scalar literals onto Go values: boolean
// literals become bools, empty and "null" become nil, everything else stays
// a string.
func normalize(text string) any {
	switch strings.TrimSpace(text) {
	case "true":
		return true
	case "false":
		return false
	case "", "null":
		return nil
	default:
		return strings.TrimSpace(text)
	}
}
