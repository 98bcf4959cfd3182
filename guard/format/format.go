// Package format renders human-readable moderation messages from templates
// and violation-detail maps.
package format

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// NotApplicable is returned by Details for an absent or empty details map.
const NotApplicable = "N/A"

// Details renders a violation-details map as "key: value, key2: value2",
// preserving insertion order.
func Details(details *orderedmap.OrderedMap[string, any]) string {
	if details == nil || details.Len() == 0 {
		return NotApplicable
	}

	parts := make([]string, 0, details.Len())
	for el := details.Front(); el != nil; el = el.Next() {
		parts = append(parts, fmt.Sprintf("%s: %v", el.Key, el.Value))
	}
	return strings.Join(parts, ", ")
}

// Message substitutes the placeholders of a message template. {playerName},
// {checkType} and {detailsString} are replaced first, then every {key}
// present in the details map. Every occurrence of a placeholder is
// replaced; values are inserted verbatim. An empty template yields an
// empty string.
func Message(template, actorLabel, checkType string, details *orderedmap.OrderedMap[string, any]) string {
	if template == "" {
		return ""
	}

	msg := strings.ReplaceAll(template, "{playerName}", actorLabel)
	msg = strings.ReplaceAll(msg, "{checkType}", checkType)
	msg = strings.ReplaceAll(msg, "{detailsString}", Details(details))
	if details != nil {
		for el := details.Front(); el != nil; el = el.Next() {
			msg = strings.ReplaceAll(msg, "{"+el.Key+"}", fmt.Sprintf("%v", el.Value))
		}
	}
	return msg
}
