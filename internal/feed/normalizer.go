package feed

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/domain"
)

// DefaultLimit bounds how many raw feed items are normalized when the
// caller does not set a limit. The cut is applied to the raw item list
// before normalization so embedding cost stays predictable.
const DefaultLimit = 50

// priceRe matches the first numeric substring of a raw price value,
// with an optional '.' or ',' decimal separator.
var priceRe = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)

// Normalize converts the raw parsed feed into a uniform ProductRecord
// list using a declarative field mapping.
//
// itemPath is the dotted path to the list of item nodes; a single
// non-list item is coerced into a one-element list. mapping associates
// each logical field (id, name, description, brand, tags, price, url)
// with a dotted path inside one item. Records lacking both a name and a
// description carry no embeddable signal and are dropped. Source order
// is preserved.
func Normalize(root *Node, itemPath string, mapping map[string]string, limit int) ([]domain.ProductRecord, error) {
	if itemPath == "" {
		return nil, domain.BadRequest("itemPath is required")
	}
	if len(mapping) == 0 {
		return nil, domain.BadRequest("mapping is required")
	}

	itemsNode := Lookup(root, itemPath)
	items, ok := itemsNode.Items()
	if !ok {
		return nil, domain.BadRequest("itemPath %q does not resolve to a list of items", itemPath)
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(items) > limit {
		items = items[:limit]
	}

	records := make([]domain.ProductRecord, 0, len(items))
	for _, item := range items {
		rec := domain.ProductRecord{
			ID:          mappedField(item, mapping, "id"),
			Name:        mappedField(item, mapping, "name"),
			Description: mappedField(item, mapping, "description"),
			Brand:       mappedField(item, mapping, "brand"),
			Tags:        mappedField(item, mapping, "tags"),
			Price:       ExtractPrice(mappedField(item, mapping, "price")),
			URL:         mappedField(item, mapping, "url"),
		}
		if !rec.HasSignal() {
			continue
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.Text = rec.BuildText()
		records = append(records, rec)
	}

	return records, nil
}

// mappedField resolves one logical field of an item through the mapping.
// Unmapped and unresolvable fields default to the empty string; wrapped
// character data is unwrapped to its plain text here, at the
// normalization boundary.
func mappedField(item *Node, mapping map[string]string, field string) string {
	path, ok := mapping[field]
	if !ok || path == "" {
		return ""
	}
	text, ok := LookupText(item, path)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

// ExtractPrice pulls the first numeric substring out of a raw price
// value ("2999 TRY" -> "2999", "1.299,90 TL" -> "1.299"). Values
// without a numeric substring are preserved unchanged.
func ExtractPrice(raw string) string {
	if raw == "" {
		return ""
	}
	if match := priceRe.FindString(raw); match != "" {
		return match
	}
	return raw
}
