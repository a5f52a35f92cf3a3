package feed

import (
	"strings"
	"testing"
)

const sampleXMLFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Robocombo</title>
    <item>
      <id>1</id>
      <name><![CDATA[Drone A]]></name>
      <price currency="TRY">2999 TRY</price>
      <link>https://example.com/drone-a</link>
    </item>
    <item>
      <id>2</id>
      <name>Drone B</name>
      <price currency="TRY">4999 TRY</price>
      <link>https://example.com/drone-b</link>
    </item>
  </channel>
</rss>`

func TestParseXML(t *testing.T) {
	root, err := ParseXML(strings.NewReader(sampleXMLFeed))
	if err != nil {
		t.Fatalf("ParseXML failed: %v", err)
	}

	items := Lookup(root, "rss.channel.item")
	if items.Kind() != KindList {
		t.Fatalf("Repeated tags should collapse into a list, got kind %d", items.Kind())
	}
	if items.Len() != 2 {
		t.Fatalf("Unexpected item count: got %d, want 2", items.Len())
	}

	if got, _ := LookupText(root, "rss.channel.item.0.name"); got != "Drone A" {
		t.Errorf("CDATA name not unwrapped: got %q", got)
	}
	if got, _ := LookupText(root, "rss.channel.item.1.price"); got != "4999 TRY" {
		t.Errorf("Price text: got %q, want %q", got, "4999 TRY")
	}
	if got, _ := LookupText(root, "rss.channel.item.0.price.@currency"); got != "TRY" {
		t.Errorf("Attribute lookup: got %q, want %q", got, "TRY")
	}
	if got, _ := LookupText(root, "rss.@version"); got != "2.0" {
		t.Errorf("Root attribute lookup: got %q, want %q", got, "2.0")
	}
}

func TestParseXMLSingleItemIsNotAList(t *testing.T) {
	const single = `<catalog><product><name>Only</name></product></catalog>`
	root, err := ParseXML(strings.NewReader(single))
	if err != nil {
		t.Fatalf("ParseXML failed: %v", err)
	}

	product := Lookup(root, "catalog.product")
	if product.Kind() != KindMap {
		t.Fatalf("Single element should stay a map, got kind %d", product.Kind())
	}
	// The normalizer coerces it into a one-element list.
	items, ok := product.Items()
	if !ok || len(items) != 1 {
		t.Errorf("Coercion failed: ok=%v, len=%d", ok, len(items))
	}
}

func TestParseXMLBadDocument(t *testing.T) {
	if _, err := ParseXML(strings.NewReader("not xml at all")); err == nil {
		t.Errorf("Expected error for document without a root element")
	}
}

func TestParseCSV(t *testing.T) {
	const csvFeed = "id,name,price,url\n1,Drone A,2999 TRY,https://example.com/a\n2,Drone B,4999 TRY,https://example.com/b\n"
	root, err := ParseCSV(strings.NewReader(csvFeed))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	items := Lookup(root, "items")
	if items.Len() != 2 {
		t.Fatalf("Unexpected row count: got %d, want 2", items.Len())
	}
	if got, _ := LookupText(root, "items.0.name"); got != "Drone A" {
		t.Errorf("Row field: got %q, want %q", got, "Drone A")
	}
	if got, _ := LookupText(root, "items.1.price"); got != "4999 TRY" {
		t.Errorf("Row field: got %q, want %q", got, "4999 TRY")
	}
}

func TestParseCSVEmpty(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Errorf("Expected error for empty CSV document")
	}
}

func TestDetectFormat(t *testing.T) {
	if got := DetectFormat([]byte("  <?xml version=\"1.0\"?><rss/>")); got != FormatXML {
		t.Errorf("DetectFormat XML: got %q", got)
	}
	if got := DetectFormat([]byte("id,name\n1,a\n")); got != FormatCSV {
		t.Errorf("DetectFormat CSV: got %q", got)
	}
	// Feeds exported from Windows tooling often start with a BOM.
	if got := DetectFormat([]byte("\uFEFF<rss/>")); got != FormatXML {
		t.Errorf("DetectFormat BOM-prefixed XML: got %q", got)
	}
}
