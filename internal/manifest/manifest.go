// Package manifest reads the vendor order manifest shipped inside each
// package and correlates one of its recipients with a scanned label.
package manifest

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"fulfill/internal/config"
	"fulfill/internal/services"
)

// NoOrderID is reported when the manifest carries no details/orderId.
const NoOrderID = "No ID"

// hintPrefixLength is how many leading characters of the address hint must
// match a recipient's mailadr1.
const hintPrefixLength = 4

// Result holds the manifest fields for one label. Fields absent from the
// manifest are empty.
type Result struct {
	OrderID string
	// AnyOrderID is the first orderId found anywhere in the document, empty
	// when there is none.
	AnyOrderID      string
	SKU             string
	Description     string
	DOCID           string
	Region          string
	VendorIndicator string
	// Matched reports whether a recipient was correlated with the hint.
	Matched bool
}

// Reader parses manifests using a SKU description table.
type Reader struct {
	skus    map[string]string
	unknown string
}

// NewReader builds a reader from the manifest configuration section.
func NewReader(cfg config.Manifest) *Reader {
	unknown := cfg.UnknownDescription
	if unknown == "" {
		unknown = config.Default().Manifest.UnknownDescription
	}
	return &Reader{skus: cfg.Table(), unknown: unknown}
}

// Read parses the manifest at path and selects the first recipient, in
// document order, whose mailadr1 starts with the first four characters of
// hint. Only file and XML syntax problems are errors.
func (r *Reader) Read(path, hint string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "manifest", "open", path, err)
	}
	defer file.Close()
	return r.Parse(file, hint)
}

// Parse is Read over an already opened document.
func (r *Reader) Parse(src io.Reader, hint string) (Result, error) {
	var root element
	if err := xml.NewDecoder(src).Decode(&root); err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "manifest", "decode", "", err)
	}

	result := Result{OrderID: NoOrderID}
	if details := root.find("details"); details != nil {
		if id := details.child("orderId"); id != nil {
			result.OrderID = id.text()
		}
	}
	if id := root.find("orderId"); id != nil {
		result.AnyOrderID = id.text()
	}
	if vendor := root.find("vendorIndicator"); vendor != nil {
		result.VendorIndicator = vendor.text()
	}

	prefix := hintPrefix(hint)
	for _, recipient := range root.findAll("recipient") {
		address := recipient.child("mailadr1")
		if address == nil || !strings.HasPrefix(address.text(), prefix) {
			continue
		}
		result.Matched = true
		result.SKU = recipient.childText("sku")
		result.DOCID = recipient.childText("DOCID")
		result.Region = recipient.childText("region_cd")
		if result.SKU != "" && result.DOCID != "" {
			result.Description = r.Describe(result.SKU, result.DOCID)
		}
		break
	}
	return result, nil
}

// Describe renders the item description for a SKU and document id.
func (r *Reader) Describe(sku, docID string) string {
	template, ok := r.skus[sku]
	if !ok {
		return r.unknown
	}
	return strings.ReplaceAll(template, "{DOCID}", docID)
}

func hintPrefix(hint string) string {
	runes := []rune(hint)
	if len(runes) > hintPrefixLength {
		runes = runes[:hintPrefixLength]
	}
	return string(runes)
}

// element is a generic XML tree node; manifests vary in nesting between
// vendors so fields are located by name rather than by fixed path.
type element struct {
	XMLName  xml.Name
	Content  string    `xml:",chardata"`
	Children []element `xml:",any"`
}

func (e *element) text() string {
	return strings.TrimSpace(e.Content)
}

func (e *element) child(name string) *element {
	for i := range e.Children {
		if e.Children[i].XMLName.Local == name {
			return &e.Children[i]
		}
	}
	return nil
}

func (e *element) childText(name string) string {
	if c := e.child(name); c != nil {
		return c.text()
	}
	return ""
}

// find returns the first descendant named name in document order.
func (e *element) find(name string) *element {
	for i := range e.Children {
		c := &e.Children[i]
		if c.XMLName.Local == name {
			return c
		}
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant named name in document order.
func (e *element) findAll(name string) []*element {
	var out []*element
	for i := range e.Children {
		c := &e.Children[i]
		if c.XMLName.Local == name {
			out = append(out, c)
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}
