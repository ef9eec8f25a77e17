package testsupport

import (
	"fmt"
	"strings"
)

// Recipient is one recipient element of a fixture manifest.
type Recipient struct {
	Address string
	SKU     string
	DOCID   string
	Region  string
}

// ManifestXML renders a vendor manifest. An empty orderID omits the details
// element and an empty vendor omits vendorIndicator.
func ManifestXML(orderID, vendor string, recipients ...Recipient) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<order>\n")
	if vendor != "" {
		fmt.Fprintf(&b, "  <vendorIndicator>%s</vendorIndicator>\n", vendor)
	}
	if orderID != "" {
		fmt.Fprintf(&b, "  <details>\n    <orderId>%s</orderId>\n  </details>\n", orderID)
	}
	b.WriteString("  <recipients>\n")
	for _, r := range recipients {
		b.WriteString("    <recipient>\n")
		fmt.Fprintf(&b, "      <mailadr1>%s</mailadr1>\n", r.Address)
		if r.SKU != "" {
			fmt.Fprintf(&b, "      <sku>%s</sku>\n", r.SKU)
		}
		if r.DOCID != "" {
			fmt.Fprintf(&b, "      <DOCID>%s</DOCID>\n", r.DOCID)
		}
		if r.Region != "" {
			fmt.Fprintf(&b, "      <region_cd>%s</region_cd>\n", r.Region)
		}
		b.WriteString("    </recipient>\n")
	}
	b.WriteString("  </recipients>\n</order>\n")
	return b.String()
}
