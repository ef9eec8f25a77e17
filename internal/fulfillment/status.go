package fulfillment

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fulfill/internal/config"
	"fulfill/internal/fileutil"
	"fulfill/internal/schedule"
	"fulfill/internal/services"
)

const (
	// StatusDirName holds the status documents of a main or batch directory.
	StatusDirName = config.StatusDirName
	// StatusReceived is the only status this pipeline emits.
	StatusReceived = "Received"
)

// StatusDocument is the per-order status record sent back to the vendor.
// Field order is the wire order of both the XML document and ledger rows.
type StatusDocument struct {
	XMLName        xml.Name `xml:"fulfillment"`
	VendorID       string   `xml:"VendorID"`
	OrderID        string   `xml:"OrderID"`
	Status         string   `xml:"Status"`
	ReceivedDate   string   `xml:"ReceivedDate"`
	ShipDate       string   `xml:"ShipDate"`
	ShippingMethod string   `xml:"ShippingMethod"`
	ShippingCost   string   `xml:"ShippingCost"`
	Comments       string   `xml:"Comments"`
	PackagesCount  string   `xml:"PackagesCount"`
	Tracking       string   `xml:"Tracking"`
}

// Row returns the document as a ledger row.
func (d StatusDocument) Row() []string {
	return []string{
		d.VendorID,
		d.OrderID,
		d.Status,
		d.ReceivedDate,
		d.ShipDate,
		d.ShippingMethod,
		d.ShippingCost,
		d.Comments,
		d.PackagesCount,
		d.Tracking,
	}
}

// StatusFor builds the status document of an order received on the given
// day. vendorID overrides the configured status vendor when non-empty.
func StatusFor(orderID string, received time.Time, vendor config.Vendor, businessDays int, vendorID string) StatusDocument {
	if vendorID == "" {
		vendorID = vendor.StatusVendorID
	}
	return StatusDocument{
		VendorID:       vendorID,
		OrderID:        orderID,
		Status:         StatusReceived,
		ReceivedDate:   received.Format(schedule.DateLayout),
		ShipDate:       schedule.AddWeekdays(received, businessDays).Format(schedule.DateLayout),
		ShippingMethod: vendor.ShippingMethod,
		ShippingCost:   vendor.ShippingCost,
	}
}

// StatusPath returns where the status document of orderID lives under dir.
func StatusPath(dir, orderID string) string {
	return filepath.Join(dir, StatusDirName, fmt.Sprintf("order_%s.xml", orderID))
}

// WriteStatus writes doc to {dir}/XML/order_{id}.xml, replacing any previous
// version, and returns the path.
func WriteStatus(dir string, doc StatusDocument) (string, error) {
	return writeStatusAt(StatusPath(dir, doc.OrderID), doc)
}

func writeStatusAt(path string, doc StatusDocument) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "status", "create XML dir", filepath.Dir(path), err)
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "status", "encode", doc.OrderID, err)
	}
	body = append(body, '\n')
	if _, err := fileutil.WriteAtomic(path, bytes.NewReader(body), 0o644); err != nil {
		return "", services.Wrap(services.ErrTransient, "status", "write", path, err)
	}
	return path, nil
}

// ReadStatus parses a status document. Missing elements read as empty.
func ReadStatus(path string) (StatusDocument, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return StatusDocument{}, services.Wrap(services.ErrNotFound, "status", "read", path, err)
	}
	var doc StatusDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return StatusDocument{}, services.Wrap(services.ErrValidation, "status", "decode", path, err)
	}
	return doc, nil
}
