package fulfillment

import "fulfill/internal/extraction"

// Export column names, in spreadsheet order.
const (
	ColOrderID         = "Order ID"
	ColInvoiceNumber   = "Invoice Number"
	ColSKU             = "SKU"
	ColItemDescription = "Item Description"
	ColVendor          = "Vendor"
	ColOrderReceived   = "Order Received"
	ColIsKit           = "IsKit"
	ColQty             = "Qty"
	ColUnitPrice       = "Unit Price"
	ColTax             = "Tax"
	ColMRNPrefix       = "Prefix of MRN"
	ColMRN             = "Medical Record Number"
	ColFirstName       = "First Name"
	ColLastName        = "Last Name"
	ColRegion          = "Region"
	ColAddressLine     = "Address Line"
	ColAddressLine2    = "Address Line 2"
	ColCity            = "City"
	ColState           = "State"
)

// ExportHeaders lists the export columns in order.
var ExportHeaders = []string{
	ColOrderID, ColInvoiceNumber, ColSKU, ColItemDescription, ColVendor, ColOrderReceived,
	ColIsKit, ColQty, ColUnitPrice, ColTax, ColMRNPrefix, ColMRN, ColFirstName, ColLastName,
	ColRegion, ColAddressLine, ColAddressLine2, ColCity, ColState,
}

// OrderReceivedLayout formats the Order Received column.
const OrderReceivedLayout = "01/02/2006"

// Record is one export row: a scanned document joined with its manifest
// recipient.
type Record struct {
	OrderID         string
	InvoiceNumber   string
	SKU             string
	ItemDescription string
	Vendor          string
	OrderReceived   string
	IsKit           string
	Qty             string
	UnitPrice       string
	Tax             string
	Region          string
	extraction.Fields

	// Source is the document the record was built from.
	Source string
}

// Row returns the record keyed by export column.
func (r Record) Row() map[string]string {
	return map[string]string{
		ColOrderID:         r.OrderID,
		ColInvoiceNumber:   r.InvoiceNumber,
		ColSKU:             r.SKU,
		ColItemDescription: r.ItemDescription,
		ColVendor:          r.Vendor,
		ColOrderReceived:   r.OrderReceived,
		ColIsKit:           r.IsKit,
		ColQty:             r.Qty,
		ColUnitPrice:       r.UnitPrice,
		ColTax:             r.Tax,
		ColMRNPrefix:       r.MRNPrefix,
		ColMRN:             r.MRN,
		ColFirstName:       r.FirstName,
		ColLastName:        r.LastName,
		ColRegion:          r.Region,
		ColAddressLine:     r.AddressLine1,
		ColAddressLine2:    r.AddressLine2,
		ColCity:            r.City,
		ColState:           r.State,
	}
}

// Rows converts records for a spreadsheet sink.
func Rows(records []Record) []map[string]string {
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.Row())
	}
	return rows
}

// DocumentResult reports how one document fared. Err is nil on success.
type DocumentResult struct {
	Path string
	Err  error
}

// Batch accumulates the output of BuildRecords.
type Batch struct {
	Records   []Record
	Documents []DocumentResult
	// Orders counts directories that contributed records.
	Orders int
}

// Failed returns the documents whose text could not be read.
func (b Batch) Failed() []DocumentResult {
	var failed []DocumentResult
	for _, result := range b.Documents {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}
