// Package fulfillment turns populated order directories into status
// documents and export records.
//
// A status document (XML/order_{id}.xml, root element "fulfillment") is
// emitted for every order that holds at least one scanned document and a
// manifest. Records are produced one per document by joining the fields
// extracted from its text with the manifest recipient it correlates to.
// Documents whose text cannot be read yield sentinel fields and a failed
// DocumentResult; they never stop the batch.
package fulfillment
