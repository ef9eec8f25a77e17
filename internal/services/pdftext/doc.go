// Package pdftext reads the text layer of scanned PDF documents with pdfcpu.
//
// Scanners that produce the fulfillment labels embed an OCR text layer. The
// extractor walks each page's content stream and turns text-showing
// operators into lines, starting a new line at every text positioning
// operator. Pages without a text layer come back empty rather than failing,
// which the record builder treats like any other missing field.
package pdftext
