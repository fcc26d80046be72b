// Package importer loads flashcards into a deck from a spreadsheet. Excel
// workbooks are read with excelize and .csv files with encoding/csv; the
// front of each card comes from one column and the back from another.
package importer
