// Package refdb loads reference tables (KRX industries, past market issues)
// and exposes them as the trusted dictionary of names used to validate
// candidates.
//
// Tables are CSV files with a header row. UTF-8 input is read as is, with a
// leading byte order mark removed from the header; anything else is decoded
// as CP949, the encoding spreadsheet tools commonly emit for Korean text.
// Every cell is normalised to NFC so names typed on different systems compare
// equal.
package refdb
