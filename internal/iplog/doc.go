// Package iplog defines the record types shared by the parser, the ingest
// runner and the store.
//
// This package contains type definitions only and imports nothing internal.
//
// Key constraints:
//   - A Record is produced whole or not at all; there are no partial records
//   - PageSize "-" is carried as PageSizeUnavailable (-1) so the column stays numeric
//   - Uniqueness is the seven Record fields plus OriginHost; ID and
//     InsertionTime never take part in comparisons
//   - All JSON tags use snake_case
package iplog
