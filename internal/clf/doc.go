// Package clf parses Apache Combined Log Format lines into iplog records.
//
// The expected layout is fixed and matched literally:
//
//	IP - - [TIMESTAMP] "METHOD-URI" STATUS PAGESIZE "REFERER" "AGENT"
//
// Parsing walks the line left to right. Each step takes the text up to the
// next delimiter as a field, validates it, then skips past the next fixed
// delimiter sequence. The first invalid field aborts the line; Parse never
// returns a partially filled record.
//
// Two placeholder values are accepted rather than rejected:
//   - MethodURI "-" is valid and bypasses the method allow-list
//   - PageSize "-" is mapped to iplog.PageSizeUnavailable
package clf
