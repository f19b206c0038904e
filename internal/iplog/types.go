package iplog

import "time"

// PageSizeUnavailable replaces a "-" page size.
const PageSizeUnavailable = -1

// InsertionTimeLayout formats insertion timestamps as yyyy.mmdd.hhmm.ss,
// which sorts lexicographically in a text column.
const InsertionTimeLayout = "2006.0102.1504.05"

// Record is one parsed and validated access-log line.
type Record struct {
	IPAddress   string `json:"ip_address"`
	LogDateTime string `json:"log_date_time"` // verbatim text between the brackets
	MethodURI   string `json:"method_uri"`    // "-" or "<METHOD> <uri> <proto>"
	Status      int    `json:"status"`
	PageSize    int    `json:"page_size"`
	Referer     string `json:"referer"`
	Agent       string `json:"agent"`
}

// StoredRecord is a Record as it is written to the store.
type StoredRecord struct {
	ID            int64  `json:"id"` // assigned by the store on append; 0 before
	Record        `json:"record"`
	OriginHost    string `json:"origin_host"`
	InsertionTime string `json:"insertion_time"`
}

// NewStoredRecord stamps rec with the origin host and the insertion time.
func NewStoredRecord(rec Record, originHost string, now time.Time) StoredRecord {
	return StoredRecord{
		Record:        rec,
		OriginHost:    originHost,
		InsertionTime: FormatInsertionTime(now),
	}
}

// FormatInsertionTime renders t with InsertionTimeLayout.
func FormatInsertionTime(t time.Time) string {
	return t.Format(InsertionTimeLayout)
}

// SameAs reports whether two stored records share the same uniqueness key.
func (s StoredRecord) SameAs(other StoredRecord) bool {
	return s.Record == other.Record && s.OriginHost == other.OriginHost
}
