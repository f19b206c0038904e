package clf

import (
	"net/netip"
	"strconv"
	"strings"

	"github.com/roach88/ipl2sql/internal/iplog"
)

// Fixed delimiters between fields.
const (
	delimAfterIP      = " - - ["
	delimAfterTime    = `] "`
	delimAfterRequest = `" `
	delimAfterStatus  = " "
	delimQuoted       = ` "`
)

// unavailable marks a field the server did not log.
const unavailable = "-"

// Parse extracts and validates the seven fields of one log line. The line may
// still carry its trailing newline.
func Parse(line string) (iplog.Record, error) {
	var rec iplog.Record

	ip, ok := upTo(line, " ")
	if !ok || !validIPv4(ip) {
		return iplog.Record{}, reject(KindInvalidIPAddress, "%q", ip)
	}
	rec.IPAddress = ip

	rest := skipPast(line, delimAfterIP)
	ts, ok := upTo(rest, "]")
	if !ok || ts == "" {
		return iplog.Record{}, reject(KindMalformedDateTime, "no bracketed timestamp")
	}
	rec.LogDateTime = ts

	rest = skipPast(rest, delimAfterTime)
	request, ok := upTo(rest, `"`)
	if !ok {
		return iplog.Record{}, reject(KindInvalidMethod, "unterminated request field")
	}
	if request != unavailable {
		method, _, _ := strings.Cut(request, " ")
		if !IsMethod(method) {
			return iplog.Record{}, reject(KindInvalidMethod, "%q", request)
		}
	}
	rec.MethodURI = request

	rest = skipPast(rest, delimAfterRequest)
	statusText, ok := upTo(rest, " ")
	status, err := strconv.Atoi(statusText)
	if !ok || err != nil {
		return iplog.Record{}, reject(KindInvalidStatus, "%q", statusText)
	}
	rec.Status = status

	rest = skipPast(rest, delimAfterStatus)
	sizeText, ok := upTo(rest, " ")
	if !ok {
		return iplog.Record{}, reject(KindInvalidPageSize, "missing page size")
	}
	if sizeText == unavailable {
		rec.PageSize = iplog.PageSizeUnavailable
	} else {
		size, err := strconv.Atoi(sizeText)
		if err != nil {
			return iplog.Record{}, reject(KindInvalidPageSize, "%q", sizeText)
		}
		rec.PageSize = size
	}

	rest = skipPast(rest, delimQuoted)
	referer, ok := upTo(rest, `"`)
	if !ok {
		return iplog.Record{}, reject(KindMalformedReferer, "no closing quote")
	}
	rec.Referer = referer

	rest = skipPast(rest, delimQuoted)
	agent, ok := upTo(rest, `"`)
	if !ok {
		return iplog.Record{}, reject(KindMalformedAgent, "no closing quote")
	}
	rec.Agent = agent

	return rec, nil
}

// upTo returns the text before the first sep. ok is false when sep is absent.
func upTo(s, sep string) (string, bool) {
	field, _, ok := strings.Cut(s, sep)
	if !ok {
		return "", false
	}
	return field, true
}

// skipPast returns the text after the first occurrence of delim, or "" when
// delim does not occur.
func skipPast(s, delim string) string {
	_, after, ok := strings.Cut(s, delim)
	if !ok {
		return ""
	}
	return after
}

// validIPv4 accepts dotted-quad IPv4 text. The all-ones broadcast address
// 255.255.255.255 is treated as a sentinel and refused.
func validIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return false
	}
	return addr != netip.AddrFrom4([4]byte{255, 255, 255, 255})
}
