package clf

// httpMethods is the IANA method registry, most frequent first so the linear
// scan in IsMethod usually stops early. The rest are alphabetical.
var httpMethods = []string{
	"HEAD",
	"GET",
	"POST",
	"PUT",
	"DELETE",
	"TRACE",
	"OPTIONS",
	"CONNECT",

	"ACL",
	"BASELINE-CONTROL",
	"BIND",
	"CHECKIN",
	"CHECKOUT",
	"COPY",
	"LABEL",
	"LINK",
	"LOCK",
	"MERGE",
	"MKACTIVITY",
	"MKCALENDAR",
	"MKCOL",
	"MKREDIRECTREF",
	"MKWORKSPACE",
	"MOVE",
	"ORDERPATCH",
	"PATCH",
	"PROPFIND",
	"PROPPATCH",
	"REBIND",
	"REPORT",
	"SEARCH",
	"UNBIND",
	"UNCHECKOUT",
	"UNLINK",
	"UNLOCK",
	"UPDATE",
	"UPDATEREDIRECTREF",
	"VERSION-CONTROL",
}

// IsMethod reports whether name is a recognized HTTP method.
// Matching is case-sensitive.
func IsMethod(name string) bool {
	for _, m := range httpMethods {
		if m == name {
			return true
		}
	}
	return false
}

// Methods returns a copy of the allow-list in lookup order.
func Methods() []string {
	out := make([]string, len(httpMethods))
	copy(out, httpMethods)
	return out
}
