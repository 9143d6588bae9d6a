package status

// table holds every code with a dedicated category. Codes missing from the
// table classify as Error{UnknownError}, including valid 2xx and 3xx codes
// other than 200.
var table = func() map[uint16]Category {
	t := map[uint16]Category{200: OK{}}
	for r, e := range failedReasons {
		t[e.code] = Failed{Reason: r}
	}
	for r, e := range errorReasons {
		if r == UnknownError {
			continue
		}
		t[e.code] = Error{Reason: r}
	}
	return t
}()

// Classify maps a status code to its category. It is total: codes outside
// the table yield Error{UnknownError}.
func Classify(code uint16) Category {
	if c, ok := table[code]; ok {
		return c
	}
	return Error{Reason: UnknownError}
}

// Label returns the lowercase label of a category. A nil category reports
// the unknown error label.
func Label(c Category) string {
	if c == nil {
		return labelUnknownError
	}
	return c.String()
}

// LabelFor returns the canonical label of a raw status code.
func LabelFor(code uint16) string {
	return Label(Classify(code))
}
