package handlers

import "fmt"

// param pairs a required field's wire name with whether the payload set it.
type param struct {
	name string
	set  bool
}

// missingParams reports absent required fields by name, in declaration
// order, formatted exactly as the wire contract's error message. It returns
// the empty string when nothing is missing.
func missingParams(params ...param) string {
	missing := ""
	for _, p := range params {
		if !p.set {
			missing += fmt.Sprintf("'%s',", p.name)
		}
	}
	if missing == "" {
		return ""
	}
	return fmt.Sprintf("Parameters %s are missing", missing)
}
