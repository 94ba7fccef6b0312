package datasets

import (
	"bytes"
	"encoding/json"
)

// loose is a scalar JSON field that may arrive as a string, a number or
// null. It decodes to the textual form either way so ingestion can apply
// one lenient numeric parse.
type loose string

func (l *loose) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*l = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = loose(s)
		return nil
	}
	*l = loose(b)
	return nil
}
