package validator

import (
	"strings"

	"github.com/google/uuid"
)

func init() {
	register("uuid", static(IsUUID))
}

// IsUUID validates the canonical 36-character form, checking hyphen
// positions before parsing.
func IsUUID(v string) bool {
	v = strings.TrimSpace(v)
	if len(v) != 36 {
		return false
	}
	if v[8] != '-' || v[13] != '-' || v[18] != '-' || v[23] != '-' {
		return false
	}
	_, err := uuid.Parse(v)
	return err == nil
}
