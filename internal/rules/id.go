package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// now is swapped in tests.
var now = time.Now

// GenerateID returns "<type>-<unixmillis>-<6 hex chars>".
func GenerateID(t Type) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%d-%s", t, now().UnixMilli(), suffix)
}
