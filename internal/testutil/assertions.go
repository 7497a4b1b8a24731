package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertTargetLogged checks that a text log record with message msg was
// written for the target with the given id. It abstracts the attribute layout
// of the text handler so tests do not depend on field order.
func AssertTargetLogged(t *testing.T, logs *SafeBuffer, targetID, msg string) {
	t.Helper()

	wantID := "target_id=" + targetID
	wantMsg := fmt.Sprintf("msg=%q", msg)
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, wantID) && strings.Contains(line, wantMsg) {
			return
		}
	}
	require.Failf(t, "log record not found", "no %s record for target %s in logs", msg, targetID)
}
