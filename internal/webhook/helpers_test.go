package webhook_test

import (
	"strconv"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
