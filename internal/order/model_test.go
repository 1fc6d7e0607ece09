package order

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerateOrderNumber_Format(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[0-9A-Z]+-[0-9A-Z]{4}$`)
	for i := 0; i < 100; i++ {
		n := GenerateOrderNumber()
		if !re.MatchString(n) {
			t.Fatalf("order number %q does not match expected format", n)
		}
		if strings.ToUpper(n) != n {
			t.Fatalf("order number %q is not uppercase", n)
		}
	}
}
