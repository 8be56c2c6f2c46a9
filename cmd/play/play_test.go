package play

import (
	"strings"
	"testing"
)

func TestHelpDescribesHintAsSharedTry(t *testing.T) {
	long := Cmd().Long
	if strings.Contains(long, "costs an attempt") {
		t.Error("help should not claim a hint consumes an attempt")
	}
	if !strings.Contains(long, "uses one of the five tries") {
		t.Errorf("help should explain hints share the five tries, got:\n%s", long)
	}
}
