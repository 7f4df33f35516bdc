package jsonbind_test

import (
	"os"
	"testing"
	"time"

	"github.com/reoring/jsonbind/node"
)

type Employee struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type Boss struct {
	Employee
	Bad       bool        `json:"bad"`
	Employees []*Employee `json:"employees"`
}

type TestObject struct {
	Name     *string   `json:"name"`
	Age      int       `json:"age"`
	Height   float32   `json:"height"`
	Date     time.Time `json:"date"`
	Employee *Employee `json:"employee"`
	Boss     *Boss     `json:"boss"`
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func strPtr(s string) *string { return &s }

// onlyDateKey is a date override that handles the "date" label and leaves
// every other date field unset.
func onlyDateKey(v node.Node, label string) (any, error) {
	if label != "date" {
		return nil, nil
	}
	s, _ := v.AsString()
	return time.Parse("02/01/2006", s)
}
