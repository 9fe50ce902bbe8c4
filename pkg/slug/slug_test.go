package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Visa Guide: UAE 2024!", "visa-guide-uae-2024"},
		{"How do I apply?", "how-do-i-apply"},
		{"  --Hello__World--  ", "hello-world"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER case", "upper-case"},
		{"!!!", ""},
		{"", ""},
		{"a", "a"},
		{"Fees & Payments", "fees-payments"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.title), "title %q", tc.title)
	}
}
