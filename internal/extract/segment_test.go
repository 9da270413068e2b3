package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"three terminators", "First. Second! Third?", []string{"First.", "Second!", "Third?"}},
		{"repeated terminators", "Wait... what?!", []string{"Wait...", "what?!"}},
		{"newlines between sentences", "Line one.\n\nLine two.", []string{"Line one.", "Line two."}},
		{"trailing fragment dropped", "One. trailing fragment", []string{"One."}},
		{"no terminator", "No terminator here", []string{"No terminator here"}},
		{"only terminators", "...", []string{"..."}},
		{"empty", "", []string{""}},
		{"whitespace only", "   ", []string{"   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.in))
		})
	}
}
