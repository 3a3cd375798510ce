package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/finnychat/internal/llm"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Plain", in: "SELECT 1", want: "SELECT 1"},
		{name: "SQLFence", in: "```sql\nSELECT 1\n```", want: "SELECT 1"},
		{name: "BareFence", in: "```\n{\"a\":1}\n```\n", want: `{"a":1}`},
		{name: "Whitespace", in: "  \n view \n", want: "view"},
		{name: "SingleLineFence", in: "```view```", want: "view"},
		{name: "TrailingProse", in: "```json\n{}\n```\nHope this helps", want: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.StripFences(tt.in))
		})
	}
}
