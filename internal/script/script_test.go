package script_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finnychat/internal/script"
)

func TestParse(t *testing.T) {
	input := "# monthly import\r\n" +
		"add rent $1200 today\r\n" +
		"\r\n" +
		"   show transactions from this month   \r\n" +
		"  # trailing note\n"

	cmds, err := script.Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []script.Command{
		{Line: 2, Text: "add rent $1200 today"},
		{Line: 4, Text: "show transactions from this month"},
	}, cmds)
}

func TestParse_Latin1(t *testing.T) {
	cmds, err := script.Parse(strings.NewReader("add caf\xe9 $4 today\n"))
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "add café $4 today", cmds[0].Text)
}

func TestParse_LineTooLong(t *testing.T) {
	_, err := script.Parse(strings.NewReader(strings.Repeat("a", 70*1024)))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	cmds, err := script.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cmds)
}
