package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lltrie/internal/parser"
	"lltrie/notation"
)

func TestStart(t *testing.T) {
	g, err := notation.LoadString("kv.ebnf", `
token key = /[a-z]+/;
token value = /[0-9]+/;
pair = key "=" value;
list = pair { "," pair };
`)
	require.NoError(t, err)
	require.NoError(t, g.Normalize())
	p, err := parser.Build(g)
	require.NoError(t, err)

	in := strings.NewReader("a = 1\nb =\n:start list\na=1, b=2\n")
	var out bytes.Buffer
	Start(in, &out, p, "pair")

	assert.Equal(t, `>> pair = key "=" value
  key "a"
  value "1"
>> error: parsing pair: no match
>> start: list
>> list = pair N_0
  pair = key "=" value
    key "a"
    value "1"
  N_0 = "," pair N_0
    pair = key "=" value
      key "b"
      value "2"
    N_0 = ε
`+">> \n", out.String())
}
