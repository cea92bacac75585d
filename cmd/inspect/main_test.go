package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePairs(t *testing.T) {
	pairs, err := parsePairs([]string{"2=B", "1=A", "x="})
	require.NoError(t, err)
	assert.Equal(t, []pair{{"2", "B"}, {"1", "A"}, {"x", ""}}, pairs)

	_, err = parsePairs([]string{"novalue"})
	assert.Error(t, err)
	_, err = parsePairs([]string{"=v"})
	assert.Error(t, err)
}

func TestNumeric(t *testing.T) {
	assert.True(t, numeric([]pair{{"1", "a"}, {"-3", "b"}}, []string{"99"}))
	assert.False(t, numeric([]pair{{"1", "a"}, {"b", "b"}}, nil))
	assert.False(t, numeric([]pair{{"1", "a"}}, []string{"x"}))
}

func TestInspect(t *testing.T) {
	pairs, err := parsePairs(strings.Fields("2=B 1=A 3=C 4=D 5=E 6=F"))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = inspect(&buf, 42, pairs, []string{"2", "99"}, true, func(s string) string { return s })
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "length:6")
	assert.Contains(t, out, "level 1 : H ->1 ->2 ->3 ->4 ->5 ->6")
	assert.Contains(t, out, "get(2) = B")
	assert.Contains(t, out, "get(99) = <absent>")
}
