package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProgress_NotATerminal(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(&buf, 10, "Importing")
	assert.False(t, p.Active())

	for i := 0; i < 10; i++ {
		p.Step()
	}
	assert.Empty(t, buf.String())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
