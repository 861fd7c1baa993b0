package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "Sacramento", FirstNonEmpty("", "  ", " Sacramento ", "Golden 1 Center"))
	assert.Equal(t, "", FirstNonEmpty())
	assert.Equal(t, "", FirstNonEmpty(" ", ""))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a, b", "c"}, SplitList(" a, b ;; c ;", ";"))
	assert.Nil(t, SplitList("", ";"))
}
