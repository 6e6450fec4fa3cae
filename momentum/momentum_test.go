package momentum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, Unknown, Classify(0, 0, 0, 0))
	assert.Equal(t, Broken, Classify(10, 100, 101, 102))
	assert.Equal(t, Moderate, Classify(20, 100, 101, 102))
	assert.Equal(t, Strong, Classify(30, 100, 101, 102))
	// High ADX but two consecutive declining closes demotes to moderate.
	assert.Equal(t, Moderate, Classify(30, 102, 101, 100))
}
