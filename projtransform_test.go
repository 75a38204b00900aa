package los_test

import (
	"testing"

	los "github.com/yalinlee/los-model"

	"github.com/stretchr/testify/assert"
)

func Test_NoopProjectionTransformer_PassesCoordinatesThrough(t *testing.T) {
	assert := assert.New(t)

	factory := los.NoopProjectionTransformerFactory{}
	transformer, err := factory.Create(0, 1)
	assert.NoError(err)

	x, y, err := transformer.Transform(123.456, -78.9)
	assert.NoError(err)
	assert.Equal(123.456, x)
	assert.Equal(-78.9, y)

	assert.NoError(transformer.Close())
	_, _, err = transformer.Transform(0, 0)
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindInvalidInput, kind)
}

func Test_ThreadsafeTransformsOnly_StickyOnceSet(t *testing.T) {
	assert := assert.New(t)

	before := los.ThreadsafeTransformsOnly()
	los.OnlyAllowThreadsafeTransforms()
	assert.True(los.ThreadsafeTransformsOnly())
	// Calling again must not clear the sticky flag.
	los.OnlyAllowThreadsafeTransforms()
	assert.True(los.ThreadsafeTransformsOnly())
	_ = before
}
