package correlation

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCorrelationID_GeneratesULID(t *testing.T) {
	ctx, cid := EnsureCorrelationID(context.Background())

	_, err := ulid.Parse(cid)
	require.NoError(t, err)
	assert.Equal(t, cid, ExtractCorrelationID(ctx))

	_, again := EnsureCorrelationID(ctx)
	assert.Equal(t, cid, again)
}

func TestFromHeader_KeepsInboundValue(t *testing.T) {
	ctx, cid := FromHeader(context.Background(), " abc ")
	assert.Equal(t, "abc", cid)
	assert.Equal(t, "abc", ExtractCorrelationID(ctx))

	_, generated := FromHeader(context.Background(), "")
	assert.NotEmpty(t, generated)
}

func TestExtractCorrelationID_NilContext(t *testing.T) {
	//nolint:staticcheck
	assert.Empty(t, ExtractCorrelationID(nil))
}
