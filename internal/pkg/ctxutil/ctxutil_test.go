package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestDataRoundTrip(t *testing.T) {
	assert.Nil(t, GetRequestData(context.Background()))

	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id, Role: "ADMIN"})
	rd := GetRequestData(ctx)
	require.NotNil(t, rd)
	assert.Equal(t, id, rd.UserID)
}

func TestDetachedKeepsValuesAfterCancel(t *testing.T) {
	//nolint:staticcheck
	assert.NotNil(t, Detached(nil))

	parent, cancel := context.WithCancel(WithTraceData(context.Background(), &TraceData{TraceID: "t1"}))
	ctx := Detached(parent)
	cancel()
	require.Error(t, parent.Err())
	assert.NoError(t, ctx.Err())
	require.NotNil(t, GetTraceData(ctx))
	assert.Equal(t, "t1", GetTraceData(ctx).TraceID)
}

func TestTraceDataRoundTrip(t *testing.T) {
	assert.Nil(t, GetTraceData(context.Background()))

	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	td := GetTraceData(ctx)
	require.NotNil(t, td)
	assert.Equal(t, "t1", td.TraceID)
	assert.Equal(t, "r1", td.RequestID)
}
