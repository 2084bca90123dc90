package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Error(t *testing.T) {
	err := SchemaViolation("duplicate job_id 7", nil)
	assert.Equal(t, "SCHEMA_VIOLATION: duplicate job_id 7", err.Error())

	wrapped := Unavailable("ping clickhouse", io.EOF)
	assert.Equal(t, "UNAVAILABLE: ping clickhouse: EOF", wrapped.Error())
	assert.ErrorIs(t, wrapped, io.EOF)
}

func TestDomainError_CapturesStack(t *testing.T) {
	err := TypeCoercion("job_work_from_home", nil)
	require.NotEmpty(t, err.StackTrace())
}

func TestIsType(t *testing.T) {
	inner := TypeCoercion("job_work_from_home = \"maybe\"", nil)
	outer := fmt.Errorf("load postings: %w", SchemaViolation("posting 3", inner))

	assert.True(t, IsType(outer, ErrTypeSchemaViolation))
	assert.True(t, IsType(outer, ErrTypeTypeCoercion))
	assert.False(t, IsType(outer, ErrTypeEmptyGroup))
	assert.False(t, IsType(io.EOF, ErrTypeInternal))
	assert.False(t, IsType(nil, ErrTypeInternal))
}
