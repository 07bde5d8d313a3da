package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateEmptyIsZero(t *testing.T) {
	got, err := parseDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestParseDateValid(t *testing.T) {
	got, err := parseDate("March 2, 2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateInvalid(t *testing.T) {
	_, err := parseDate("not a date")
	assert.Error(t, err)
}
