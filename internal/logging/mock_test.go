package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	mock := NewMockLogger()

	mock.Info("root")
	mock.WithField(FieldMessageID, "7").Warn("child")
	mock.WithError(errors.New("boom")).Error("failed")

	entries := mock.Entries()
	require.Len(t, entries, 3)
	assert.True(t, mock.HasEntry("WARN", "child"))

	v, ok := entries[1].FieldValue(FieldMessageID)
	require.True(t, ok)
	assert.Equal(t, "7", v)
	assert.EqualError(t, entries[2].Error, "boom")
}

func TestMockLogger_EntriesByLevel(t *testing.T) {
	mock := NewMockLogger()
	mock.Debug("a")
	mock.Debug("b")
	mock.Info("c")

	assert.Len(t, mock.EntriesByLevel("DEBUG"), 2)
	assert.Len(t, mock.EntriesByLevel("ERROR"), 0)
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var mock MockLogger
	mock.Fatal("does not exit")
	assert.True(t, mock.HasEntry("FATAL", "does not exit"))
}
