package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []Entry {
	t.Helper()
	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestLogger_WritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelInfo, Now: fixedClock})

	log.Info("login_attempt", Username("alice"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "2025-03-01T10:30:00Z", entries[0].Timestamp)
	assert.Equal(t, "info", entries[0].Level)
	assert.Equal(t, "login_attempt", entries[0].Message)
	assert.Equal(t, "alice", entries[0].Meta["username"])
}

func TestLogger_EmptyMetaIsObject(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Now: fixedClock})

	log.Info("list_courses_attempt")

	assert.Contains(t, buf.String(), `"meta":{}`)
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelError})

	log.Info("dropped")
	log.Error("kept", Err(errors.New("boom")))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0].Level)
	assert.Equal(t, "boom", entries[0].Meta["error"])
}

func TestLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Options{Output: &buf})
	child := parent.With(Component("facade"))

	parent.Info("parent")
	child.Info("child")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0].Meta, "component")
	assert.Equal(t, "facade", entries[1].Meta["component"])
}

func TestLogger_ConcurrentWritesStayLineDelimited(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf})
	child := log.With(Component("worker"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				log.Info("parent", Int("i", i))
			} else {
				child.Info("child", Int("i", i))
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, decodeLines(t, &buf), 50)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelInfo},
		{"INFO", LevelInfo},
		{" Error ", LevelError},
		{"warn", LevelInfo},
		{"nonsense", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}
