package internal

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := "name,url\nShell,https://www.shell.nl\nTinq,https://www.tinq.nl\n"

	var names []string
	for record := range ParseCSV(strings.NewReader(input), true, func(record, headers []string) (string, error) {
		require.Equal(t, []string{"name", "url"}, headers)
		return record[0], nil
	}) {
		require.NoError(t, record.Error)
		names = append(names, record.Value)
	}

	assert.Equal(t, []string{"Shell", "Tinq"}, names)
}

func TestParseCSVStopsOnError(t *testing.T) {
	input := "a\nb\nc\n"

	count := 0
	var lastErr error
	for record := range ParseCSV(strings.NewReader(input), false, func(record, headers []string) (string, error) {
		if record[0] == "b" {
			return "", errors.New("bad record")
		}
		return record[0], nil
	}) {
		count++
		lastErr = record.Error
	}

	assert.Equal(t, 2, count)
	assert.EqualError(t, lastErr, "bad record")
}
