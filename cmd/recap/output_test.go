package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/albapepper/dci-recap/internal/poll"
	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
	"github.com/albapepper/dci-recap/internal/seen"
)

var entries = []seen.Entry{
	{Name: "Show One", Date: "2022-06-01", ID: "A1"},
	{Name: "Show, Two", Date: "2022-06-08", ID: "A2"},
}

func TestWriteSeen_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSeen(&buf, entries, "json"))

	var got []seen.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, entries, got)
}

func TestWriteSeen_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSeen(&buf, entries, "yaml"))

	assert.Contains(t, buf.String(), "- name: Show One\n  date: \"2022-06-01\"\n  id: A1\n")

	var got []seen.Entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, entries, got)
}

func TestWriteSeen_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSeen(&buf, entries, "text"))

	assert.Equal(t,
		"DATE        NAME       ID\n"+
			"2022-06-01  Show One   A1\n"+
			"2022-06-08  Show, Two  A2\n",
		buf.String())
}

func TestWriteSeen_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSeen(&buf, nil, "json"))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteSeen_UnknownFormat(t *testing.T) {
	assert.Error(t, writeSeen(&bytes.Buffer{}, entries, "xml"))
}

func TestWriteEvents(t *testing.T) {
	var buf bytes.Buffer
	err := writeEvents(&buf, []poll.EventStatus{
		{Event: competitionsuite.Event{ID: "A1", Name: "Show One", Date: "2022-06-01"}, Seen: true},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Show One")
	assert.Contains(t, buf.String(), "true")
}
