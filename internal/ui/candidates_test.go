package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bamsammich/offload/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() scan.Result {
	return scan.Result{
		Candidates: []scan.Candidate{
			{Path: "/data/Roaming/Slack", Size: 3 << 30},
			{Path: "/data/Local/Spotify", Size: 700 << 20},
		},
		Skipped: []scan.Skip{{Path: "/data/Local/Locked", Err: errors.New("permission denied")}},
	}
}

func TestWriteCandidatesPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, sampleResult(), ListOptions{Mode: ListPlain}))

	assert.Equal(t,
		"3221225472\t/data/Roaming/Slack\n734003200\t/data/Local/Spotify\n",
		buf.String())
}

func TestWriteCandidatesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, sampleResult(), ListOptions{Mode: ListJSON, Threshold: 50 << 20}))

	var got candidateReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, int64(50<<20), got.Threshold)
	assert.Equal(t, int64(3<<30+700<<20), got.TotalSize)
	require.Len(t, got.Candidates, 2)
	assert.Equal(t, "/data/Roaming/Slack", got.Candidates[0].Path)
	require.Len(t, got.Skipped, 1)
	assert.Equal(t, "permission denied", got.Skipped[0].Error)
}

func TestWriteCandidatesJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, scan.Result{}, ListOptions{Mode: ListJSON}))

	assert.Contains(t, buf.String(), `"candidates": []`)
	assert.NotContains(t, buf.String(), "skipped")
}

func TestWriteCandidatesTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, sampleResult(), ListOptions{Mode: ListTable, Width: 100}))

	out := buf.String()
	assert.Contains(t, out, "SIZE")
	assert.Contains(t, out, "3.0 GiB")
	assert.Contains(t, out, "/data/Roaming/Slack")
	assert.Contains(t, out, "700.0 MiB")
	assert.Contains(t, out, "2 folders, 3.7 GiB total")
	assert.Less(t, strings.Index(out, "Slack"), strings.Index(out, "Spotify"), "rank order kept")
}

func TestWriteCandidatesTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, scan.Result{}, ListOptions{Mode: ListTable, Threshold: 50 << 20}))
	assert.Contains(t, buf.String(), "no folders of 50.0 MiB or more")
}

func TestWriteSkips(t *testing.T) {
	var buf bytes.Buffer
	WriteSkips(&buf, nil, true)
	assert.Empty(t, buf.String())

	WriteSkips(&buf, sampleResult().Skipped, false)
	assert.Contains(t, buf.String(), "1 folders could not be sized")

	buf.Reset()
	WriteSkips(&buf, sampleResult().Skipped, true)
	assert.Contains(t, buf.String(), "/data/Local/Locked: permission denied")
}
