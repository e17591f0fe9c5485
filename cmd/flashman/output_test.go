package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/flashman/internal/browser"
)

func captureOutput(t *testing.T, cfg OutputConfig) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr, prevCfg := stdout, stderr, outputCfg
	stdout, stderr, outputCfg = &out, &errOut, cfg
	t.Cleanup(func() {
		stdout, stderr, outputCfg = prevOut, prevErr, prevCfg
	})
	return &out, &errOut
}

func TestPrintTable(t *testing.T) {
	out, _ := captureOutput(t, OutputConfig{})

	PrintTable([]string{"#", "TITLE"}, [][]string{{"1", "Bloons"}, {"10", "Café"}})
	assert.Equal(t, "#   TITLE\n--  ------\n1   Bloons\n10  Café\n", out.String())
}

func TestPrintTableJSON(t *testing.T) {
	out, _ := captureOutput(t, OutputConfig{JSON: true})

	PrintTable([]string{"id", "title"}, [][]string{{"a", "Alpha"}})
	assert.JSONEq(t, `[{"id":"a","title":"Alpha"}]`, out.String())
}

func TestPrintInfoQuiet(t *testing.T) {
	out, _ := captureOutput(t, OutputConfig{Quiet: true})
	PrintInfo("hello %s\n", "world")
	assert.Empty(t, out.String())

	PrintResult("still printed")
	assert.Equal(t, "still printed\n", out.String())
}

func TestReport(t *testing.T) {
	out, errOut := captureOutput(t, OutputConfig{})

	require.NoError(t, report([]browser.Event{
		browser.OperationResult{Kind: browser.Success, Message: browser.MsgAdded},
		browser.CollectionChanged{},
	}))
	assert.Equal(t, browser.MsgAdded+"\n", out.String())

	require.NoError(t, report([]browser.Event{browser.OperationResult{Kind: browser.Warning, Message: browser.MsgAlreadyOwned}}))
	assert.Equal(t, browser.MsgAlreadyOwned+"\n", errOut.String())

	err := report([]browser.Event{browser.OperationResult{Kind: browser.Failure, Message: browser.MsgNotOwned}})
	assert.EqualError(t, err, browser.MsgNotOwned)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 0, pages(0, 15))
	assert.Equal(t, 1, pages(15, 15))
	assert.Equal(t, 3, pages(32, 15))

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
