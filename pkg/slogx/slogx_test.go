package slogx_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/harshalself/authgate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterCarriesServiceAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slogx.NewWithWriter(&buf, slogx.Config{
		Service: "authgate",
		Version: "1.2.3",
		Env:     "prod",
		Level:   "info",
		Format:  "json",
	})

	logger.Info("boot")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "authgate", line["service"])
	require.Equal(t, "1.2.3", line["version"])
	require.Equal(t, "prod", line["env"])
	require.Equal(t, "boot", line["msg"])
}

func TestNewWithWriterFiltersBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slogx.NewWithWriter(&buf, slogx.Config{Level: "warn", Format: "text"})

	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Warn("kept")
	require.Contains(t, buf.String(), "msg=kept")
}
