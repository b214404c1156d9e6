package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$1099.90", FormatPrice(1099.9))
	assert.Equal(t, "$0.00", FormatPrice(0))
	assert.Equal(t, "$250.00", FormatAmount(decimal.NewFromInt(250)))
	assert.Equal(t, "$0.30", FormatAmount(decimal.NewFromFloat(0.1).Add(decimal.NewFromFloat(0.2))))
}

func TestParseID(t *testing.T) {
	raw := uuid.NewString()

	id, err := ParseID("  "+raw+" ", "ID produit")
	require.NoError(t, err)
	assert.Equal(t, raw, id)

	_, err = ParseID("123", "ID produit")
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, "ID produit invalide", err.(*AppError).Message)
}

func TestNewLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOutput("debug", "json", &buf)
	log.WithField("user_id", "u1").Debug("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "debug", line["severity"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Contains(t, line, "timestamp")
}

func TestNewLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOutput("bavard", "text", &buf)
	log.Debug("caché")
	assert.Empty(t, buf.String())

	log.Info("visible")
	assert.Contains(t, buf.String(), "visible")
}
