package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"mindcare/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlansCommand_Table(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"plans"})
	plansJSON = false

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Plano Start")
	assert.Contains(t, out.String(), "unlimited")
}

func TestPlansCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"plans", "--json"})
	t.Cleanup(func() { plansJSON = false })

	require.NoError(t, rootCmd.Execute())

	var plans []domain.Plan
	require.NoError(t, json.Unmarshal(out.Bytes(), &plans))
	assert.Len(t, plans, 3)
}
