package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/recordstore/internal/workload"
)

func TestGenerate_ReportShape(t *testing.T) {
	t.Parallel()

	schema := Generate("t", "d", &workload.Report{})

	assert.Equal(t, "object", schema.Type)
	assert.ElementsMatch(t, []string{"run_id", "name", "steps", "members", "customers", "records"}, schema.Required)
	assert.Equal(t, "#/definitions/StepResult", schema.Properties["steps"].Items.Ref)

	step := schema.Definitions["StepResult"]
	require.NotNil(t, step)
	assert.Equal(t, "integer", step.Properties["duration_ns"].Type)
	assert.NotContains(t, step.Required, "value")
	assert.Contains(t, step.Required, "passed")
}

func TestGenerate_ValidatesRealReport(t *testing.T) {
	t.Parallel()

	sc, err := workload.Load(filepath.Join("..", "..", "internal", "workload", "testdata", "month.yaml"))
	require.NoError(t, err)

	report, err := workload.NewRunner().Run(context.Background(), sc)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	schemaJSON, err := json.Marshal(Generate("t", "d", &workload.Report{}))
	require.NoError(t, err)

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(buf.Bytes()))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "%v", result.Errors())

	// Unknown keys are rejected.
	result, err = gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewStringLoader(`{"run_id":"x","name":"n","steps":[],"members":[],"customers":0,"records":0,"extra":1}`))
	require.NoError(t, err)
	assert.False(t, result.Valid())
}

func TestRun_WritesSchemaFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "schemas")
	require.NoError(t, run(dir))

	data, err := os.ReadFile(filepath.Join(dir, reportSchemaName+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Scenario Report"`)
}
