package utils

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitUnknown},
		{"fileAccess", FileAccessError("load", "a.csv", os.ErrNotExist), ExitFileAccess},
		{"parse", ParseError("load", "a.csv", errors.New("bad quote")), ExitParse},
		{"schema", SchemaError("clean", errors.New("missing column index")), ExitSchema},
		{"value", ValueError("features", errors.New("zero duration")), ExitUnknown},
		{"render", RenderError("histogram", "", errors.New("no font")), ExitRender},
		{"wrapped", fmt.Errorf("运行失败: %w", SchemaError("clean", nil)), ExitSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestPipelineError(t *testing.T) {
	err := FileAccessError("load", "flights.csv", os.ErrNotExist)

	assert.Equal(t, "FileAccessError: load flights.csv: file does not exist", err.Error())
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, IsKind(err, KindFileAccess))
	assert.False(t, IsKind(err, KindParse))
	assert.False(t, IsKind(nil, KindUnknown))

	var pe *PipelineError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", err), &pe))
	assert.Equal(t, "flights.csv", pe.Path)
	assert.Equal(t, "SchemaError: clean", SchemaError("clean", nil).Error())
}
