package cmd

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
)

func TestAllowedOutputFormats(t *testing.T) {
	t.Parallel()

	want := OutputFormats{FormatJSON, FormatText, FormatYAML}
	got := AllowedOutputFormats()

	require.Equal(t, want, got)
}

func TestOutputFormats_String(t *testing.T) {
	t.Parallel()

	f := AllowedOutputFormats()
	// Should join lower-case names in lexicographical order
	want := "json, text, yaml"
	got := f.String()

	require.Equal(t, want, got)
}

func TestOutputFormat_StringAndType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fmt  OutputFormat
		want string
	}{
		{
			"JSON",
			FormatJSON,
			"json",
		},
		{
			"Text",
			FormatText,
			"text",
		},
		{
			"YAML",
			FormatYAML,
			"yaml",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, tc.fmt.String())
			require.Equal(t, "format", tc.fmt.Type())
		})
	}
}

func TestOutputFormat_Set_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  OutputFormat
	}{
		{
			"json",
			"json",
			FormatJSON,
		},
		{
			"text",
			"text",
			FormatText,
		},
		{
			"yaml",
			"yaml",
			FormatYAML,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var f OutputFormat
			err := f.Set(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, f)
		})
	}
}

func TestOutputFormat_Set_Invalid(t *testing.T) {
	t.Parallel()

	invalid := "xml"
	var f OutputFormat
	err := f.Set(invalid)
	require.Error(t, err)
	// error message should mention invalid value and allowed list
	require.ErrorContains(t, err, fmt.Sprintf("invalid format '%s'", invalid))
	allowed := AllowedOutputFormats()
	require.Contains(t, err.Error(), allowed.String())
}

type formatSample struct {
	Name string `json:"name" yaml:"name"`
}

type formatSamplePrinter struct{}

func (formatSamplePrinter) Header(_ io.Writer, _ int)                  {}
func (formatSamplePrinter) SetHeader(_ output.WriteFunc[formatSample]) {}
func (formatSamplePrinter) Footer(_ io.Writer, _ int)                  {}
func (formatSamplePrinter) SetFooter(_ output.WriteFunc[formatSample]) {}

func (formatSamplePrinter) Item(w io.Writer, elem formatSample) error {
	_, err := fmt.Fprintf(w, "name=%s\n", elem.Name)
	return err
}

func TestFormatHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   OutputFormat
		printer  output.Printer[formatSample]
		expected string
		errMsg   string
	}{
		{
			name:     "json",
			format:   FormatJSON,
			expected: "{\n  \"result\": {\n    \"name\": \"production\"\n  }\n}\n",
		},
		{
			name:     "yaml",
			format:   FormatYAML,
			expected: "result:\n  name: production\n",
		},
		{
			name:     "text",
			format:   FormatText,
			printer:  formatSamplePrinter{},
			expected: "name=production\n",
		},
		{
			name:     "unset format defaults to text",
			printer:  formatSamplePrinter{},
			expected: "name=production\n",
		},
		{
			name:   "text without printer",
			format: FormatText,
			errMsg: "printer cannot be nil for text output",
		},
		{
			name:   "unsupported",
			format: OutputFormat("xml"),
			errMsg: "unsupported output format: xml",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			h, err := FormatHandler[formatSample](&buf, tc.format, tc.printer)
			if tc.errMsg != "" {
				require.EqualError(t, err, tc.errMsg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, &buf, h.Writer())

			require.NoError(t, h.HandleResult(formatSample{Name: "production"}))
			require.Equal(t, tc.expected, buf.String())
		})
	}
}
