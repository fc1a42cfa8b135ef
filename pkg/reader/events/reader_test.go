package events

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

const testExport = `,frame_indices,rt_values,scan_indices,mobility_values,mz_values,intensity_values,precursor_indices,quad_low_mz_values,quad_high_mz_values
0,2,601.5,100,0.95,500.25,10,0,-1,-1
1,1,600.0,120,0.80,500.25,5,0,-1,-1
2,3,602.0,100,0.95,300.10,4,1,490.0,515.0
`

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader(testExport), ',')

	var got []core.Event
	for r.Next() {
		got = append(got, r.Event())
	}
	require.NoError(t, r.Err())
	require.Len(t, got, 3)

	assert.Equal(t, core.Event{Frame: 2, RT: 601.5, Scan: 100, Mobility: 0.95, MZ: 500.25, Intensity: 10, QuadLow: -1, QuadHigh: -1}, got[0])
	assert.Equal(t, core.Event{Frame: 3, RT: 602, Scan: 100, Mobility: 0.95, MZ: 300.10, Intensity: 4, QuadGroup: 1, QuadLow: 490, QuadHigh: 515}, got[2])
}

func TestReaderOptionalColumns(t *testing.T) {
	data := "rt_values\tmobility_values\tmz_values\tintensity_values\n600\t0.9\t500.1\t7\n"
	r := NewReader(strings.NewReader(data), '\t')

	require.True(t, r.Next())
	assert.Equal(t, core.Event{RT: 600, Mobility: 0.9, MZ: 500.1, Intensity: 7}, r.Event())
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "missing required columns",
			data:    "rt_values,mz_values\n600,500\n",
			wantErr: "mobility_values, intensity_values",
		},
		{
			name:    "bad number",
			data:    "rt_values,mobility_values,mz_values,intensity_values\n600,0.9,abc,1\n",
			wantErr: "line 2: invalid mz_values",
		},
		{
			name:    "NaN retention time",
			data:    "rt_values,mobility_values,mz_values,intensity_values\n10,0.9,500,1\nNaN,0.9,500,1\n",
			wantErr: "line 3: invalid rt_values \"NaN\": not a finite number",
		},
		{
			name:    "infinite intensity",
			data:    "rt_values,mobility_values,mz_values,intensity_values\n10,0.9,500,+Inf\n",
			wantErr: "line 2: invalid intensity_values",
		},
		{
			name:    "infinite mobility",
			data:    "rt_values,mobility_values,mz_values,intensity_values\n10,-inf,500,1\n",
			wantErr: "line 2: invalid mobility_values",
		},
		{
			name:    "short row",
			data:    "rt_values,mobility_values,mz_values,intensity_values\n600,0.9\n",
			wantErr: "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.data), ',')
			for r.Next() {
			}
			require.Error(t, r.Err())
			assert.Contains(t, r.Err().Error(), tt.wantErr)
		})
	}
}

func TestReaderEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""), ',')
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}

func TestReadAll(t *testing.T) {
	table, err := ReadAll(NewReader(strings.NewReader(testExport), ','))
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, 600.0, table.At(0).RT, "events are sorted by RT")
	assert.Equal(t, []int{1, 2, 3}, table.Frames())
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	tsv := filepath.Join(dir, "events.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte(strings.ReplaceAll(testExport, ",", "\t")), 0o644))

	table, err := ReadFile(tsv)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("rt_values\n1\n"), 0o644))

	_, err = ReadFile(bad)
	var schemaErr *core.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, bad, schemaErr.Source)

	_, err = ReadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, '\t', Delimiter("a.TSV"))
	assert.Equal(t, '\t', Delimiter("a.txt"))
	assert.Equal(t, ',', Delimiter("a.csv"))
}

func TestReadAllRejectsNonFiniteRT(t *testing.T) {
	data := "rt_values,mobility_values,mz_values,intensity_values\n10,0.9,500,1\nNaN,0.9,500,1\n5,0.9,500,1\n"

	table, err := ReadAll(NewReader(strings.NewReader(data), ','))
	assert.Nil(t, table)
	assert.ErrorContains(t, err, "line 3")
}
