package pagination

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{"defaults", Params{}, nil},
		{"limit and offset", Params{Limit: 10, Offset: 5}, nil},
		{"negative limit", Params{Limit: -1}, ErrInvalidLimit},
		{"huge limit", Params{Limit: MaxLimit + 1}, ErrInvalidLimit},
		{"negative offset", Params{Offset: -2}, ErrInvalidOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name   string
		params Params
		want   []int
	}{
		{"all", Params{}, items},
		{"limit", Params{Limit: 3}, []int{0, 1, 2}},
		{"offset", Params{Offset: 8}, []int{8, 9}},
		{"window", Params{Limit: 2, Offset: 4}, []int{4, 5}},
		{"limit past end", Params{Limit: 5, Offset: 7}, []int{7, 8, 9}},
		{"offset past end", Params{Offset: 10}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.params, items))
		})
	}

	assert.Empty(t, Apply(Params{Limit: 3}, []string(nil)))
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Limit: 2, Offset: 4}, 10, 2, 1, true)
	assert.True(t, meta.HasNext)
	assert.Equal(t, 10, meta.Total)
	assert.True(t, meta.HasMore)

	meta = NewMeta(Params{Offset: 8}, 10, 2, 3, false)
	assert.False(t, meta.HasNext)
	assert.Equal(t, 3, meta.Pages)
}

func TestParams_AddFlags(t *testing.T) {
	var p Params
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	p.AddFlags(cmd)
	cmd.SetArgs([]string{"--limit", "7", "--offset", "3"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, Params{Limit: 7, Offset: 3}, p)
	assert.True(t, p.IsEnabled())
}
