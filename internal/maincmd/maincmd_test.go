package maincmd_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/owlc/internal/maincmd"
)

func TestCmd_Validate(t *testing.T) {
	cases := []struct {
		desc    string
		cmd     maincmd.Cmd
		args    []string
		wantErr bool
	}{
		{"help with no args", maincmd.Cmd{Help: true}, nil, false},
		{"no args", maincmd.Cmd{}, nil, true},
		{"one file", maincmd.Cmd{}, []string{"foo.owl"}, false},
		{"too many args", maincmd.Cmd{}, []string{"a.owl", "b.owl"}, true},
		{"output and print conflict", maincmd.Cmd{Output: "out", Print: true}, []string{"foo.owl"}, true},
	}
	for _, tt := range cases {
		t.Run(tt.desc, func(t *testing.T) {
			c := tt.cmd
			c.SetArgs(tt.args)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
