package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unknown command error",
			err:  errors.New(`unknown command "foo" for "greengrid"`),
			want: true,
		},
		{
			name: "unknown flag error",
			err:  errors.New(`unknown flag: --foo`),
			want: true,
		},
		{
			name: "unknown shorthand flag",
			err:  errors.New(`unknown shorthand flag: 'x' in -x`),
			want: true,
		},
		{
			name: "other error",
			err:  errors.New("address already in use"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"dashboard", "serve", "simulate", "init", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootSuggestsMistypedCommand(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{arg: "dashbord", want: "dashboard"},
		{arg: "simulat", want: "simulate"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			rootCmd.SetArgs([]string{tt.arg})
			t.Cleanup(func() { rootCmd.SetArgs(nil) })

			_, err := rootCmd.ExecuteC()
			require.Error(t, err)
			assert.True(t, isUnknownCommandError(err))
			assert.Contains(t, err.Error(), "Did you mean this?")
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, 1, strings.Count(err.Error(), tt.want))
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"config", "verbose", "no-color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}
