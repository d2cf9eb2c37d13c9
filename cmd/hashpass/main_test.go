package main

import (
	"bytes"
	"lottery_backend/pkg/pass"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr error
	}{
		{name: "argument", args: []string{"s3cret"}, want: "s3cret"},
		{name: "stdin", stdin: "from-pipe\n", want: "from-pipe"},
		{name: "stdin without newline", stdin: "tail", want: "tail"},
		{name: "empty stdin", stdin: "\n", wantErr: errEmptyPassword},
		{name: "empty argument", args: []string{""}, wantErr: errEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, strings.NewReader(tt.stdin), &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, out.String())
				return
			}
			require.NoError(t, err)

			// хэш годится для входа оператора
			hash := strings.TrimSpace(out.String())
			assert.True(t, pass.VerifyPassword(hash, tt.want))
		})
	}
}
