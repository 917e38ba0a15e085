package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tally/shared/password"
)

func TestHashAndVerify(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{
			name:    "valid secret",
			secret:  "tk_live_4f8a2b9c",
			wantErr: false,
		},
		{
			name:    "empty secret",
			secret:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.secret)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.NotEqual(t, tt.secret, hash)
			assert.NoError(t, password.Verify(tt.secret, hash))
		})
	}
}

func TestVerifyMismatch(t *testing.T) {
	hash, err := password.Hash("correct-key")
	assert.NoError(t, err)

	err = password.Verify("wrong-key", hash)
	assert.ErrorIs(t, err, password.ErrMismatch)
}

func TestVerifyEmptyInputs(t *testing.T) {
	assert.ErrorIs(t, password.Verify("", "hash"), password.ErrMismatch)
	assert.ErrorIs(t, password.Verify("secret", ""), password.ErrMismatch)
}
