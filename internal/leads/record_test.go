package leads

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want error
	}{
		{"ok", Record{Name: "Ada", Email: "ada@example.com"}, nil},
		{"ok with phone", Record{Name: "Ada", Email: "ada@example.com", Phone: "+1 555"}, nil},
		{"empty name", Record{Email: "ada@example.com"}, ErrMissingFields},
		{"empty email", Record{Name: "Ada"}, ErrMissingFields},
		{"no at", Record{Name: "Ada", Email: "ada.example.com"}, ErrInvalidEmail},
		{"no tld", Record{Name: "Ada", Email: "ada@example"}, ErrInvalidEmail},
		{"whitespace", Record{Name: "Ada", Email: "ada @example.com"}, ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tc.want), "got %v", err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestNormalize_TrimsBeforeValidation(t *testing.T) {
	rec := Record{Name: "  ", Email: " ada@example.com "}.Normalize()
	require.Equal(t, "", rec.Name)
	require.Equal(t, "ada@example.com", rec.Email)
	require.ErrorIs(t, rec.Validate(), ErrMissingFields)
}
