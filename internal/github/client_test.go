package github

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	cases := []struct {
		name      string
		rawURL    string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{"plain", "https://github.com/acme/alpha", "acme", "alpha", false},
		{"trailing slash", "https://github.com/acme/alpha/", "acme", "alpha", false},
		{"git suffix", "https://github.com/acme/alpha.git", "acme", "alpha", false},
		{"deep path", "https://github.com/acme/alpha/tree/main/docs", "acme", "alpha", false},
		{"surrounding whitespace", "  https://github.com/acme/alpha  ", "acme", "alpha", false},
		{"owner only", "https://github.com/acme", "", "", true},
		{"no host", "/acme/alpha", "", "", true},
		{"not a url", "not a url", "", "", true},
		{"empty", "", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			owner, name, err := ParseRepoURL(tc.rawURL)
			if tc.wantErr {
				require.Error(t, err)
				var invalid *ErrInvalidRepoURL
				require.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantOwner, owner)
			require.Equal(t, tc.wantName, name)
		})
	}
}

func TestStatusCode(t *testing.T) {
	ghErr := &github.ErrorResponse{Response: &http.Response{StatusCode: http.StatusUnprocessableEntity}}
	require.Equal(t, http.StatusUnprocessableEntity, StatusCode(ghErr))

	// Wrapped errors still resolve.
	require.Equal(t, http.StatusUnprocessableEntity, StatusCode(errors.Join(errors.New("create issue"), ghErr)))

	require.Zero(t, StatusCode(errors.New("connection reset")))
	require.Zero(t, StatusCode(nil))
}
