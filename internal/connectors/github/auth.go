package github

import (
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// EnvTokenProvider reads access tokens from the environment, the way the
// gh CLI does: GITHUB_TOKEN or GH_TOKEN for github.com, and
// GH_ENTERPRISE_TOKEN or GITHUB_ENTERPRISE_TOKEN for any other host.
type EnvTokenProvider struct{}

// Token implements driven.TokenProvider.
func (EnvTokenProvider) Token(host string) (string, error) {
	vars := []string{"GH_ENTERPRISE_TOKEN", "GITHUB_ENTERPRISE_TOKEN"}
	if host == domain.DefaultHost {
		vars = []string{"GITHUB_TOKEN", "GH_TOKEN"}
	}
	for _, v := range vars {
		if token := strings.TrimSpace(os.Getenv(v)); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("no token in %s", strings.Join(vars, " or "))
}
