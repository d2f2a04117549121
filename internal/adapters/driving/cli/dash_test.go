package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/forgedash/internal/core/domain"
	"github.com/custodia-labs/forgedash/internal/core/engine"
)

func TestEventName(t *testing.T) {
	assert.Equal(t, "prs", eventName(engine.PrsFetched{}))
	assert.Equal(t, "issues", eventName(engine.IssuesFetched{}))
	assert.Equal(t, "notifications", eventName(engine.NotificationsFetched{}))
	assert.Equal(t, "actions", eventName(engine.ActionsFetched{}))
	assert.Equal(t, "pr_detail", eventName(engine.PrDetailFetched{}))
	assert.Equal(t, "issue_detail", eventName(engine.IssueDetailFetched{}))
	assert.Equal(t, "repo_labels", eventName(engine.RepoLabelsFetched{}))
	assert.Equal(t, "repo_collaborators", eventName(engine.RepoCollaboratorsFetched{}))
	assert.Equal(t, "fetch_error", eventName(engine.FetchError{}))
	assert.Equal(t, "mutation_ok", eventName(engine.MutationOk{}))
	assert.Equal(t, "mutation_error", eventName(engine.MutationError{}))
	assert.Equal(t, "rate_limit", eventName(engine.RateLimitUpdated{}))
}

func TestDetailRefs(t *testing.T) {
	prs := []domain.PullRequest{
		{Number: 1, Repo: &domain.RepoRef{Owner: "acme", Name: "widget"}, BaseRef: "main", HeadRepoOwner: "fork", HeadRef: "feat"},
		{Number: 2}, // no repo, skipped
		{Number: 3, Repo: &domain.RepoRef{Owner: "acme", Name: "widget"}},
		{Number: 4, Repo: &domain.RepoRef{Owner: "acme", Name: "widget"}},
	}

	refs := detailRefs(prs, 2)
	require.Len(t, refs, 2)
	assert.Equal(t, 1, refs[0].Number)
	assert.Equal(t, "acme", refs[0].Owner)
	assert.Equal(t, "widget", refs[0].Repo)
	assert.Equal(t, "fork", refs[0].HeadRepoOwner)
	assert.Equal(t, 3, refs[1].Number)

	assert.Nil(t, detailRefs(prs, 0), "prefetch disabled")
}

func TestRootCommand_Flags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}
