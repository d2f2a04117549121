package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/forgedash/internal/core/domain"
	"github.com/custodia-labs/forgedash/internal/core/ports/driven"
)

// --- Mock implementations for engine testing ---

// mockForge implements driven.Forge and records the hosts asked for.
type mockForge struct {
	mu     sync.Mutex
	client *mockForgeClient
	err    error
	hosts  []string
}

func (m *mockForge) ForHost(host string) (driven.ForgeClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hosts = append(m.hosts, host)
	if m.err != nil {
		return nil, m.err
	}
	return m.client, nil
}

// mockForgeClient implements driven.ForgeClient with canned responses.
type mockForgeClient struct {
	mu sync.Mutex

	prs         []domain.PullRequest
	issues      []domain.Issue
	notifs      []domain.Notification
	runs        []domain.WorkflowRun
	detail      domain.PrDetail
	issueDetail domain.IssueDetail
	rl          *domain.RateLimitInfo
	behindBy    *int
	login       string
	repoLabels  []string
	collabs     []string

	searchErr   error
	detailErr   map[int]error
	compareErr  error
	userErr     error
	mutationErr error

	searchPrCalls    int
	searchIssueCalls int
	notifCalls       int
	runsCalls        int
	detailCalls      int
	compareCalls     int
	userCalls        int
	labelListCalls   int
	collabCalls      int

	lastQuery     string
	lastLimit     int
	approveBody   string
	assignLogins  []string
	unassignLogin string
	addedLabels   []string
	mutations     []string
}

func newMockForgeClient() *mockForgeClient {
	return &mockForgeClient{
		rl:    &domain.RateLimitInfo{Limit: 5000, Remaining: 4990, Cost: 1},
		login: "octocat",
	}
}

func (m *mockForgeClient) SearchPullRequests(_ context.Context, query string, limit int) ([]domain.PullRequest, *domain.RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchPrCalls++
	m.lastQuery = query
	m.lastLimit = limit
	if m.searchErr != nil {
		return nil, nil, m.searchErr
	}
	return m.prs, m.rl, nil
}

func (m *mockForgeClient) SearchIssues(_ context.Context, query string, limit int) ([]domain.Issue, *domain.RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchIssueCalls++
	m.lastQuery = query
	m.lastLimit = limit
	if m.searchErr != nil {
		return nil, nil, m.searchErr
	}
	return m.issues, m.rl, nil
}

func (m *mockForgeClient) ListNotifications(_ context.Context, query string, limit int) ([]domain.Notification, *domain.RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifCalls++
	m.lastQuery = query
	m.lastLimit = limit
	if m.searchErr != nil {
		return nil, nil, m.searchErr
	}
	return m.notifs, m.rl, nil
}

func (m *mockForgeClient) ListWorkflowRuns(_ context.Context, _ domain.ActionsFilter) ([]domain.WorkflowRun, *domain.RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runsCalls++
	if m.searchErr != nil {
		return nil, nil, m.searchErr
	}
	return m.runs, m.rl, nil
}

func (m *mockForgeClient) FetchPrDetail(_ context.Context, _, _ string, number int) (*domain.PrDetail, *domain.RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailCalls++
	if err := m.detailErr[number]; err != nil {
		return nil, nil, err
	}
	d := m.detail
	return &d, m.rl, nil
}

func (m *mockForgeClient) FetchIssueDetail(_ context.Context, _, _ string, _ int) (*domain.IssueDetail, *domain.RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.issueDetail
	return &d, m.rl, nil
}

func (m *mockForgeClient) ListRepoLabels(_ context.Context, _, _ string) ([]string, *domain.RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labelListCalls++
	if m.searchErr != nil {
		return nil, nil, m.searchErr
	}
	return m.repoLabels, m.rl, nil
}

func (m *mockForgeClient) ListCollaborators(_ context.Context, _, _ string) ([]string, *domain.RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collabCalls++
	if m.searchErr != nil {
		return nil, nil, m.searchErr
	}
	return m.collabs, m.rl, nil
}

func (m *mockForgeClient) CompareBranches(_ context.Context, _, _, _, _, _ string) (*int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compareCalls++
	if m.compareErr != nil {
		return nil, m.compareErr
	}
	return m.behindBy, nil
}

func (m *mockForgeClient) RateLimit(_ context.Context) (*domain.RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rl, nil
}

func (m *mockForgeClient) CurrentUser(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userCalls++
	if m.userErr != nil {
		return "", m.userErr
	}
	return m.login, nil
}

func (m *mockForgeClient) record(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutationErr != nil {
		return m.mutationErr
	}
	m.mutations = append(m.mutations, name)
	return nil
}

func (m *mockForgeClient) ApprovePr(_ context.Context, _, _ string, _ int, body string) error {
	m.mu.Lock()
	m.approveBody = body
	m.mu.Unlock()
	return m.record("approve")
}

func (m *mockForgeClient) MergePr(_ context.Context, _, _ string, _ int) error {
	return m.record("merge")
}

func (m *mockForgeClient) ClosePr(_ context.Context, _, _ string, _ int) error {
	return m.record("close_pr")
}

func (m *mockForgeClient) ReopenPr(_ context.Context, _, _ string, _ int) error {
	return m.record("reopen_pr")
}

func (m *mockForgeClient) AddPrComment(_ context.Context, _, _ string, _ int, _ string) error {
	return m.record("comment_pr")
}

func (m *mockForgeClient) UpdateBranch(_ context.Context, _, _ string, _ int) error {
	return m.record("update_branch")
}

func (m *mockForgeClient) ReadyForReview(_ context.Context, _, _ string, _ int) error {
	return m.record("ready_for_review")
}

func (m *mockForgeClient) CloseIssue(_ context.Context, _, _ string, _ int) error {
	return m.record("close_issue")
}

func (m *mockForgeClient) ReopenIssue(_ context.Context, _, _ string, _ int) error {
	return m.record("reopen_issue")
}

func (m *mockForgeClient) AddIssueComment(_ context.Context, _, _ string, _ int, _ string) error {
	return m.record("comment_issue")
}

func (m *mockForgeClient) AddLabels(_ context.Context, _, _ string, _ int, labels []string) error {
	m.mu.Lock()
	m.addedLabels = labels
	m.mu.Unlock()
	return m.record("add_labels")
}

func (m *mockForgeClient) Assign(_ context.Context, _, _ string, _ int, logins []string) error {
	m.mu.Lock()
	m.assignLogins = logins
	m.mu.Unlock()
	return m.record("assign")
}

func (m *mockForgeClient) Unassign(_ context.Context, _, _ string, _ int, login string) error {
	m.mu.Lock()
	m.unassignLogin = login
	m.mu.Unlock()
	return m.record("unassign")
}

func (m *mockForgeClient) RerunWorkflowRun(_ context.Context, _, _ string, _ int64, failedOnly bool) error {
	if failedOnly {
		return m.record("rerun_failed")
	}
	return m.record("rerun")
}

func (m *mockForgeClient) CancelWorkflowRun(_ context.Context, _, _ string, _ int64) error {
	return m.record("cancel_run")
}

func (m *mockForgeClient) MarkNotificationRead(_ context.Context, _ string) error {
	return m.record("mark_read")
}

func (m *mockForgeClient) MarkNotificationDone(_ context.Context, _ string) error {
	return m.record("mark_done")
}

func (m *mockForgeClient) MarkAllNotificationsRead(_ context.Context) error {
	return m.record("mark_all_read")
}

func (m *mockForgeClient) UnsubscribeNotification(_ context.Context, _ string) error {
	return m.record("unsubscribe")
}

var _ driven.Forge = (*mockForge)(nil)
var _ driven.ForgeClient = (*mockForgeClient)(nil)

func newTestEngine(client *mockForgeClient) (*Engine, *mockForge) {
	forge := &mockForge{client: client}
	e := New(domain.EngineConfig{RefetchInterval: 10 * time.Minute}, forge)
	return e, forge
}

// recvEvent pops the next already-delivered event. Dispatch runs
// synchronously in these tests, so nothing needs to be awaited.
func recvEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	default:
		t.Fatal("no event delivered")
		return nil
	}
}

// --- Fetch tests ---

func TestEngine_FetchPrs(t *testing.T) {
	client := newMockForgeClient()
	client.prs = []domain.PullRequest{{Number: 7, Title: "fix race"}}
	e, forge := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchPrs{FilterIdx: 2, Filter: domain.PrFilter{Filters: "is:open author:@me"}, Reply: reply})

	ev := recvEvent(t, reply)
	fetched, ok := ev.(PrsFetched)
	require.True(t, ok)
	assert.Equal(t, 2, fetched.FilterIdx)
	require.Len(t, fetched.Prs, 1)
	assert.Equal(t, 7, fetched.Prs[0].Number)
	require.NotNil(t, fetched.RateLimit)
	assert.Equal(t, 4990, fetched.RateLimit.Remaining)

	assert.Equal(t, "is:open author:@me", client.lastQuery)
	assert.Equal(t, domain.DefaultSearchLimit, client.lastLimit)
	assert.Equal(t, []string{"github.com"}, forge.hosts)
}

func TestEngine_FetchPrs_SecondFetchHitsCache(t *testing.T) {
	client := newMockForgeClient()
	client.prs = []domain.PullRequest{{Number: 7}}
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	req := FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply}
	e.dispatch(req)
	e.dispatch(req)

	first := recvEvent(t, reply).(PrsFetched)
	second := recvEvent(t, reply).(PrsFetched)

	assert.Equal(t, 1, client.searchPrCalls, "second fetch must not hit the API")
	assert.NotNil(t, first.RateLimit)
	assert.Nil(t, second.RateLimit, "cache hit carries no quota snapshot")
	require.Len(t, second.Prs, 1)
	assert.Equal(t, 7, second.Prs[0].Number)
}

func TestEngine_FetchPrs_ForceBypassesCache(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply})
	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}, Force: true, Reply: reply})

	assert.Equal(t, 2, client.searchPrCalls)
}

func TestEngine_FetchPrs_LimitIsPartOfCacheKey(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open", Limit: 10}, Reply: reply})
	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open", Limit: 20}, Reply: reply})

	assert.Equal(t, 2, client.searchPrCalls, "different limits are different cache entries")
}

func TestEngine_FetchPrs_RateLimitError(t *testing.T) {
	client := newMockForgeClient()
	client.searchErr = errors.New("GET https://api.github.com/search/issues: 403 API rate limit exceeded")
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchPrs{FilterIdx: 1, Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply})

	ev := recvEvent(t, reply)
	fe, ok := ev.(FetchError)
	require.True(t, ok)
	assert.Equal(t, "FetchPrs[1]", fe.Context)
	assert.Equal(t, "API rate limit exceeded — press [r] to retry", fe.Message)
}

func TestEngine_FetchPrs_PlainError(t *testing.T) {
	client := newMockForgeClient()
	client.searchErr = errors.New("connection refused")
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply})

	fe := recvEvent(t, reply).(FetchError)
	assert.Equal(t, "connection refused", fe.Message)
}

func TestEngine_FetchPrs_ErrorIsNotCached(t *testing.T) {
	client := newMockForgeClient()
	client.searchErr = errors.New("boom")
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	req := FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply}
	e.dispatch(req)
	client.searchErr = nil
	e.dispatch(req)

	assert.Equal(t, 2, client.searchPrCalls, "failed fetch must not poison the cache")
	recvEvent(t, reply)
	_, ok := recvEvent(t, reply).(PrsFetched)
	assert.True(t, ok)
}

func TestEngine_FetchPrs_CustomHost(t *testing.T) {
	client := newMockForgeClient()
	e, forge := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open", Host: "ghe.example.com"}, Reply: reply})

	assert.Equal(t, []string{"ghe.example.com"}, forge.hosts)
}

func TestEngine_FetchPrs_UnknownHost(t *testing.T) {
	client := newMockForgeClient()
	e, forge := newTestEngine(client)
	forge.err = domain.ErrUnknownHost
	reply := make(chan Event, 1)

	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply})

	fe := recvEvent(t, reply).(FetchError)
	assert.Equal(t, "FetchPrs[0]", fe.Context)
	assert.Equal(t, 0, client.searchPrCalls)
}

func TestEngine_FetchIssues(t *testing.T) {
	client := newMockForgeClient()
	client.issues = []domain.Issue{{Number: 12, Title: "crash on startup"}}
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	req := FetchIssues{FilterIdx: 1, Filter: domain.IssueFilter{Filters: "is:open label:bug"}, Reply: reply}
	e.dispatch(req)
	e.dispatch(req)

	first := recvEvent(t, reply).(IssuesFetched)
	assert.Equal(t, 1, first.FilterIdx)
	require.Len(t, first.Issues, 1)
	assert.Equal(t, 12, first.Issues[0].Number)

	second := recvEvent(t, reply).(IssuesFetched)
	assert.Nil(t, second.RateLimit)
	assert.Equal(t, 1, client.searchIssueCalls)
}

func TestEngine_FetchNotifications(t *testing.T) {
	client := newMockForgeClient()
	client.notifs = []domain.Notification{{ID: "123", SubjectTitle: "release v2", Unread: true}}
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchNotifications{Filter: domain.NotificationFilter{Filters: "participating"}, Reply: reply})

	ev := recvEvent(t, reply).(NotificationsFetched)
	require.Len(t, ev.Notifications, 1)
	assert.Equal(t, "123", ev.Notifications[0].ID)
	assert.Equal(t, domain.DefaultNotificationLimit, client.lastLimit)
}

func TestEngine_FetchActions(t *testing.T) {
	client := newMockForgeClient()
	client.runs = []domain.WorkflowRun{{ID: 99, WorkflowName: "ci", Status: domain.RunInProgress}}
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	req := FetchActions{Filter: domain.ActionsFilter{Repo: "acme/widget"}, Reply: reply}
	e.dispatch(req)
	e.dispatch(req)

	ev := recvEvent(t, reply).(ActionsFetched)
	require.Len(t, ev.Runs, 1)
	assert.Equal(t, int64(99), ev.Runs[0].ID)
	assert.Equal(t, 1, client.runsCalls, "second fetch served from cache")
}

func TestEngine_FetchPrDetail_FillsBehindBy(t *testing.T) {
	client := newMockForgeClient()
	client.detail = domain.PrDetail{Body: "details", Mergeable: "mergeable"}
	behind := 3
	client.behindBy = &behind
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchPrDetail{
		Owner: "acme", Repo: "widget", Number: 5,
		BaseRef: "main", HeadRepoOwner: "fork", HeadRef: "feature",
		Reply: reply,
	})

	ev := recvEvent(t, reply).(PrDetailFetched)
	assert.Equal(t, 5, ev.Number)
	assert.Equal(t, "details", ev.Detail.Body)
	require.NotNil(t, ev.Detail.BehindBy)
	assert.Equal(t, 3, *ev.Detail.BehindBy)
	assert.Equal(t, 1, client.compareCalls)
}

func TestEngine_FetchPrDetail_CompareSkippedWithoutHead(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchPrDetail{Owner: "acme", Repo: "widget", Number: 5, Reply: reply})

	ev := recvEvent(t, reply).(PrDetailFetched)
	assert.Nil(t, ev.Detail.BehindBy)
	assert.Equal(t, 0, client.compareCalls)
}

func TestEngine_FetchPrDetail_CompareFailureIsNotFatal(t *testing.T) {
	client := newMockForgeClient()
	client.compareErr = errors.New("404 no common ancestor")
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchPrDetail{
		Owner: "acme", Repo: "widget", Number: 5,
		BaseRef: "main", HeadRepoOwner: "fork", HeadRef: "feature",
		Reply: reply,
	})

	ev, ok := recvEvent(t, reply).(PrDetailFetched)
	require.True(t, ok, "detail still delivered when compare fails")
	assert.Nil(t, ev.Detail.BehindBy)
}

func TestEngine_FetchPrDetail_Cached(t *testing.T) {
	client := newMockForgeClient()
	behind := 1
	client.behindBy = &behind
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	req := FetchPrDetail{
		Owner: "acme", Repo: "widget", Number: 5,
		BaseRef: "main", HeadRepoOwner: "acme", HeadRef: "feature",
		Reply: reply,
	}
	e.dispatch(req)
	e.dispatch(req)

	assert.Equal(t, 1, client.detailCalls)
	assert.Equal(t, 1, client.compareCalls, "cached detail keeps the compare result")

	recvEvent(t, reply)
	second := recvEvent(t, reply).(PrDetailFetched)
	require.NotNil(t, second.Detail.BehindBy)
	assert.Equal(t, 1, *second.Detail.BehindBy)
	assert.Nil(t, second.RateLimit)
}

func TestEngine_FetchIssueDetail(t *testing.T) {
	client := newMockForgeClient()
	client.issueDetail = domain.IssueDetail{Body: "issue body"}
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchIssueDetail{Owner: "acme", Repo: "widget", Number: 8, Reply: reply})

	ev := recvEvent(t, reply).(IssueDetailFetched)
	assert.Equal(t, 8, ev.Number)
	assert.Equal(t, "issue body", ev.Detail.Body)
}

func TestEngine_PrefetchPrDetails_SkipsFailures(t *testing.T) {
	client := newMockForgeClient()
	client.detailErr = map[int]error{1: errors.New("boom")}
	e, _ := newTestEngine(client)
	reply := make(chan Event, 3)

	e.dispatch(PrefetchPrDetails{
		Refs: []domain.PrRef{
			{Owner: "acme", Repo: "widget", Number: 1},
			{Owner: "acme", Repo: "widget", Number: 2},
			{Owner: "acme", Repo: "widget", Number: 3},
		},
		Reply: reply,
	})

	first := recvEvent(t, reply).(PrDetailFetched)
	assert.Equal(t, 2, first.Number)
	second := recvEvent(t, reply).(PrDetailFetched)
	assert.Equal(t, 3, second.Number)

	select {
	case ev := <-reply:
		t.Fatalf("unexpected extra event %T", ev)
	default:
	}
}

func TestEngine_FetchRepoLabels(t *testing.T) {
	client := newMockForgeClient()
	client.repoLabels = []string{"bug", "enhancement"}
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	req := FetchRepoLabels{Owner: "acme", Repo: "widget", Reply: reply}
	e.dispatch(req)
	e.dispatch(req)

	first := recvEvent(t, reply).(RepoLabelsFetched)
	assert.Equal(t, "acme", first.Owner)
	assert.Equal(t, []string{"bug", "enhancement"}, first.Labels)
	require.NotNil(t, first.RateLimit)

	second := recvEvent(t, reply).(RepoLabelsFetched)
	assert.Nil(t, second.RateLimit)
	assert.Equal(t, 1, client.labelListCalls, "second fetch served from cache")
}

func TestEngine_FetchRepoLabels_Error(t *testing.T) {
	client := newMockForgeClient()
	client.searchErr = errors.New("boom")
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchRepoLabels{Owner: "acme", Repo: "widget", Reply: reply})

	fe := recvEvent(t, reply).(FetchError)
	assert.Equal(t, "FetchRepoLabels acme/widget", fe.Context)
}

func TestEngine_FetchRepoCollaborators(t *testing.T) {
	client := newMockForgeClient()
	client.collabs = []string{"octocat", "alice"}
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	req := FetchRepoCollaborators{Owner: "acme", Repo: "widget", Reply: reply}
	e.dispatch(req)
	e.dispatch(req)

	ev := recvEvent(t, reply).(RepoCollaboratorsFetched)
	assert.Equal(t, []string{"octocat", "alice"}, ev.Logins)
	assert.Equal(t, 1, client.collabCalls, "second fetch served from cache")
	recvEvent(t, reply)
}

func TestEngine_FetchRateLimit(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchRateLimit{Reply: reply})

	ev := recvEvent(t, reply).(RateLimitUpdated)
	assert.Equal(t, 5000, ev.Info.Limit)
	assert.Equal(t, 4990, ev.Info.Remaining)
}

// --- Mutation tests ---

func TestEngine_ApprovePr(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(ApprovePr{Owner: "acme", Repo: "widget", Number: 42, Body: "lgtm", Reply: reply})

	ev := recvEvent(t, reply).(MutationOk)
	assert.Equal(t, "Approved PR #42", ev.Description)
	assert.Equal(t, "lgtm", client.approveBody)
	assert.Equal(t, []string{"approve"}, client.mutations)
}

func TestEngine_Mutation_Failure(t *testing.T) {
	client := newMockForgeClient()
	client.mutationErr = errors.New("405 pull request is not mergeable")
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(MergePr{Owner: "acme", Repo: "widget", Number: 42, Reply: reply})

	ev := recvEvent(t, reply).(MutationError)
	assert.Equal(t, "Merged PR #42", ev.Description)
	assert.Equal(t, "405 pull request is not mergeable", ev.Message)
}

func TestEngine_Mutation_RateLimited(t *testing.T) {
	client := newMockForgeClient()
	client.mutationErr = errors.New("POST: 403 secondary rate limit hit")
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(ClosePr{Owner: "acme", Repo: "widget", Number: 1, Reply: reply})

	ev := recvEvent(t, reply).(MutationError)
	assert.Contains(t, ev.Message, "Secondary rate limit")
}

func TestEngine_AssignPr_ResolvesMe(t *testing.T) {
	client := newMockForgeClient()
	client.login = "octocat"
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(AssignPr{Owner: "acme", Repo: "widget", Number: 3, Logins: []string{"@me", "alice"}, Reply: reply})

	ev := recvEvent(t, reply).(MutationOk)
	assert.Equal(t, "Assigned PR #3", ev.Description)
	assert.Equal(t, []string{"octocat", "alice"}, client.assignLogins)
	assert.Equal(t, 1, client.userCalls, "login resolved once per request")
}

func TestEngine_AssignPr_MeResolutionFails(t *testing.T) {
	client := newMockForgeClient()
	client.userErr = errors.New("401 bad credentials")
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(AssignPr{Owner: "acme", Repo: "widget", Number: 3, Logins: []string{"@me"}, Reply: reply})

	ev := recvEvent(t, reply).(MutationError)
	assert.Contains(t, ev.Message, "resolve @me")
	assert.Empty(t, client.mutations, "mutation must not run when resolution fails")
}

func TestEngine_UnassignIssue_ResolvesMe(t *testing.T) {
	client := newMockForgeClient()
	client.login = "octocat"
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(UnassignIssue{Owner: "acme", Repo: "widget", Number: 3, Login: "@me", Reply: reply})

	recvEvent(t, reply)
	assert.Equal(t, "octocat", client.unassignLogin)
}

func TestEngine_RerunWorkflowRun(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 2)

	e.dispatch(RerunWorkflowRun{Owner: "acme", Repo: "widget", RunID: 99, Reply: reply})
	e.dispatch(RerunWorkflowRun{Owner: "acme", Repo: "widget", RunID: 99, FailedOnly: true, Reply: reply})

	first := recvEvent(t, reply).(MutationOk)
	assert.Equal(t, "Re-ran workflow run #99", first.Description)
	second := recvEvent(t, reply).(MutationOk)
	assert.Equal(t, "Re-ran failed jobs for run #99", second.Description)
	assert.Equal(t, []string{"rerun", "rerun_failed"}, client.mutations)
}

func TestEngine_CancelWorkflowRun(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(CancelWorkflowRun{Owner: "acme", Repo: "widget", RunID: 7, Reply: reply})

	ev := recvEvent(t, reply).(MutationOk)
	assert.Equal(t, "Cancelled workflow run #7", ev.Description)
	assert.Equal(t, []string{"cancel_run"}, client.mutations)
}

func TestEngine_NotificationMutations(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 4)

	e.dispatch(MarkNotificationRead{ID: "1", Reply: reply})
	e.dispatch(MarkNotificationDone{ID: "1", Reply: reply})
	e.dispatch(MarkAllNotificationsRead{Reply: reply})
	e.dispatch(UnsubscribeNotification{ID: "1", Reply: reply})

	assert.Equal(t, []string{"mark_read", "mark_done", "mark_all_read", "unsubscribe"}, client.mutations)
	for i := 0; i < 4; i++ {
		_, ok := recvEvent(t, reply).(MutationOk)
		assert.True(t, ok)
	}
}

func TestEngine_MutationDoesNotTouchCache(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 3)

	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply})
	e.dispatch(MergePr{Owner: "acme", Repo: "widget", Number: 1, Reply: reply})
	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply})

	assert.Equal(t, 1, client.searchPrCalls, "mutation must not invalidate cached lists")
}

// --- Background refresh tests ---

func TestEngine_RegisterAndTick(t *testing.T) {
	client := newMockForgeClient()
	client.prs = []domain.PullRequest{{Number: 1}}
	e, _ := newTestEngine(client)
	notify := make(chan Event, 4)

	e.dispatch(RegisterPrsRefresh{
		Filters: []domain.PrFilter{{Filters: "a"}, {Filters: "b"}},
		Notify:  notify,
	})
	e.dispatch(RegisterIssuesRefresh{
		Filters: []domain.IssueFilter{{Filters: "c"}},
		Notify:  notify,
	})

	e.tickRefresh()

	assert.Equal(t, 2, client.searchPrCalls)
	assert.Equal(t, 1, client.searchIssueCalls)
	for i := 0; i < 3; i++ {
		recvEvent(t, notify)
	}

	// Everything was just stamped, so an immediate second tick is a no-op.
	e.tickRefresh()
	assert.Equal(t, 2, client.searchPrCalls)
	assert.Equal(t, 1, client.searchIssueCalls)
}

func TestEngine_InteractiveFetchDefersRefresh(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)
	notify := make(chan Event, 1)

	e.dispatch(RegisterPrsRefresh{Filters: []domain.PrFilter{{Filters: "is:open"}}, Notify: notify})
	require.Len(t, e.sched.DueEntries(), 1)

	e.dispatch(FetchPrs{FilterIdx: 0, Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply})

	assert.Empty(t, e.sched.DueEntries(), "interactive fetch stamps the refresh slot")
	e.tickRefresh()
	assert.Equal(t, 1, client.searchPrCalls, "tick must not refetch a just-loaded view")
}

func TestEngine_FailedInteractiveFetchStaysDue(t *testing.T) {
	client := newMockForgeClient()
	client.searchErr = errors.New("boom")
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)
	notify := make(chan Event, 1)

	e.dispatch(RegisterIssuesRefresh{Filters: []domain.IssueFilter{{Filters: "is:open"}}, Notify: notify})
	e.dispatch(FetchIssues{FilterIdx: 0, Filter: domain.IssueFilter{Filters: "is:open"}, Reply: reply})

	assert.Len(t, e.sched.DueEntries(), 1, "failed fetch must not stamp the slot")
}

func TestEngine_TickBypassesCache(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)
	notify := make(chan Event, 1)

	// Interactive fetch fills the cache; the refresh must ignore it.
	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}, Reply: reply})
	e.dispatch(RegisterPrsRefresh{Filters: []domain.PrFilter{{Filters: "is:open"}}, Notify: notify})

	e.tickRefresh()

	assert.Equal(t, 2, client.searchPrCalls)
}

func TestEngine_TickRetriesFailuresNextTick(t *testing.T) {
	client := newMockForgeClient()
	client.searchErr = errors.New("boom")
	e, _ := newTestEngine(client)
	notify := make(chan Event, 2)

	e.dispatch(RegisterPrsRefresh{Filters: []domain.PrFilter{{Filters: "a"}}, Notify: notify})

	e.tickRefresh()
	select {
	case ev := <-notify:
		t.Fatalf("background failure must not emit events, got %T", ev)
	default:
	}

	// Entry was not stamped, so the next tick retries.
	client.searchErr = nil
	e.tickRefresh()
	assert.Equal(t, 2, client.searchPrCalls)
	_, ok := recvEvent(t, notify).(PrsFetched)
	assert.True(t, ok)
}

func TestEngine_RegisterReplacesPreviousFilters(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	notify := make(chan Event, 4)

	e.dispatch(RegisterPrsRefresh{Filters: []domain.PrFilter{{Filters: "a"}, {Filters: "b"}}, Notify: notify})
	e.dispatch(RegisterPrsRefresh{Filters: []domain.PrFilter{{Filters: "c"}}, Notify: notify})

	e.tickRefresh()
	assert.Equal(t, 1, client.searchPrCalls)
	assert.Equal(t, "c", client.lastQuery)
}

// --- Delivery and lifecycle tests ---

func TestEngine_EmitDropsWhenChannelFull(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	e.dispatch(FetchRateLimit{Reply: reply})
	// Channel now full; the next event must be dropped, not block.
	e.dispatch(FetchRateLimit{Reply: reply})

	recvEvent(t, reply)
	select {
	case ev := <-reply:
		t.Fatalf("expected drop, got %T", ev)
	default:
	}
}

func TestEngine_NilReplyChannel(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)

	// Must not panic or block.
	e.dispatch(FetchPrs{Filter: domain.PrFilter{Filters: "is:open"}})
	e.dispatch(MergePr{Owner: "acme", Repo: "widget", Number: 1})
	assert.Equal(t, 1, client.searchPrCalls)
}

func TestEngine_StartShutdown(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)
	reply := make(chan Event, 1)

	h := e.Start()
	h.Send(FetchRateLimit{Reply: reply})
	h.Send(Shutdown{})

	require.Eventually(t, func() bool {
		return e.q.Drained()
	}, time.Second, 5*time.Millisecond)

	// Request queued before shutdown was still served.
	select {
	case ev := <-reply:
		assert.IsType(t, RateLimitUpdated{}, ev)
	case <-time.After(time.Second):
		t.Fatal("queued request not served before shutdown")
	}

	// Sends after shutdown are dropped silently.
	h.Send(FetchRateLimit{Reply: reply})
	h.Close()
}

func TestEngine_HandleCloseStopsWorker(t *testing.T) {
	client := newMockForgeClient()
	e, _ := newTestEngine(client)

	h := e.Start()
	h.Close()
	h.Close()

	require.Eventually(t, func() bool {
		return e.q.Drained()
	}, time.Second, 5*time.Millisecond)
}

func TestHandle_ZeroValue(t *testing.T) {
	var h Handle
	h.Send(FetchRateLimit{})
	h.Close()
}
