package console

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/petnest/petnest/internal/client"
	"github.com/petnest/petnest/internal/transport/http/dto"
)

type stubSource struct {
	mu        sync.Mutex
	pages     []client.Page[dto.AdRequestResponse]
	listErr   error
	// callErrs fails individual List calls by call index.
	callErrs  map[int]error
	listCalls int
	decided   []string
	decideErr error
	getErr    error
	// block, when set, is waited on by the first List call.
	block   chan struct{}
	entered chan struct{}
}

func (s *stubSource) List(_ context.Context, _ client.ListParams) (client.Page[dto.AdRequestResponse], error) {
	s.mu.Lock()
	call := s.listCalls
	s.listCalls++
	block, entered := s.block, s.entered
	s.mu.Unlock()

	if call == 0 && block != nil {
		close(entered)
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return client.Page[dto.AdRequestResponse]{}, s.listErr
	}
	if err := s.callErrs[call]; err != nil {
		return client.Page[dto.AdRequestResponse]{}, err
	}
	if call >= len(s.pages) {
		return s.pages[len(s.pages)-1], nil
	}
	return s.pages[call], nil
}

func (s *stubSource) Get(_ context.Context, id int64) (dto.AdRequestResponse, error) {
	if s.getErr != nil {
		return dto.AdRequestResponse{}, s.getErr
	}
	return dto.AdRequestResponse{ID: id}, nil
}

func (s *stubSource) Decide(_ context.Context, id int64, d Decision, reason string) (dto.AdRequestResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.decideErr != nil {
		return dto.AdRequestResponse{}, s.decideErr
	}
	s.decided = append(s.decided, string(d)+":"+reason)
	status := "approved"
	if d == DecisionReject {
		status = "rejected"
	}
	return dto.AdRequestResponse{ID: id, Status: status, RejectionReason: reason}, nil
}

func pageOf(items ...dto.AdRequestResponse) client.Page[dto.AdRequestResponse] {
	return client.Page[dto.AdRequestResponse]{Items: items, Page: 1, Total: len(items), TotalPages: 1}
}

func adRules(patch bool) QueueRules[dto.AdRequestResponse] {
	return QueueRules[dto.AdRequestResponse]{
		Kind:           "ad requests",
		Decisions:      []Decision{DecisionApprove, DecisionReject},
		ReasonRequired: []Decision{DecisionReject},
		PatchInPlace:   patch,
		ID:             func(r dto.AdRequestResponse) int64 { return r.ID },
		Match: func(r dto.AdRequestResponse, q string) bool {
			return strings.Contains(strings.ToLower(r.BrandName), q) ||
				strings.Contains(strings.ToLower(r.ContactEmail), q)
		},
	}
}

func TestRejectWithBlankReasonNeverCallsEndpoint(t *testing.T) {
	src := &stubSource{pages: []client.Page[dto.AdRequestResponse]{pageOf(dto.AdRequestResponse{ID: 1, Status: "pending"})}}
	inbox := &Inbox{}
	view := NewQueueView[dto.AdRequestResponse](src, adRules(false), inbox)

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := view.Decide(context.Background(), 1, DecisionReject, reason)
		if !errors.Is(err, ErrReasonRequired) {
			t.Fatalf("reason %q: expected ErrReasonRequired, got %v", reason, err)
		}
	}
	if len(src.decided) != 0 {
		t.Fatalf("decide endpoint was called: %v", src.decided)
	}
	notices := inbox.Drain()
	if len(notices) != 3 || notices[0].Level != LevelWarning {
		t.Fatalf("unexpected notices: %+v", notices)
	}
}

func TestDecisionOutsideRulesIsBlocked(t *testing.T) {
	src := &stubSource{pages: []client.Page[dto.AdRequestResponse]{pageOf()}}
	rules := adRules(false)
	rules.Decisions = []Decision{DecisionVerify}
	view := NewQueueView[dto.AdRequestResponse](src, rules, nil)

	if _, err := view.Decide(context.Background(), 1, DecisionReject, "nope"); !errors.Is(err, ErrDecisionNotAllowed) {
		t.Fatalf("expected ErrDecisionNotAllowed, got %v", err)
	}
	if len(src.decided) != 0 {
		t.Fatalf("decide endpoint was called: %v", src.decided)
	}
}

func TestStaleListResponseIsDiscarded(t *testing.T) {
	older := pageOf(dto.AdRequestResponse{ID: 1, BrandName: "Old"})
	newer := pageOf(dto.AdRequestResponse{ID: 2, BrandName: "New"})
	src := &stubSource{
		pages:   []client.Page[dto.AdRequestResponse]{older, newer},
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	view := NewQueueView[dto.AdRequestResponse](src, adRules(false), nil)

	type result struct {
		items []dto.AdRequestResponse
		err   error
	}
	first := make(chan result, 1)
	go func() {
		items, err := view.Load(context.Background(), client.ListParams{Status: "pending"})
		first <- result{items, err}
	}()
	<-src.entered

	items, err := view.Load(context.Background(), client.ListParams{Status: "approved"})
	if err != nil || len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("unexpected second load: %+v err=%v", items, err)
	}

	close(src.block)
	res := <-first
	if !errors.Is(res.err, ErrSuperseded) || res.items != nil {
		t.Fatalf("expected superseded first load, got %+v err=%v", res.items, res.err)
	}
	if got := view.Items(); len(got) != 1 || got[0].BrandName != "New" {
		t.Fatalf("stale response overwrote the view: %+v", got)
	}
}

func TestOlderResponseIsDiscardedAfterNewerFailure(t *testing.T) {
	initial := pageOf(dto.AdRequestResponse{ID: 9, Status: "approved"})
	older := pageOf(dto.AdRequestResponse{ID: 1, Status: "pending"})
	src := &stubSource{
		pages:    []client.Page[dto.AdRequestResponse]{older, older},
		callErrs: map[int]error{1: &client.RequestError{Op: "GET /advertisementrequests", Kind: client.KindServer, StatusCode: 500, Err: errors.New("boom")}},
		block:    make(chan struct{}),
		entered:  make(chan struct{}),
	}
	inbox := &Inbox{}
	view := NewQueueView[dto.AdRequestResponse](src, adRules(false), inbox)
	view.page = initial

	first := make(chan error, 1)
	go func() {
		_, err := view.Load(context.Background(), client.ListParams{Status: "pending"})
		first <- err
	}()
	<-src.entered

	if _, err := view.Load(context.Background(), client.ListParams{Status: "rejected"}); err == nil {
		t.Fatalf("expected second load to fail")
	}

	close(src.block)
	if err := <-first; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected superseded first load, got %v", err)
	}
	if got := view.Items(); len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("older response replaced the displayed page: %+v", got)
	}
	if len(inbox.Drain()) != 1 {
		t.Fatalf("expected one failure notice")
	}
}

func TestListFailureKeepsPreviousPage(t *testing.T) {
	src := &stubSource{pages: []client.Page[dto.AdRequestResponse]{pageOf(dto.AdRequestResponse{ID: 5})}}
	inbox := &Inbox{}
	view := NewQueueView[dto.AdRequestResponse](src, adRules(false), inbox)

	if _, err := view.Load(context.Background(), client.ListParams{}); err != nil {
		t.Fatalf("first load: %v", err)
	}

	src.mu.Lock()
	src.listErr = &client.RequestError{Op: "GET /advertisementrequests", Kind: client.KindTransport, Err: errors.New("connection refused")}
	src.mu.Unlock()

	items, err := view.Load(context.Background(), client.ListParams{Page: 2})
	if err == nil || items != nil {
		t.Fatalf("expected failure with no items, got %+v err=%v", items, err)
	}
	if got := view.Items(); len(got) != 1 || got[0].ID != 5 {
		t.Fatalf("previous page was not kept: %+v", got)
	}
	notices := inbox.Drain()
	if len(notices) != 1 || notices[0].Level != LevelError || !strings.Contains(notices[0].Message, "connection refused") {
		t.Fatalf("unexpected notices: %+v", notices)
	}
}

func TestDecideRefetchesPage(t *testing.T) {
	src := &stubSource{pages: []client.Page[dto.AdRequestResponse]{
		pageOf(dto.AdRequestResponse{ID: 1, Status: "pending"}, dto.AdRequestResponse{ID: 2, Status: "pending"}),
		pageOf(dto.AdRequestResponse{ID: 2, Status: "pending"}),
	}}
	view := NewQueueView[dto.AdRequestResponse](src, adRules(false), nil)

	if _, err := view.Load(context.Background(), client.ListParams{Status: "pending"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := view.Decide(context.Background(), 1, DecisionReject, "  policy violation "); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if src.decided[0] != "reject:policy violation" {
		t.Fatalf("unexpected decide call: %v", src.decided)
	}
	if src.listCalls != 2 {
		t.Fatalf("expected a re-fetch, list calls=%d", src.listCalls)
	}
	if got := view.Items(); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("unexpected items after re-fetch: %+v", got)
	}
}

func TestDecidePatchesInPlace(t *testing.T) {
	src := &stubSource{pages: []client.Page[dto.AdRequestResponse]{
		pageOf(dto.AdRequestResponse{ID: 1, Status: "pending"}, dto.AdRequestResponse{ID: 2, Status: "pending"}),
	}}
	view := NewQueueView[dto.AdRequestResponse](src, adRules(true), nil)

	if _, err := view.Load(context.Background(), client.ListParams{}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := view.Decide(context.Background(), 2, DecisionApprove, ""); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if src.listCalls != 1 {
		t.Fatalf("expected no re-fetch, list calls=%d", src.listCalls)
	}
	got := view.Items()
	if got[0].Status != "pending" || got[1].Status != "approved" {
		t.Fatalf("unexpected items after patch: %+v", got)
	}
}

func TestFailedDecideNotifiesAndKeepsItems(t *testing.T) {
	src := &stubSource{
		pages:     []client.Page[dto.AdRequestResponse]{pageOf(dto.AdRequestResponse{ID: 1, Status: "pending"})},
		decideErr: &client.RequestError{StatusCode: http.StatusConflict, Kind: client.KindConflict, Code: "ALREADY_DECIDED", Err: errors.New("ad request is no longer pending")},
	}
	inbox := &Inbox{}
	view := NewQueueView[dto.AdRequestResponse](src, adRules(false), inbox)
	_, _ = view.Load(context.Background(), client.ListParams{})

	if _, err := view.Decide(context.Background(), 1, DecisionApprove, ""); !client.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := view.Items(); len(got) != 1 || got[0].Status != "pending" {
		t.Fatalf("unexpected items: %+v", got)
	}
	if notices := inbox.Drain(); len(notices) != 1 || !strings.Contains(notices[0].Message, "no longer pending") {
		t.Fatalf("unexpected notices: %+v", notices)
	}
}

func TestSearchFiltersLoadedPageOnly(t *testing.T) {
	src := &stubSource{pages: []client.Page[dto.AdRequestResponse]{
		{
			Items: []dto.AdRequestResponse{
				{ID: 1, BrandName: "Acme Pets", ContactEmail: "a@x.com"},
				{ID: 2, BrandName: "Bark Co", ContactEmail: "hello@acme.io"},
				{ID: 3, BrandName: "Purr", ContactEmail: "c@y.com"},
			},
			Page: 1, Total: 40, TotalPages: 4,
		},
	}}
	view := NewQueueView[dto.AdRequestResponse](src, adRules(false), nil)
	_, _ = view.Load(context.Background(), client.ListParams{})

	got := view.Search("  ACME ")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected search result: %+v", got)
	}
	if len(view.Search("")) != 3 {
		t.Fatalf("blank search should return the page")
	}
	if src.listCalls != 1 {
		t.Fatalf("search must not query the server")
	}
}

func TestDetailsNotFound(t *testing.T) {
	src := &stubSource{
		pages:  []client.Page[dto.AdRequestResponse]{pageOf()},
		getErr: &client.RequestError{StatusCode: http.StatusNotFound, Kind: client.KindNotFound, Err: errors.New("ad request not found")},
	}
	inbox := &Inbox{}
	view := NewQueueView[dto.AdRequestResponse](src, adRules(false), inbox)

	if _, err := view.Details(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(inbox.Drain()) != 0 {
		t.Fatalf("not found renders its own state, no notice expected")
	}
}
