package reconcile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-admin/internal/listing"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/goliatone/go-cms-admin/internal/remote"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

type item struct {
	ID     int    `json:"id"`
	Nom    string `json:"nom"`
	Active bool   `json:"is_active"`
}

func (i item) EntityID() int { return i.ID }

type itemForm struct {
	Nom    string
	Active bool
}

func (itemForm) Type() string { return "admin.items.save" }

func (f itemForm) Normalize() itemForm {
	f.Nom = strings.TrimSpace(f.Nom)
	return f
}

func (f itemForm) Validate() error {
	errs := validation.Errors{}
	if f.Nom == "" {
		errs["nom"] = validation.NewError("nom_required", "Le nom est requis")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f itemForm) Payload() *remote.Payload {
	return remote.NewPayload().Set("nom", f.Nom).SetBool("is_active", f.Active)
}

type stubRemote struct {
	mu        sync.Mutex
	calls     []string
	createFn  func(p *remote.Payload) (item, error)
	updateFn  func(id int, p *remote.Payload) (item, error)
	deleteErr error
	actionFn  func(id int, action string) (item, error)
	block     chan struct{}
	started   chan struct{}
}

func (s *stubRemote) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *stubRemote) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubRemote) Create(_ context.Context, p *remote.Payload) (item, error) {
	s.record("create")
	if s.block != nil {
		s.started <- struct{}{}
		<-s.block
	}
	return s.createFn(p)
}

func (s *stubRemote) Update(_ context.Context, id int, p *remote.Payload) (item, error) {
	s.record("update")
	return s.updateFn(id, p)
}

func (s *stubRemote) Delete(_ context.Context, id int) (remote.Envelope, error) {
	s.record("delete")
	if s.block != nil {
		s.started <- struct{}{}
		<-s.block
	}
	return remote.Envelope{}, s.deleteErr
}

func (s *stubRemote) Action(_ context.Context, id int, action string, _ *remote.Payload) (item, error) {
	s.record(action)
	return s.actionFn(id, action)
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (n *recordingNotifier) Notify(message string, kind notify.Kind) notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	note := notify.Notification{ID: message, Message: message, Kind: kind}
	n.items = append(n.items, note)
	return note
}

func (n *recordingNotifier) last(t *testing.T) notify.Notification {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		t.Fatalf("expected a notification")
	}
	return n.items[len(n.items)-1]
}

type logEntry struct {
	msg  string
	args []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(msg string, args []any) {
	l.mu.Lock()
	l.entries = append(l.entries, logEntry{msg: msg, args: args})
	l.mu.Unlock()
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.add(msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.add(msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.add(msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.add(msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.add(msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.add(msg, args) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func ids(items []item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestCreateRejectsInvalidFormBeforeNetwork(t *testing.T) {
	rem := &stubRemote{}
	notes := &recordingNotifier{}
	r := New[item, itemForm]("items", listing.NewStore[item](), rem, notes)

	_, err := r.Create(context.Background(), itemForm{Nom: "  "})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if rem.callCount() != 0 {
		t.Fatalf("expected no remote call, got %v", rem.calls)
	}
	got := notes.last(t)
	if got.Kind != notify.KindError || got.Message != "Le nom est requis" {
		t.Fatalf("unexpected notification %+v", got)
	}
	if MessageFor(err) != "Le nom est requis" {
		t.Fatalf("expected field message, got %q", MessageFor(err))
	}
}

func TestCreateAppendsServerEntity(t *testing.T) {
	rem := &stubRemote{createFn: func(p *remote.Payload) (item, error) {
		nom, _ := p.Value("nom")
		return item{ID: 12, Nom: nom}, nil
	}}
	notes := &recordingNotifier{}
	var outcomes []Outcome[item]
	r := New("items", listing.NewStore(item{ID: 1}), rem, notes,
		WithOnSuccess[item, itemForm](func(_ context.Context, o Outcome[item]) { outcomes = append(outcomes, o) }))

	created, err := r.Create(context.Background(), itemForm{Nom: " Audit "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 12 || created.Nom != "Audit" {
		t.Fatalf("unexpected entity %+v", created)
	}
	if got := ids(r.Store().Items()); len(got) != 2 || got[1] != 12 {
		t.Fatalf("unexpected store ids %v", got)
	}
	if notes.last(t).Kind != notify.KindSuccess {
		t.Fatalf("expected success notification")
	}
	if len(outcomes) != 1 || outcomes[0].Op != OpCreate || outcomes[0].ID != 12 {
		t.Fatalf("unexpected outcomes %+v", outcomes)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	rem := &stubRemote{}
	r := New[item, itemForm]("items", listing.NewStore(item{ID: 3}, item{ID: 5}, item{ID: 9}), rem, &recordingNotifier{})

	if err := r.Delete(context.Background(), 5); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if err := r.Confirmation().Confirm(context.Background()); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed from closed prompt, got %v", err)
	}
	if rem.callCount() != 0 {
		t.Fatalf("expected no remote call")
	}
}

func TestConfirmedDeleteRemovesEntity(t *testing.T) {
	rem := &stubRemote{}
	notes := &recordingNotifier{}
	r := New[item, itemForm]("items", listing.NewStore(item{ID: 3}, item{ID: 5}, item{ID: 9}), rem, notes)

	prompt := r.Confirmation()
	prompt.Open(5, "Service 5")
	if !prompt.IsOpen() {
		t.Fatalf("expected prompt open")
	}
	if err := prompt.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := ids(r.Store().Items()); len(got) != 2 || got[0] != 3 || got[1] != 9 {
		t.Fatalf("expected {3,9}, got %v", got)
	}
	if prompt.IsOpen() || prompt.Loading() {
		t.Fatalf("expected prompt closed after delete")
	}
	if got := notes.last(t); got.Kind != notify.KindSuccess {
		t.Fatalf("expected success notification, got %+v", got)
	}
}

func TestFailedDeleteKeepsStore(t *testing.T) {
	rem := &stubRemote{deleteErr: remote.ErrTransport}
	notes := &recordingNotifier{}
	r := New[item, itemForm]("items", listing.NewStore(item{ID: 3}, item{ID: 5}), rem, notes)

	r.Confirmation().Open(5, "")
	if err := r.Confirmation().Confirm(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if r.Store().Len() != 2 {
		t.Fatalf("expected store untouched")
	}
	if got := notes.last(t); got.Kind != notify.KindError {
		t.Fatalf("expected error notification, got %+v", got)
	}
}

func TestCancelClosesPrompt(t *testing.T) {
	r := New[item, itemForm]("items", listing.NewStore[item](), &stubRemote{}, nil)
	prompt := r.Confirmation()
	prompt.Open(4, "Partenaire")
	if id, label := prompt.Target(); id != 4 || label != "Partenaire" {
		t.Fatalf("unexpected target %d %q", id, label)
	}
	if !prompt.Cancel() || prompt.IsOpen() {
		t.Fatalf("expected prompt closed")
	}
	if prompt.Cancel() {
		t.Fatalf("expected second cancel to be a no-op")
	}
}

func TestUpdateRejectedKeepsStoreAndShowsServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"validation failed"}`))
	}))
	defer server.Close()

	client, err := remote.NewClient(server.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	store := listing.NewStore(item{ID: 7, Nom: "Avant"})
	notes := &recordingNotifier{}
	r := New[item, itemForm]("items", store, remote.NewResource[item](client, "items"), notes)

	_, err = r.Update(context.Background(), 7, itemForm{Nom: "Après"})
	if !errors.Is(err, remote.ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	current, _ := store.Get(7)
	if current.Nom != "Avant" {
		t.Fatalf("expected store untouched, got %+v", current)
	}
	got := notes.last(t)
	if got.Kind != notify.KindError || got.Message != "validation failed" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestUpdateReplacesEntity(t *testing.T) {
	rem := &stubRemote{updateFn: func(id int, p *remote.Payload) (item, error) {
		nom, _ := p.Value("nom")
		return item{ID: id, Nom: nom}, nil
	}}
	store := listing.NewStore(item{ID: 7, Nom: "Avant"})
	r := New[item, itemForm]("items", store, rem, &recordingNotifier{})

	if _, err := r.Update(context.Background(), 7, itemForm{Nom: "Après"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	current, _ := store.Get(7)
	if current.Nom != "Après" {
		t.Fatalf("expected updated entity, got %+v", current)
	}
}

func TestToggleThroughActions(t *testing.T) {
	rem := &stubRemote{actionFn: func(id int, action string) (item, error) {
		return item{ID: id, Active: action == "activate"}, nil
	}}
	notes := &recordingNotifier{}
	store := listing.NewStore(item{ID: 2})
	r := New("sections", store, rem, notes, WithToggleActions[item, itemForm]("activate", "deactivate"))

	if _, err := r.Toggle(context.Background(), 2, true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	current, _ := store.Get(2)
	if !current.Active {
		t.Fatalf("expected active entity")
	}
	if notes.last(t).Message != DefaultMessages().Activated {
		t.Fatalf("unexpected message %q", notes.last(t).Message)
	}
	if rem.calls[0] != "activate" {
		t.Fatalf("expected activate call, got %v", rem.calls)
	}
}

func TestToggleThroughUpdate(t *testing.T) {
	var sent string
	rem := &stubRemote{updateFn: func(id int, p *remote.Payload) (item, error) {
		sent, _ = p.Value("is_active")
		return item{ID: id, Nom: "Slide", Active: sent == "1"}, nil
	}}
	store := listing.NewStore(item{ID: 4, Nom: "Slide", Active: true})
	r := New("slides", store, rem, &recordingNotifier{},
		WithToggleUpdate(func(current item, active bool) itemForm {
			return itemForm{Nom: current.Nom, Active: active}
		}))

	if _, err := r.Toggle(context.Background(), 4, false); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if sent != "0" {
		t.Fatalf("expected is_active=0, got %q", sent)
	}
	if _, err := r.Toggle(context.Background(), 99, true); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestCreateInFlightBlocksSecondSubmit(t *testing.T) {
	rem := &stubRemote{
		block:    make(chan struct{}),
		started:  make(chan struct{}, 1),
		createFn: func(*remote.Payload) (item, error) { return item{ID: 1, Nom: "a"}, nil },
	}
	r := New[item, itemForm]("items", listing.NewStore[item](), rem, &recordingNotifier{})

	done := make(chan error, 1)
	go func() {
		_, err := r.Create(context.Background(), itemForm{Nom: "a"})
		done <- err
	}()
	<-rem.started
	if !r.InFlight(OpCreate) {
		t.Fatalf("expected create in flight")
	}
	if _, err := r.Create(context.Background(), itemForm{Nom: "b"}); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	close(rem.block)
	if err := <-done; err != nil {
		t.Fatalf("first create: %v", err)
	}
	if r.InFlight(OpCreate) {
		t.Fatalf("expected flag cleared")
	}
}

func TestMessageForFallbacks(t *testing.T) {
	if MessageFor(nil) != "" {
		t.Fatalf("expected empty message for nil")
	}
	if MessageFor(remote.ErrTransport) != messageTransport {
		t.Fatalf("unexpected transport message")
	}
	if MessageFor(errors.New("boom")) != messageGeneric {
		t.Fatalf("unexpected generic message")
	}
}

func TestUpdateRejectsEntityWithAnotherID(t *testing.T) {
	rem := &stubRemote{updateFn: func(id int, p *remote.Payload) (item, error) {
		return item{ID: 2, Nom: "changed"}, nil
	}}
	notes := &recordingNotifier{}
	var outcomes int
	store := listing.NewStore(item{ID: 1, Nom: "a"}, item{ID: 2, Nom: "b"})
	r := New("items", store, rem, notes,
		WithOnSuccess[item, itemForm](func(context.Context, Outcome[item]) { outcomes++ }))

	got, err := r.Update(context.Background(), 1, itemForm{Nom: "changed"})
	if !errors.Is(err, remote.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
	if got.ID != 0 {
		t.Fatalf("expected zero entity, got %+v", got)
	}
	first, _ := store.Get(1)
	second, _ := store.Get(2)
	if first.Nom != "a" || second.Nom != "b" {
		t.Fatalf("expected store untouched, got %+v %+v", first, second)
	}
	if note := notes.last(t); note.Kind != notify.KindError || note.Message != DefaultMessages().UpdateFailed {
		t.Fatalf("unexpected notification %+v", note)
	}
	if outcomes != 0 {
		t.Fatalf("expected no success callback, got %d", outcomes)
	}
}

func TestToggleRejectsEntityWithAnotherID(t *testing.T) {
	rem := &stubRemote{actionFn: func(id int, action string) (item, error) {
		return item{ID: id + 1, Active: true}, nil
	}}
	notes := &recordingNotifier{}
	store := listing.NewStore(item{ID: 2}, item{ID: 3})
	r := New("sections", store, rem, notes, WithToggleActions[item, itemForm]("activate", "deactivate"))

	if _, err := r.Toggle(context.Background(), 2, true); !errors.Is(err, remote.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
	for _, id := range []int{2, 3} {
		if current, _ := store.Get(id); current.Active {
			t.Fatalf("expected %d untouched, got %+v", id, current)
		}
	}
	if note := notes.last(t); note.Kind != notify.KindError {
		t.Fatalf("expected error notification, got %+v", note)
	}
}

func TestCommandLoggerReceivesExecutionTelemetry(t *testing.T) {
	rem := &stubRemote{createFn: func(*remote.Payload) (item, error) { return item{ID: 1, Nom: "a"}, nil }}
	cmdLog := &recordingLogger{}
	r := New("items", listing.NewStore[item](), rem, &recordingNotifier{},
		WithCommandLogger[item, itemForm](cmdLog))

	if _, err := r.Create(context.Background(), itemForm{Nom: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	entry, ok := cmdLog.find("command.execute.success")
	if !ok {
		t.Fatalf("expected command.execute.success, got %+v", cmdLog.entries)
	}
	if len(entry.args) != 2 || entry.args[0] != "duration_ms" {
		t.Fatalf("expected duration_ms, got %v", entry.args)
	}

	rem.deleteErr = remote.ErrTransport
	r.Confirmation().Open(1, "")
	if err := r.Confirmation().Confirm(context.Background()); err == nil {
		t.Fatalf("expected delete error")
	}
	if _, ok := cmdLog.find("command.execute.failed"); !ok {
		t.Fatalf("expected command.execute.failed, got %+v", cmdLog.entries)
	}
}

func TestRunningDeleteLocksPrompt(t *testing.T) {
	rem := &stubRemote{block: make(chan struct{}), started: make(chan struct{}, 1)}
	r := New[item, itemForm]("items", listing.NewStore(item{ID: 3}, item{ID: 5}), rem, &recordingNotifier{})
	prompt := r.Confirmation()
	prompt.Open(5, "Service 5")

	done := make(chan error, 1)
	go func() { done <- prompt.Confirm(context.Background()) }()
	<-rem.started

	if !prompt.Loading() {
		t.Fatalf("expected prompt loading")
	}
	if prompt.Cancel() {
		t.Fatalf("expected cancel refused while loading")
	}
	if err := prompt.Confirm(context.Background()); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	prompt.Open(3, "Service 3")
	if id, _ := prompt.Target(); id != 5 {
		t.Fatalf("expected target kept while loading, got %d", id)
	}
	if !r.InFlightFor(OpDelete, 5) {
		t.Fatalf("expected delete of 5 in flight")
	}

	close(rem.block)
	if err := <-done; err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if rem.callCount() != 1 {
		t.Fatalf("expected one delete call, got %v", rem.calls)
	}
	if got := ids(r.Store().Items()); len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected {3}, got %v", got)
	}
	if prompt.Loading() || prompt.IsOpen() {
		t.Fatalf("expected prompt reset")
	}
}

func TestUpdatesOnDifferentIDsRunTogether(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	rem := &stubRemote{updateFn: func(id int, p *remote.Payload) (item, error) {
		if id == 1 {
			started <- struct{}{}
			<-release
		}
		nom, _ := p.Value("nom")
		return item{ID: id, Nom: nom}, nil
	}}
	store := listing.NewStore(item{ID: 1, Nom: "a"}, item{ID: 2, Nom: "b"})
	r := New[item, itemForm]("items", store, rem, &recordingNotifier{})

	done := make(chan error, 1)
	go func() {
		_, err := r.Update(context.Background(), 1, itemForm{Nom: "a2"})
		done <- err
	}()
	<-started

	if !r.InFlightFor(OpUpdate, 1) || r.InFlightFor(OpUpdate, 2) {
		t.Fatalf("expected only id 1 in flight")
	}
	if _, err := r.Update(context.Background(), 2, itemForm{Nom: "b2"}); err != nil {
		t.Fatalf("update 2: %v", err)
	}
	if _, err := r.Update(context.Background(), 1, itemForm{Nom: "a3"}); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	if r.InFlight(OpCreate) {
		t.Fatalf("expected no create in flight")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("update 1: %v", err)
	}
	if r.InFlightFor(OpUpdate, 1) {
		t.Fatalf("expected flag cleared")
	}
	first, _ := store.Get(1)
	second, _ := store.Get(2)
	if first.Nom != "a2" || second.Nom != "b2" {
		t.Fatalf("unexpected store %+v %+v", first, second)
	}
}
