package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cms-admin/internal/commands"
	"github.com/goliatone/go-cms-admin/internal/listing"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/goliatone/go-cms-admin/internal/remote"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Op names a reconciler operation.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpToggle Op = "toggle"
)

// Input is a create/update form. Normalize trims and derives fields before
// Validate runs.
type Input[M any] interface {
	command.Message
	Normalize() M
	Validate() error
	Payload() *remote.Payload
}

// Remote is the part of remote.Resource a reconciler needs.
type Remote[T any] interface {
	Create(ctx context.Context, payload *remote.Payload) (T, error)
	Update(ctx context.Context, id int, payload *remote.Payload) (T, error)
	Delete(ctx context.Context, id int) (remote.Envelope, error)
	Action(ctx context.Context, id int, action string, payload *remote.Payload) (T, error)
}

// Outcome is passed to the success callback. Entity is the zero value for
// deletes.
type Outcome[T any] struct {
	Op     Op
	ID     int
	Entity T
}

// Messages are the notification texts of each operation.
type Messages struct {
	Created      string
	Updated      string
	Deleted      string
	Activated    string
	Deactivated  string
	CreateFailed string
	UpdateFailed string
	DeleteFailed string
	ToggleFailed string
}

func DefaultMessages() Messages {
	return Messages{
		Created:      "Créé avec succès",
		Updated:      "Mis à jour avec succès",
		Deleted:      "Supprimé avec succès",
		Activated:    "Activé avec succès",
		Deactivated:  "Désactivé avec succès",
		CreateFailed: "Erreur lors de la création",
		UpdateFailed: "Erreur lors de la mise à jour",
		DeleteFailed: "Erreur lors de la suppression",
		ToggleFailed: "Erreur lors du changement de statut",
	}
}

// Reconciler performs one remote mutation at a time per operation and
// entity, and applies confirmed results to the store. The store is never
// touched before the server answered with a valid envelope.
type Reconciler[T listing.Entity, M Input[M]] struct {
	resource string
	store    *listing.Store[T]
	remote   Remote[T]
	notifier notify.Notifier
	logger   interfaces.Logger
	cmdLog   interfaces.Logger
	messages Messages
	timeout  time.Duration

	activate   string
	deactivate string
	toggleForm func(entity T, active bool) M

	onSuccess func(ctx context.Context, outcome Outcome[T])
	confirm   *Confirmation

	mu       sync.Mutex
	inFlight map[flightKey]struct{}
}

type flightKey struct {
	op Op
	id int
}

type Option[T listing.Entity, M Input[M]] func(*Reconciler[T, M])

func WithLogger[T listing.Entity, M Input[M]](logger interfaces.Logger) Option[T, M] {
	return func(r *Reconciler[T, M]) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCommandLogger receives the command.execute.* entries with their
// durations. It defaults to the reconciler logger.
func WithCommandLogger[T listing.Entity, M Input[M]](logger interfaces.Logger) Option[T, M] {
	return func(r *Reconciler[T, M]) {
		if logger != nil {
			r.cmdLog = logger
		}
	}
}

func WithMessages[T listing.Entity, M Input[M]](messages Messages) Option[T, M] {
	return func(r *Reconciler[T, M]) {
		defaults := DefaultMessages()
		r.messages = Messages{
			Created:      firstNonEmpty(messages.Created, defaults.Created),
			Updated:      firstNonEmpty(messages.Updated, defaults.Updated),
			Deleted:      firstNonEmpty(messages.Deleted, defaults.Deleted),
			Activated:    firstNonEmpty(messages.Activated, defaults.Activated),
			Deactivated:  firstNonEmpty(messages.Deactivated, defaults.Deactivated),
			CreateFailed: firstNonEmpty(messages.CreateFailed, defaults.CreateFailed),
			UpdateFailed: firstNonEmpty(messages.UpdateFailed, defaults.UpdateFailed),
			DeleteFailed: firstNonEmpty(messages.DeleteFailed, defaults.DeleteFailed),
			ToggleFailed: firstNonEmpty(messages.ToggleFailed, defaults.ToggleFailed),
		}
	}
}

// WithToggleActions toggles through dedicated member endpoints, e.g.
// POST /hero-sections/{id}/activate.
func WithToggleActions[T listing.Entity, M Input[M]](activate, deactivate string) Option[T, M] {
	return func(r *Reconciler[T, M]) {
		r.activate = activate
		r.deactivate = deactivate
	}
}

// WithToggleUpdate toggles by sending a regular update built from the stored
// entity with its status flipped.
func WithToggleUpdate[T listing.Entity, M Input[M]](form func(entity T, active bool) M) Option[T, M] {
	return func(r *Reconciler[T, M]) {
		r.toggleForm = form
	}
}

// WithOnSuccess registers a callback run after every reconciled mutation.
func WithOnSuccess[T listing.Entity, M Input[M]](fn func(ctx context.Context, outcome Outcome[T])) Option[T, M] {
	return func(r *Reconciler[T, M]) {
		r.onSuccess = fn
	}
}

func WithTimeout[T listing.Entity, M Input[M]](timeout time.Duration) Option[T, M] {
	return func(r *Reconciler[T, M]) {
		r.timeout = timeout
	}
}

func New[T listing.Entity, M Input[M]](resource string, store *listing.Store[T], rem Remote[T], notifier notify.Notifier, opts ...Option[T, M]) *Reconciler[T, M] {
	if store == nil || rem == nil {
		panic("reconcile: store and remote are required")
	}
	r := &Reconciler[T, M]{
		resource: resource,
		store:    store,
		remote:   rem,
		notifier: notifier,
		logger:   logging.NoOp(),
		messages: DefaultMessages(),
		timeout:  commands.DefaultCommandTimeout,
		inFlight: make(map[flightKey]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.cmdLog == nil {
		r.cmdLog = r.logger
	}
	r.confirm = newConfirmation(r.Delete)
	return r
}

func (r *Reconciler[T, M]) Store() *listing.Store[T] { return r.store }

// Confirmation is the delete prompt guarding Delete.
func (r *Reconciler[T, M]) Confirmation() *Confirmation { return r.confirm }

// InFlight reports whether any call of op is running.
func (r *Reconciler[T, M]) InFlight(op Op) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.inFlight {
		if key.op == op {
			return true
		}
	}
	return false
}

// InFlightFor reports whether op is running for the entity id. Creates use 0.
func (r *Reconciler[T, M]) InFlightFor(op Op, id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inFlight[flightKey{op: op, id: id}]
	return ok
}

// Create validates msg, sends it and appends the created entity.
func (r *Reconciler[T, M]) Create(ctx context.Context, msg M) (T, error) {
	var created T
	release, err := r.begin(OpCreate, 0)
	if err != nil {
		return created, err
	}
	defer release()

	msg = msg.Normalize()
	if err := r.validate(msg); err != nil {
		return created, err
	}

	handler := r.handler(OpCreate, func(ctx context.Context, msg M) error {
		entity, err := r.remote.Create(ctx, msg.Payload())
		if err != nil {
			return err
		}
		created = entity
		return nil
	})
	if err := handler.Execute(ctx, msg); err != nil {
		r.fail(err, r.messages.CreateFailed)
		return created, err
	}

	if err := r.store.ReconcileCreate(created); err != nil {
		if !errors.Is(err, listing.ErrDuplicateID) {
			r.fail(err, r.messages.CreateFailed)
			return created, err
		}
		r.logger.Warn("reconcile.create.duplicate", "resource", r.resource, "entity_id", created.EntityID())
		r.store.ReconcileUpdate(created)
	}
	r.succeed(ctx, r.messages.Created, Outcome[T]{Op: OpCreate, ID: created.EntityID(), Entity: created})
	return created, nil
}

// Update validates msg, sends it and replaces the stored entity.
func (r *Reconciler[T, M]) Update(ctx context.Context, id int, msg M) (T, error) {
	release, err := r.begin(OpUpdate, id)
	if err != nil {
		var zero T
		return zero, err
	}
	defer release()
	return r.update(ctx, OpUpdate, id, msg, r.messages.Updated, r.messages.UpdateFailed)
}

func (r *Reconciler[T, M]) update(ctx context.Context, op Op, id int, msg M, success, failure string) (T, error) {
	var updated T
	msg = msg.Normalize()
	if err := r.validate(msg); err != nil {
		return updated, err
	}

	handler := r.handler(op, func(ctx context.Context, msg M) error {
		entity, err := r.remote.Update(ctx, id, msg.Payload())
		if err != nil {
			return err
		}
		updated = entity
		return nil
	})
	if err := handler.Execute(ctx, msg); err != nil {
		r.fail(err, failure)
		return updated, err
	}
	if err := r.sameEntity(id, updated); err != nil {
		r.fail(err, failure)
		var zero T
		return zero, err
	}
	r.apply(updated)
	r.succeed(ctx, success, Outcome[T]{Op: op, ID: id, Entity: updated})
	return updated, nil
}

// Delete removes id remotely then locally. It only runs from a confirmed
// prompt; call Confirmation().Open then Confirm.
func (r *Reconciler[T, M]) Delete(ctx context.Context, id int) error {
	if !r.confirm.approved(id) {
		return ErrNotConfirmed
	}
	release, err := r.begin(OpDelete, id)
	if err != nil {
		return err
	}
	defer release()

	msg := deleteMessage{Resource: r.resource, ID: id}
	handler := commands.NewHandler(func(ctx context.Context, msg deleteMessage) error {
		_, err := r.remote.Delete(ctx, msg.ID)
		return err
	}, handlerOptions[deleteMessage](r.logger, r.cmdLog, r.timeout, r.operation(OpDelete))...)
	if err := handler.Execute(ctx, msg); err != nil {
		r.fail(err, r.messages.DeleteFailed)
		return err
	}
	r.store.ReconcileDelete(id)
	var zero T
	r.succeed(ctx, r.messages.Deleted, Outcome[T]{Op: OpDelete, ID: id, Entity: zero})
	return nil
}

// Toggle sets the active status of id, through the action endpoints when
// configured and as an update otherwise.
func (r *Reconciler[T, M]) Toggle(ctx context.Context, id int, active bool) (T, error) {
	var zero T
	release, err := r.begin(OpToggle, id)
	if err != nil {
		return zero, err
	}
	defer release()

	success := r.messages.Deactivated
	if active {
		success = r.messages.Activated
	}

	if r.activate == "" && r.toggleForm == nil {
		return zero, fmt.Errorf("reconcile: %s has no toggle strategy", r.resource)
	}

	if r.activate == "" {
		current, ok := r.store.Get(id)
		if !ok {
			r.fail(ErrUnknownEntity, r.messages.ToggleFailed)
			return zero, ErrUnknownEntity
		}
		return r.update(ctx, OpToggle, id, r.toggleForm(current, active), success, r.messages.ToggleFailed)
	}

	action := r.deactivate
	if active {
		action = r.activate
	}
	var toggled T
	msg := toggleMessage{Resource: r.resource, ID: id, Action: action, Active: active}
	handler := commands.NewHandler(func(ctx context.Context, msg toggleMessage) error {
		entity, err := r.remote.Action(ctx, msg.ID, msg.Action, remote.NewPayload().SetBool("is_active", msg.Active))
		if err != nil {
			return err
		}
		toggled = entity
		return nil
	}, handlerOptions[toggleMessage](r.logger, r.cmdLog, r.timeout, r.operation(OpToggle))...)
	if err := handler.Execute(ctx, msg); err != nil {
		r.fail(err, r.messages.ToggleFailed)
		return toggled, err
	}
	if err := r.sameEntity(id, toggled); err != nil {
		r.fail(err, r.messages.ToggleFailed)
		return zero, err
	}
	r.apply(toggled)
	r.succeed(ctx, success, Outcome[T]{Op: OpToggle, ID: id, Entity: toggled})
	return toggled, nil
}

func (r *Reconciler[T, M]) begin(op Op, id int) (func(), error) {
	key := flightKey{op: op, id: id}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[key]; busy {
		return nil, ErrInFlight
	}
	r.inFlight[key] = struct{}{}
	return func() {
		r.mu.Lock()
		delete(r.inFlight, key)
		r.mu.Unlock()
	}, nil
}

// validate runs before any network call so field messages reach the user.
func (r *Reconciler[T, M]) validate(msg M) error {
	if err := msg.Validate(); err != nil {
		r.notify(MessageFor(err), notify.KindError)
		return commands.WrapValidationError(err)
	}
	return nil
}

func (r *Reconciler[T, M]) handler(op Op, fn command.CommandFunc[M]) *commands.Handler[M] {
	return commands.NewHandler(fn, handlerOptions[M](r.logger, r.cmdLog, r.timeout, r.operation(op))...)
}

func (r *Reconciler[T, M]) operation(op Op) string {
	return r.resource + "." + string(op)
}

// sameEntity rejects an answer about another entity than the one mutated.
func (r *Reconciler[T, M]) sameEntity(id int, entity T) error {
	if got := entity.EntityID(); got != id {
		r.logger.Warn("reconcile.entity.mismatch", "resource", r.resource, "entity_id", id, "returned_id", got)
		return remote.Malformed(fmt.Sprintf("expected %s %d, got id %d", r.resource, id, got))
	}
	return nil
}

// apply stores an updated entity. A missing entry is left out rather than
// appended since updates never create.
func (r *Reconciler[T, M]) apply(entity T) {
	if !r.store.ReconcileUpdate(entity) {
		r.logger.Debug("reconcile.update.untracked", "resource", r.resource, "entity_id", entity.EntityID())
	}
}

func (r *Reconciler[T, M]) fail(err error, fallback string) {
	r.logger.Error("reconcile.failed", "resource", r.resource, "error", err)
	r.notify(MessageOr(err, fallback), notify.KindError)
}

func (r *Reconciler[T, M]) succeed(ctx context.Context, message string, outcome Outcome[T]) {
	r.notify(message, notify.KindSuccess)
	if r.onSuccess != nil {
		r.onSuccess(ctx, outcome)
	}
}

func (r *Reconciler[T, M]) notify(message string, kind notify.Kind) {
	if r.notifier == nil || message == "" {
		return
	}
	r.notifier.Notify(message, kind)
}

func handlerOptions[C command.Message](logger, cmdLog interfaces.Logger, timeout time.Duration, operation string) []commands.HandlerOption[C] {
	return []commands.HandlerOption[C]{
		commands.WithLogger[C](logger),
		commands.WithTimeout[C](timeout),
		commands.WithOperation[C](operation),
		commands.WithTelemetry[C](commands.DefaultTelemetry[C](cmdLog)),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type deleteMessage struct {
	Resource string
	ID       int
}

func (m deleteMessage) Type() string { return "admin." + m.Resource + ".delete" }

func (m deleteMessage) Validate() error {
	if m.ID <= 0 {
		return errors.New("delete requires an entity id")
	}
	return nil
}

type toggleMessage struct {
	Resource string
	ID       int
	Action   string
	Active   bool
}

func (m toggleMessage) Type() string { return "admin." + m.Resource + ".toggle" }

func (m toggleMessage) Validate() error {
	if m.ID <= 0 {
		return errors.New("toggle requires an entity id")
	}
	return nil
}
