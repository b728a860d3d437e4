package reconcile

import (
	"errors"
	"maps"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-admin/internal/remote"
)

var (
	// ErrInFlight is returned when the same operation is already running for
	// the same entity.
	ErrInFlight = errors.New("reconcile: operation already in flight")
	// ErrNotConfirmed is returned by Delete when the confirmation prompt was
	// not opened and confirmed for the entity.
	ErrNotConfirmed = errors.New("reconcile: delete not confirmed")
	// ErrUnknownEntity is returned by Toggle when the store has no such entry.
	ErrUnknownEntity = errors.New("reconcile: entity not in store")
)

const (
	messageTransport = "Impossible de contacter le serveur"
	messageMalformed = "Réponse invalide du serveur"
	messageRejected  = "La requête a été refusée par le serveur"
	messageGeneric   = "Une erreur est survenue"
)

// MessageFor turns err into the text shown to the user: the first field
// message of a validation failure, the server message when one was sent, or
// a generic message for the error kind.
func MessageFor(err error) string {
	return MessageOr(err, "")
}

// MessageOr is MessageFor with fallback in place of the generic message.
func MessageOr(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for _, key := range slices.Sorted(maps.Keys(fieldErrs)) {
			if fieldErrs[key] != nil {
				return fieldErrs[key].Error()
			}
		}
	}
	var single validation.Error
	if errors.As(err, &single) {
		return single.Error()
	}
	if rejected, ok := remote.Rejection(err); ok && strings.TrimSpace(rejected.Message) != "" {
		return rejected.Message
	}
	if fallback != "" {
		return fallback
	}
	switch {
	case errors.Is(err, remote.ErrTransport):
		return messageTransport
	case errors.Is(err, remote.ErrMalformedResponse):
		return messageMalformed
	case errors.Is(err, remote.ErrRejected):
		return messageRejected
	}
	return messageGeneric
}
