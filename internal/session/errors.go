package session

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// CategorySession tags authentication failures.
const CategorySession = goerrors.Category("session")

const unauthenticatedCode = "SESSION_UNAUTHENTICATED"

var (
	// ErrUnauthenticated is returned when the server refused the stored
	// token. The local session has been cleared.
	ErrUnauthenticated = errors.New("Session expirée, veuillez vous reconnecter")
	ErrNoAccessToken   = errors.New("Aucun token d'accès trouvé")
	ErrNoRefreshToken  = errors.New("Aucun refresh token disponible")
)

func unauthenticated(cause error) error {
	return goerrors.Wrap(errors.Join(ErrUnauthenticated, cause), CategorySession, ErrUnauthenticated.Error()).
		WithTextCode(unauthenticatedCode)
}
