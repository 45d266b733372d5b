package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField : nom de champ hors du formulaire
	ErrUnknownField = errors.New("unknown lead field")

	// ErrInFlight : une génération est déjà en cours pour ce formulaire
	ErrInFlight = errors.New("generation already in progress")

	// ErrNothingToCopy : aucun email généré à copier
	ErrNothingToCopy = errors.New("no generated email to copy")

	// ErrAborted : l'appel de complétion s'est interrompu sans résultat (panic)
	ErrAborted = errors.New("generation aborted")
)

// MsgMissingRequired est affiché quand un champ obligatoire est vide
const MsgMissingRequired = "Please fill in at least Name, Company, and Role."

// ValidationError : le lead ne peut pas être envoyé au modèle
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NetworkError enveloppe un échec de transport (DNS, timeout, connexion coupée)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError : la réponse est arrivée mais sans texte exploitable.
// Payload contient le corps brut renvoyé par le fournisseur.
type MalformedResponseError struct {
	Payload string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed completion response: %v: %s", e.Err, e.Payload)
	}
	return "malformed completion response: " + e.Payload
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// FailureMessage transforme une erreur de génération en message affiché
func FailureMessage(err error) string {
	var (
		verr *ValidationError
		nerr *NetworkError
		merr *MalformedResponseError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &nerr):
		return "Error: " + nerr.Err.Error()
	case errors.As(err, &merr):
		if merr.Payload == "" && merr.Err != nil {
			return "Error: " + merr.Err.Error()
		}
		return "Error: " + merr.Payload
	default:
		return "Error: " + err.Error()
	}
}
