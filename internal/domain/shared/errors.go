package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Scrape-related errors

// NotLoggedInError signals a precondition violation: the caller invoked a
// community operation without an active web session. Never retried here;
// the session collaborator must renew first.
type NotLoggedInError struct {
	*DomainError
	AccountID string
}

func NewNotLoggedInError(accountID string) *NotLoggedInError {
	return &NotLoggedInError{
		DomainError: NewDomainError(fmt.Sprintf("account %s is not logged in", accountID)),
		AccountID:   accountID,
	}
}

// FetchFailedError signals that a page fetch kept failing after the full
// retry budget was spent.
type FetchFailedError struct {
	*DomainError
	Page     int
	Attempts int
	LastErr  error
}

func NewFetchFailedError(page, attempts int, lastErr error) *FetchFailedError {
	return &FetchFailedError{
		DomainError: NewDomainError(fmt.Sprintf("page %d fetch failed after %d attempts: %v", page, attempts, lastErr)),
		Page:        page,
		Attempts:    attempts,
		LastErr:     lastErr,
	}
}

func (e *FetchFailedError) Unwrap() error {
	return e.LastErr
}

// SessionExpiredError signals that authentication was lost mid-scrape.
// Surfaced immediately without retry; session renewal is external.
type SessionExpiredError struct {
	*DomainError
	AccountID string
}

func NewSessionExpiredError(accountID string) *SessionExpiredError {
	return &SessionExpiredError{
		DomainError: NewDomainError(fmt.Sprintf("session expired for account %s", accountID)),
		AccountID:   accountID,
	}
}

// Confirmation errors

// ListFailedError signals that the pending-confirmation listing kept
// failing after the full retry budget was spent.
type ListFailedError struct {
	*DomainError
	Attempts int
	LastErr  error
}

func NewListFailedError(attempts int, lastErr error) *ListFailedError {
	return &ListFailedError{
		DomainError: NewDomainError(fmt.Sprintf("confirmation listing failed after %d attempts: %v", attempts, lastErr)),
		Attempts:    attempts,
		LastErr:     lastErr,
	}
}

func (e *ListFailedError) Unwrap() error {
	return e.LastErr
}

// ConfirmationsDisabledError signals a precondition violation: confirmation
// resolution was requested for an account without trade confirmation
// enabled or without an identity secret.
type ConfirmationsDisabledError struct {
	*DomainError
	AccountID string
}

func NewConfirmationsDisabledError(accountID string) *ConfirmationsDisabledError {
	return &ConfirmationsDisabledError{
		DomainError: NewDomainError(fmt.Sprintf("confirmations are not enabled for account %s", accountID)),
		AccountID:   accountID,
	}
}

// Scheduling errors

// InvalidTargetError signals that an explicit idle request named the "no
// game" sentinel (title id 0) or another unusable target.
type InvalidTargetError struct {
	*DomainError
	TitleID int
}

func NewInvalidTargetError(titleID int) *InvalidTargetError {
	return &InvalidTargetError{
		DomainError: NewDomainError(fmt.Sprintf("invalid idle target: %d", titleID)),
		TitleID:     titleID,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
