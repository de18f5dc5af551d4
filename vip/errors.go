package vip

import "fmt"

// The engine error taxonomy. Every failure a request can hit maps to one of
// these types; all are recoverable at the request boundary and none leaks
// transport detail into user-visible text.

// IdentityNotFoundError indicates the directory has no match for a token.
type IdentityNotFoundError struct {
	Token string
}

func (e *IdentityNotFoundError) Error() string {
	return fmt.Sprintf("identity not found for %q", e.Token)
}

// SelfVIPError indicates an attempt to add oneself as a VIP.
type SelfVIPError struct {
	UserID string
}

func (e *SelfVIPError) Error() string {
	return "cannot add yourself as a VIP"
}

// DuplicateVIPError indicates the pair already has an active relationship.
type DuplicateVIPError struct {
	Username string
}

func (e *DuplicateVIPError) Error() string {
	return fmt.Sprintf("@%s is already in your VIP list", e.Username)
}

// VIPNotFoundError indicates no active relationship exists for the pair.
type VIPNotFoundError struct {
	Username string
}

func (e *VIPNotFoundError) Error() string {
	return fmt.Sprintf("@%s is not in your VIP list", e.Username)
}

// FetchError indicates conversation retrieval failed before any page was
// successfully read.
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: %s", e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SynthesisError indicates the summarization service call failed or returned
// nothing usable. No record is written when this is returned.
type SynthesisError struct {
	Reason string
	Err    error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed: %s", e.Reason)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// StorageError indicates a persistence-layer failure. Fatal to the request,
// never to prior records.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "storage failure"
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UserMessage maps an engine error to the single user-visible line for the
// command surface. Each message names the failed step category and, where it
// helps, a remediation hint.
func UserMessage(err error) string {
	switch e := err.(type) {
	case *IdentityNotFoundError:
		return fmt.Sprintf("Identity lookup failed: no workspace user matches %q.", e.Token)
	case *SelfVIPError:
		return "Registry: you cannot add yourself as a VIP."
	case *DuplicateVIPError:
		return fmt.Sprintf("Registry: @%s is already in your VIP list.", e.Username)
	case *VIPNotFoundError:
		return fmt.Sprintf("Registry: @%s is not in your VIP list. Use `/vip list` to see valid VIPs.", e.Username)
	case *FetchError:
		return "Fetch: could not retrieve the conversation history. Please try again later."
	case *SynthesisError:
		return "Synthesis: the summarization service did not return a result. Please try again later."
	case *StorageError:
		return "Storage: could not save the result. Please try again later."
	default:
		return "Something went wrong. Please try again later."
	}
}
