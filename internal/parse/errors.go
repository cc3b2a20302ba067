package parse

import (
	"errors"
	"fmt"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// ErrContainerNotFound means none of a platform's container rules matched.
var ErrContainerNotFound = errors.New("conversation container not found")

// ErrNoTurns means an entry matched none of the turn rules.
var ErrNoTurns = errors.New("no message turns found")

// EntryError describes one conversation entry that could not be
// reconstructed. The rest of the document is unaffected.
type EntryError struct {
	Platform record.Platform
	Index    int
	Err      error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("malformed entry [%s] #%d: %v", e.Platform, e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// DocumentError is a whole-document parse failure.
type DocumentError struct {
	Platform record.Platform
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("parse error [%s]: %v", e.Platform, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
