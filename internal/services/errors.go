package services

import (
	"errors"
	"fmt"

	"teamchat/internal/notify"
	"teamchat/internal/repositories"
)

var (
	ErrNotFound           = repositories.ErrNotFound
	ErrValidation         = errors.New("validation failed")
	ErrNotAssignee        = errors.New("only the assignee can respond to this task")
	ErrNotTaskProposal    = errors.New("message is not a task proposal")
	ErrAlreadyResponded   = errors.New("task proposal was already answered")
	ErrNotTeamMember      = errors.New("user is not a member of this team")
	ErrEmailNotConfigured = notify.ErrNotConfigured
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
