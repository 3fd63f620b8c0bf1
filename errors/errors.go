package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrNameTaken        = fmt.Errorf("channel name already taken")
	ErrChannelNotFound  = fmt.Errorf("channel not found")
	ErrUserNotFound     = fmt.Errorf("user not found")
	ErrEmptySlug        = fmt.Errorf("identity normalizes to an empty slug")
	ErrNotChannelOwner  = fmt.Errorf("channel does not belong to the requester")
	ErrAlreadyInChannel = fmt.Errorf("already a member of the channel")
	ErrNotAdministrator = fmt.Errorf("administrator privileges required")
	ErrMissingArgument  = fmt.Errorf("missing command argument")
)
