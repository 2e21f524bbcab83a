package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrMissingRole = errors.New("auth response missing role")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrProjectNotFound = errors.New("project not found")
var ErrTaskNotFound = errors.New("task not found")
var ErrCommentNotFound = errors.New("comment not found")
var ErrInvitationNotFound = errors.New("invitation not found")
var ErrNotificationNotFound = errors.New("notification not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidInput = errors.New("invalid input")
var ErrAlreadyResponded = errors.New("invitation has already been responded to")
var ErrNotProjectMember = errors.New("user is not a project member")
var ErrInvalidResetToken = errors.New("invalid or expired reset code")
