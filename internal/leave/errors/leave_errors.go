package leaveerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"an approved leave already covers part of this period",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidTransition,
		"leave request is no longer pending",
		http.StatusConflict,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"comment is required when rejecting a request",
		http.StatusBadRequest,
	)
	ErrUnknownDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approve, reject or forward",
		http.StatusBadRequest,
	)
	ErrInvalidForwardTarget = apperror.New(
		apperror.CodeInvalidInput,
		"forward_to must identify another reviewer",
		http.StatusBadRequest,
	)
	ErrForwardTargetNotFound = apperror.New(
		apperror.CodeNotFound,
		"forward target not found",
		http.StatusNotFound,
	)
	ErrForwardTargetNotReviewer = apperror.New(
		apperror.CodeInvalidInput,
		"forward target has no reviewing capability",
		http.StatusBadRequest,
	)
	ErrNotAssignedReviewer = apperror.New(
		apperror.CodeForbidden,
		"this request has been forwarded to another reviewer",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requesting employee may cancel this request",
		http.StatusForbidden,
	)
)
