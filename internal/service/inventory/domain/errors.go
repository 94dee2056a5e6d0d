package domain

import "autohub/internal/pkg/apperr"

var (
	ErrItemNotFound      = &apperr.Error{Kind: apperr.KindNotFound, Msg: "inventory item not found"}
	ErrItemExists        = &apperr.Error{Kind: apperr.KindConflict, Msg: "inventory already exists for item"}
	ErrInsufficientStock = &apperr.Error{Kind: apperr.KindInsufficientStock, Msg: "insufficient stock"}
	ErrInvalidRelease    = &apperr.Error{Kind: apperr.KindInvalidRelease, Msg: "cannot release more units than reserved"}
	ErrInvalidUnits      = &apperr.Error{Kind: apperr.KindValidation, Msg: "units must be at least 1", Fields: map[string]string{"units": "must be >= 1"}}
	ErrNegativeStock     = &apperr.Error{Kind: apperr.KindValidation, Msg: "available units must not be negative", Fields: map[string]string{"availableUnits": "must be >= 0"}}
)
