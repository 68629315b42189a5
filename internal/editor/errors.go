package editor

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField      = errors.New("unknown form field")
	ErrUnknownCategory   = errors.New("service type has no rental or activity category")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrNotEditable       = errors.New("session is not editable")
	ErrSubmitInFlight    = errors.New("a submission is already in progress")
	ErrSessionClosed     = errors.New("edit session closed")
)

// User-facing fallbacks when the server gives no message.
const (
	MsgSubmitFailed     = "Failed to update service. Please try again."
	MsgServiceLoad      = "Failed to load service details."
	MsgInterruptedSave  = "The previous save did not complete. Please try again."
	MsgUnverifiedVendor = "Your vendor account must be verified before you can edit services."
)

// ValidationError blocks a submission before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// SubmitError is a failed update. Message is what the user should see.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return "submit failed: " + e.Err.Error() }
func (e *SubmitError) Unwrap() error { return e.Err }

// Warning is a non-blocking notice shown next to the form.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	WarnAmenitiesUnreadable = "amenities_unreadable"
	WarnSpecificsUnreadable = "specifics_unreadable"
	WarnImagesUnreadable    = "images_unreadable"
	WarnCategoryChanged     = "category_changed"
)

var (
	warnAmenities = Warning{
		Code:    WarnAmenitiesUnreadable,
		Message: "Existing amenities could not be read and were left empty. Saving will replace them.",
	}
	warnSpecifics = Warning{
		Code:    WarnSpecificsUnreadable,
		Message: "Some service details could not be read and were left empty.",
	}
	warnImages = Warning{
		Code:    WarnImagesUnreadable,
		Message: "Existing images could not be read and were left empty. Saving will replace them.",
	}
	warnCategory = Warning{
		Code:    WarnCategoryChanged,
		Message: "You changed the service category. Category-specific fields might be reset when you save.",
	}
)
