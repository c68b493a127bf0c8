package mock

import (
	"fmt"

	kiterrors "github.com/dynohub/addons/kit/errors"
)

var (
	// ErrNoCredentials is returned when a request carries no usable
	// Authorization header.
	ErrNoCredentials = &kiterrors.Error{
		Code: kiterrors.EUnauthorized,
		Msg:  "credentials required",
	}

	// ErrAppRequired is returned when a mutation names no app.
	ErrAppRequired = &kiterrors.Error{
		Code: kiterrors.EInvalid,
		Msg:  "app is required",
	}

	// ErrFailureGeneratingName occurs only when the name generator
	// cannot find a collision-free name in maxNameGenerationN tries.
	ErrFailureGeneratingName = &kiterrors.Error{
		Code: kiterrors.EInternal,
		Msg:  "unable to generate unique resource name",
	}
)

// ErrResourceNotFound is used when the requested resource is absent.
func ErrResourceNotFound(name string) *kiterrors.Error {
	return &kiterrors.Error{
		Code: kiterrors.ENotFound,
		Msg:  fmt.Sprintf("resource %q not found", name),
	}
}

// ResourceAlreadyExistsError is used when provisioning under a name that
// is taken and the request did not force.
func ResourceAlreadyExistsError(name string) *kiterrors.Error {
	return &kiterrors.Error{
		Code: kiterrors.EConflict,
		Msg:  fmt.Sprintf("resource with name %s already exists", name),
	}
}

// ErrAttachmentNotFound is used when the named attachment is absent on
// the app.
func ErrAttachmentNotFound(app, name string) *kiterrors.Error {
	return &kiterrors.Error{
		Code: kiterrors.ENotFound,
		Msg:  fmt.Sprintf("attachment %q not found on app %q", name, app),
	}
}

// AttachmentAlreadyExistsError is used when attaching under a name that
// is taken on the app and the request did not force.
func AttachmentAlreadyExistsError(app, name string) *kiterrors.Error {
	return &kiterrors.Error{
		Code: kiterrors.EConflict,
		Msg:  fmt.Sprintf("attachment with name %s already exists on app %s", name, app),
	}
}

// ErrCorruptBundle means a persisted tenant bundle could not be decoded.
// This aborts startup rather than silently discarding the tester's state.
func ErrCorruptBundle(tenant string, err error) *kiterrors.Error {
	return &kiterrors.Error{
		Code: kiterrors.ECorruptState,
		Msg:  fmt.Sprintf("corrupt bundle persisted for tenant %q", tenant),
		Err:  err,
	}
}
