package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const RoleOwner = "owner"

// Requester: identitas pemanggil (diisi dari token di layer HTTP).
type Requester struct {
	UserID         uuid.UUID
	Role           string
	OrganizerAreas []uuid.UUID
}

func (r Requester) IsOwner() bool {
	return strings.EqualFold(strings.TrimSpace(r.Role), RoleOwner)
}

// Authorizer menjawab: boleh requester bertindak sebagai organizer di area ini?
type Authorizer interface {
	CanOrganize(ctx context.Context, requester Requester, areaID uuid.UUID) (bool, error)
}

// ClaimsAuthorizer: owner bypass, selain itu area harus ada di organizer_area_ids token.
type ClaimsAuthorizer struct{}

func (ClaimsAuthorizer) CanOrganize(_ context.Context, r Requester, areaID uuid.UUID) (bool, error) {
	if r.UserID == uuid.Nil || areaID == uuid.Nil {
		return false, nil
	}
	if r.IsOwner() {
		return true, nil
	}
	for _, a := range r.OrganizerAreas {
		if a == areaID {
			return true, nil
		}
	}
	return false, nil
}

// AuthorizerFunc adaptor fungsi → Authorizer.
type AuthorizerFunc func(ctx context.Context, r Requester, areaID uuid.UUID) (bool, error)

func (f AuthorizerFunc) CanOrganize(ctx context.Context, r Requester, areaID uuid.UUID) (bool, error) {
	return f(ctx, r, areaID)
}

func requireOrganizer(ctx context.Context, az Authorizer, r Requester, areaID uuid.UUID) error {
	if r.UserID == uuid.Nil {
		return newError(ErrAccessDenied, "requester tidak dikenal")
	}
	ok, err := az.CanOrganize(ctx, r, areaID)
	if err != nil {
		return wrapError(ErrStorageFailure, err, "gagal cek otorisasi")
	}
	if !ok {
		return newError(ErrAccessDenied, "hanya pengurus area ini yang boleh melakukan aksi ini")
	}
	return nil
}
