package handler

import (
	"strings"

	dErrors "pkgconfirm/pkg/domain-errors"
)

type StartRequest struct {
	PackageURI string `json:"package_uri"`
}

func (r *StartRequest) Validate() error {
	r.PackageURI = strings.TrimSpace(r.PackageURI)
	if r.PackageURI == "" {
		return dErrors.New(dErrors.CodeBadRequest, "package_uri is required")
	}
	if len(r.PackageURI) > 2048 {
		return dErrors.New(dErrors.CodeBadRequest, "package_uri is too long")
	}
	return nil
}
