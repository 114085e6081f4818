package company

import "errors"

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrCompanyInactive = errors.New("company is inactive")
)
