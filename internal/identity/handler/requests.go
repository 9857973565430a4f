package handler

import (
	"strings"

	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/validation"
)

type RegisterSchemaRequest struct {
	IssuerDID string   `json:"issuerDid" validate:"required,did"`
	Name      string   `json:"name" validate:"required,notblank,max=100"`
	Version   string   `json:"version" validate:"required,notblank,max=20"`
	AttrNames []string `json:"attrNames" validate:"required,min=1"`
}

func (r *RegisterSchemaRequest) Normalize() {
	if r == nil {
		return
	}
	r.IssuerDID = strings.TrimSpace(r.IssuerDID)
	r.Name = strings.TrimSpace(r.Name)
	r.Version = strings.TrimSpace(r.Version)
	r.AttrNames = validation.DedupeAndTrim(r.AttrNames)
}

func (r *RegisterSchemaRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.CheckSliceCount("attribute names", len(r.AttrNames), validation.MaxAttributes)
}

type RegisterCredentialDefinitionRequest struct {
	IssuerDID string `json:"issuerDid" validate:"required,did"`
	SchemaID  string `json:"schemaId" validate:"required,notblank"`
}

func (r *RegisterCredentialDefinitionRequest) Normalize() {
	if r == nil {
		return
	}
	r.IssuerDID = strings.TrimSpace(r.IssuerDID)
	r.SchemaID = strings.TrimSpace(r.SchemaID)
}
