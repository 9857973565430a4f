// Package handler exposes the identity registry: DIDs, schemas and credential definitions.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"credvault/internal/identity"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/httputil"
	"credvault/pkg/platform/middleware/request"
)

// Registry is the identity ledger surface used by the handler.
type Registry interface {
	CreateDID(ctx context.Context) (identity.DIDDocument, error)
	PublicKey(ctx context.Context, did id.DID) (string, error)
	RegisterSchema(ctx context.Context, issuer id.DID, name, version string, attrNames []string) (identity.Registration[identity.Schema], error)
	RegisterCredentialDefinition(ctx context.Context, issuer id.DID, schemaID string) (identity.Registration[identity.CredentialDefinition], error)
	CredentialDefinition(ctx context.Context, credDefID string) (identity.CredentialDefinition, error)
}

type Handler struct {
	registry Registry
	logger   *slog.Logger
}

func New(registry Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{registry: registry, logger: logger}
}

// Register mounts the identity routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/identity", func(r chi.Router) {
		r.Post("/dids", h.HandleCreateDID)
		r.Get("/dids/{did}/verkey", h.HandlePublicKey)
		r.Post("/schemas", h.HandleRegisterSchema)
		r.Post("/credential-definitions", h.HandleRegisterCredentialDefinition)
		r.Get("/credential-definitions/{credDefID}", h.HandleGetCredentialDefinition)
	})
}

func (h *Handler) HandleCreateDID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := h.registry.CreateDID(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to create DID", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) HandlePublicKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	did, err := id.ParseDID(chi.URLParam(r, "did"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	key, err := h.registry.PublicKey(ctx, did)
	if err != nil {
		h.fail(ctx, w, "failed to resolve verkey", err, "did", did)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, identity.DIDDocument{DID: did, Verkey: key})
}

func (h *Handler) HandleRegisterSchema(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterSchemaRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}

	reg, err := h.registry.RegisterSchema(ctx, id.DID(req.IssuerDID), req.Name, req.Version, req.AttrNames)
	if err != nil {
		h.fail(ctx, w, "failed to register schema", err, "issuer_did", req.IssuerDID)
		return
	}
	httputil.WriteJSON(w, registrationStatus(reg.Created), reg.Value)
}

func (h *Handler) HandleRegisterCredentialDefinition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterCredentialDefinitionRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}

	reg, err := h.registry.RegisterCredentialDefinition(ctx, id.DID(req.IssuerDID), req.SchemaID)
	if err != nil {
		h.fail(ctx, w, "failed to register credential definition", err, "schema_id", req.SchemaID)
		return
	}
	httputil.WriteJSON(w, registrationStatus(reg.Created), reg.Value)
}

func (h *Handler) HandleGetCredentialDefinition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credDefID := strings.TrimSpace(chi.URLParam(r, "credDefID"))

	def, err := h.registry.CredentialDefinition(ctx, credDefID)
	if err != nil {
		h.fail(ctx, w, "failed to get credential definition", err, "cred_def_id", credDefID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, def)
}

// registrationStatus answers 201 for a new entry and 200 when it already existed.
func registrationStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	attrs = append(attrs, "request_id", request.GetRequestID(ctx), "error", err)
	if httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
