// Package handler exposes the credential lifecycle, holder and verifier flows over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"credvault/internal/credential/models"
	"credvault/internal/credential/service"
	"credvault/internal/credential/store"
	"credvault/internal/proof"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/httputil"
	"credvault/pkg/platform/middleware/request"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service is the credential service surface used by the handler.
type Service interface {
	Request(ctx context.Context, cmd service.RequestCommand) (*models.Credential, error)
	Issue(ctx context.Context, credentialID id.CredentialID) (*service.IssueResult, error)
	Revoke(ctx context.Context, credentialID id.CredentialID, reason string) (*service.RevokeResult, error)
	Get(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error)
	RetrievePayload(ctx context.Context, credentialID id.CredentialID, actor id.DID) (*models.IssuancePayload, error)
	Share(ctx context.Context, cmd service.ShareCommand) (*proof.DisclosureProof, error)
	ProvePredicate(ctx context.Context, cmd service.PredicateCommand) (*proof.RangeProof, error)
	ProveOwnership(ctx context.Context, credentialID id.CredentialID, holder id.DID) (*proof.OwnershipProof, error)
	VerifyPresentation(ctx context.Context, p service.Presentation) (*service.PresentationResult, error)
	VerifyPredicateProof(ctx context.Context, p service.PredicatePresentation) (*service.ProofVerdict, error)
	VerifyOwnershipProof(ctx context.Context, p service.OwnershipPresentation) (*service.ProofVerdict, error)
	RevocationStatus(ctx context.Context, credentialID id.CredentialID) (*service.RevocationStatus, error)
	ListByHolder(ctx context.Context, holder id.DID, filter store.Filter) ([]*models.Credential, error)
	ListByIssuer(ctx context.Context, issuer id.DID, filter store.Filter) ([]*models.Credential, error)
	HolderStats(ctx context.Context, holder id.DID) (models.HolderStats, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: svc, logger: logger}
}

// Register mounts the credential routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/credentials", func(r chi.Router) {
		r.Post("/", h.HandleRequest)
		r.Route("/{credentialID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Post("/issue", h.HandleIssue)
			r.Post("/revoke", h.HandleRevoke)
			r.Get("/payload", h.HandlePayload)
			r.Get("/revocation", h.HandleRevocationStatus)
			r.Post("/share", h.HandleShare)
			r.Post("/predicate", h.HandlePredicate)
			r.Post("/ownership", h.HandleOwnership)
		})
	})
	r.Post("/presentations/verify", h.HandleVerify)
	r.Post("/presentations/predicate/verify", h.HandleVerifyPredicate)
	r.Post("/presentations/ownership/verify", h.HandleVerifyOwnership)
	r.Get("/holders/{did}/credentials", h.HandleListByHolder)
	r.Get("/holders/{did}/stats", h.HandleHolderStats)
	r.Get("/issuers/{did}/credentials", h.HandleListByIssuer)
}

func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RequestCredentialRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cred, err := h.service.Request(ctx, req.ToCommand())
	if err != nil {
		h.fail(ctx, w, "failed to request credential", err, requestID)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCredentialResponse(cred))
}

func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	credID, ok := h.credentialID(w, r)
	if !ok {
		return
	}

	res, err := h.service.Issue(ctx, credID)
	if err != nil {
		h.fail(ctx, w, "failed to issue credential", err, requestID, "credential_id", credID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, IssueResponse{
		Credential:   toCredentialResponse(res.Credential),
		AnchorTxID:   res.Anchor.TxID,
		AnchorReused: res.AnchorReused,
	})
}

func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	credID, ok := h.credentialID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RevokeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Revoke(ctx, credID, req.Reason)
	if err != nil {
		h.fail(ctx, w, "failed to revoke credential", err, requestID, "credential_id", credID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RevokeResponse{
		Credential: toCredentialResponse(res.Credential),
		Revocation: res.Revocation,
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credID, ok := h.credentialID(w, r)
	if !ok {
		return
	}

	cred, err := h.service.Get(ctx, credID)
	if err != nil {
		h.fail(ctx, w, "failed to get credential", err, request.GetRequestID(ctx), "credential_id", credID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCredentialResponse(cred))
}

func (h *Handler) HandlePayload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credID, ok := h.credentialID(w, r)
	if !ok {
		return
	}
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	payload, err := h.service.RetrievePayload(ctx, credID, actor)
	if err != nil {
		h.fail(ctx, w, "failed to retrieve payload", err, request.GetRequestID(ctx), "credential_id", credID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) HandleRevocationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credID, ok := h.credentialID(w, r)
	if !ok {
		return
	}

	status, err := h.service.RevocationStatus(ctx, credID)
	if err != nil {
		h.fail(ctx, w, "failed to check revocation status", err, request.GetRequestID(ctx), "credential_id", credID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	credID, ok := h.credentialID(w, r)
	if !ok {
		return
	}
	holder, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ShareRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := h.service.Share(ctx, service.ShareCommand{
		CredentialID: credID,
		HolderDID:    holder,
		VerifierDID:  id.DID(req.VerifierDID),
		Revealed:     req.Revealed,
	})
	if err != nil {
		h.fail(ctx, w, "failed to share credential", err, requestID, "credential_id", credID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) HandlePredicate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	credID, ok := h.credentialID(w, r)
	if !ok {
		return
	}
	holder, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PredicateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := h.service.ProvePredicate(ctx, service.PredicateCommand{
		CredentialID: credID,
		HolderDID:    holder,
		Attribute:    req.Attribute,
		Operator:     req.operator,
		Threshold:    req.Threshold,
	})
	if err != nil {
		h.fail(ctx, w, "failed to build predicate proof", err, requestID, "credential_id", credID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credID, ok := h.credentialID(w, r)
	if !ok {
		return
	}
	holder, ok := h.actor(w, r)
	if !ok {
		return
	}

	p, err := h.service.ProveOwnership(ctx, credID, holder)
	if err != nil {
		h.fail(ctx, w, "failed to build ownership proof", err, request.GetRequestID(ctx), "credential_id", credID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// HandleVerify always answers 200 for a verdict; Verified=false carries the reason.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.VerifyPresentation(ctx, req.ToPresentation())
	if err != nil {
		h.fail(ctx, w, "failed to verify presentation", err, requestID, "credential_id", req.CredentialID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleVerifyPredicate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyPredicateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.VerifyPredicateProof(ctx, service.PredicatePresentation{
		VerifierDID: id.DID(req.VerifierDID),
		Proof:       req.Proof,
	})
	if err != nil {
		h.fail(ctx, w, "failed to verify predicate proof", err, requestID, "credential_id", req.Proof.CredentialID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleVerifyOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyOwnershipRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.VerifyOwnershipProof(ctx, service.OwnershipPresentation{
		VerifierDID: id.DID(req.VerifierDID),
		Proof:       req.Proof,
	})
	if err != nil {
		h.fail(ctx, w, "failed to verify ownership proof", err, requestID, "credential_id", req.Proof.CredentialID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleListByHolder(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListByHolder)
}

func (h *Handler) HandleListByIssuer(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListByIssuer)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, id.DID, store.Filter) ([]*models.Credential, error)) {
	ctx := r.Context()
	did, err := id.ParseDID(chi.URLParam(r, "did"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	creds, err := fetch(ctx, did, filter)
	if err != nil {
		h.fail(ctx, w, "failed to list credentials", err, request.GetRequestID(ctx), "did", did)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(creds))
}

func (h *Handler) HandleHolderStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	did, err := id.ParseDID(chi.URLParam(r, "did"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stats, err := h.service.HolderStats(ctx, did)
	if err != nil {
		h.fail(ctx, w, "failed to compute holder stats", err, request.GetRequestID(ctx), "did", did)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) credentialID(w http.ResponseWriter, r *http.Request) (id.CredentialID, bool) {
	credID, err := id.ParseCredentialID(chi.URLParam(r, "credentialID"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return credID, true
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (id.DID, bool) {
	did, err := id.ParseDID(request.GetActorDID(r.Context()))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, request.HeaderActorDID+" header is required"))
		return "", false
	}
	return did, true
}

// fail logs server-side failures at error level and client mistakes at warn.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, requestID string, attrs ...any) {
	attrs = append(attrs, "request_id", requestID, "error", err)
	if httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
