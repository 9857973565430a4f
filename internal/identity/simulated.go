package identity

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/middleware/requesttime"
)

// Simulated is an in-process identity ledger.
type Simulated struct {
	mu       sync.RWMutex
	verkeys  map[id.DID]string
	schemas  map[string]Schema
	credDefs map[string]CredentialDefinition
	logger   *slog.Logger
}

var _ Service = (*Simulated)(nil)

// SimulatedOption configures Simulated.
type SimulatedOption func(*Simulated)

func WithLogger(logger *slog.Logger) SimulatedOption {
	return func(s *Simulated) { s.logger = logger }
}

func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		verkeys:  make(map[id.DID]string),
		schemas:  make(map[string]Schema),
		credDefs: make(map[string]CredentialDefinition),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDID mints and registers a new DID with a verification key.
func (s *Simulated) CreateDID(ctx context.Context) (DIDDocument, error) {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	doc := DIDDocument{
		DID:    id.DID("did:sov:sim" + raw[:21]),
		Verkey: "verkey" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
	if _, err := s.RegisterDID(ctx, doc); err != nil {
		return DIDDocument{}, err
	}
	return doc, nil
}

// RegisterDID records an externally minted DID. Re-registering returns the existing document.
func (s *Simulated) RegisterDID(ctx context.Context, doc DIDDocument) (Registration[DIDDocument], error) {
	if doc.DID.IsNil() || doc.Verkey == "" {
		return Registration[DIDDocument]{}, dErrors.New(dErrors.CodeInvalidInput, "DID and verkey are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.verkeys[doc.DID]; ok {
		return Registration[DIDDocument]{Value: DIDDocument{DID: doc.DID, Verkey: existing}}, nil
	}
	s.verkeys[doc.DID] = doc.Verkey
	s.logger.InfoContext(ctx, "did registered", "did", doc.DID)
	return Registration[DIDDocument]{Value: doc, Created: true}, nil
}

func (s *Simulated) PublicKey(_ context.Context, did id.DID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.verkeys[did]
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "DID not registered")
	}
	return key, nil
}

// RegisterSchema registers <issuer>:2:<name>:<version>.
func (s *Simulated) RegisterSchema(ctx context.Context, issuer id.DID, name, version string, attrNames []string) (Registration[Schema], error) {
	if issuer.IsNil() || name == "" || version == "" {
		return Registration[Schema]{}, dErrors.New(dErrors.CodeInvalidInput, "issuer, schema name and version are required")
	}
	if len(attrNames) == 0 {
		return Registration[Schema]{}, dErrors.New(dErrors.CodeInvalidInput, "schema needs at least one attribute")
	}
	schemaID := fmt.Sprintf("%s:2:%s:%s", issuer, name, version)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.schemas[schemaID]; ok {
		return Registration[Schema]{Value: existing}, nil
	}
	schema := Schema{
		ID:        schemaID,
		Name:      name,
		Version:   version,
		AttrNames: slices.Sorted(slices.Values(attrNames)),
	}
	s.schemas[schemaID] = schema
	s.logger.InfoContext(ctx, "schema registered", "schema_id", schemaID)
	return Registration[Schema]{Value: schema, Created: true}, nil
}

// RegisterCredentialDefinition registers <issuer>:3:CL:<schemaID> for a known schema.
func (s *Simulated) RegisterCredentialDefinition(ctx context.Context, issuer id.DID, schemaID string) (Registration[CredentialDefinition], error) {
	if issuer.IsNil() || schemaID == "" {
		return Registration[CredentialDefinition]{}, dErrors.New(dErrors.CodeInvalidInput, "issuer and schema id are required")
	}
	credDefID := fmt.Sprintf("%s:3:CL:%s", issuer, schemaID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schemas[schemaID]; !ok {
		return Registration[CredentialDefinition]{}, dErrors.New(dErrors.CodeNotFound, "schema not registered")
	}
	if existing, ok := s.credDefs[credDefID]; ok {
		return Registration[CredentialDefinition]{Value: existing.clone()}, nil
	}
	def := CredentialDefinition{ID: credDefID, SchemaID: schemaID, Type: "CL", Tag: "default", Issuers: []id.DID{issuer}}
	s.credDefs[credDefID] = def
	s.logger.InfoContext(ctx, "credential definition registered", "cred_def_id", credDefID)
	return Registration[CredentialDefinition]{Value: def.clone(), Created: true}, nil
}

// RegisterCredentialType registers the type's schema and credential definition when
// absent and binds the issuer to the definition. Created is false when the issuer was
// already bound.
func (s *Simulated) RegisterCredentialType(ctx context.Context, t CredentialType) (Registration[CredentialDefinition], error) {
	if t.IssuerDID.IsNil() || t.Name == "" || t.SchemaID == "" || t.CredDefID == "" {
		return Registration[CredentialDefinition]{}, dErrors.New(dErrors.CodeInvalidInput, "issuer, type name, schema id and credential definition id are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schemas[t.SchemaID]; !ok {
		s.schemas[t.SchemaID] = Schema{
			ID:        t.SchemaID,
			Name:      t.Name,
			Version:   "1.0",
			AttrNames: slices.Sorted(slices.Values(t.AttrNames)),
		}
		s.logger.InfoContext(ctx, "schema registered", "schema_id", t.SchemaID)
	}

	def, ok := s.credDefs[t.CredDefID]
	if !ok {
		def = CredentialDefinition{ID: t.CredDefID, SchemaID: t.SchemaID, Type: "CL", Tag: "default"}
	} else if def.SchemaID != t.SchemaID {
		return Registration[CredentialDefinition]{}, dErrors.New(dErrors.CodeConflict, "credential definition is bound to another schema")
	}
	if slices.Contains(def.Issuers, t.IssuerDID) {
		return Registration[CredentialDefinition]{Value: def.clone()}, nil
	}
	def.Issuers = append(slices.Clone(def.Issuers), t.IssuerDID)
	s.credDefs[t.CredDefID] = def
	s.logger.InfoContext(ctx, "issuer bound to credential definition",
		"cred_def_id", t.CredDefID,
		"issuer_did", t.IssuerDID,
	)
	return Registration[CredentialDefinition]{Value: def.clone(), Created: true}, nil
}

// CredentialDefinition looks up a registered credential definition.
func (s *Simulated) CredentialDefinition(_ context.Context, credDefID string) (CredentialDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.credDefs[credDefID]
	if !ok {
		return CredentialDefinition{}, dErrors.New(dErrors.CodeNotFound, "credential definition not registered")
	}
	return def.clone(), nil
}

// Verify checks the credential is bound to the expected credential definition, that
// the definition is registered and that the credential's issuer is bound to it.
func (s *Simulated) Verify(ctx context.Context, cred CredentialView, credDefID string) (Verification, error) {
	if cred.CredentialID.IsNil() {
		return Verification{}, dErrors.New(dErrors.CodeInvalidInput, "credential id is required")
	}
	s.mu.RLock()
	def, registered := s.credDefs[credDefID]
	s.mu.RUnlock()

	v := Verification{
		Verified:  registered && cred.CredDefID == credDefID && slices.Contains(def.Issuers, cred.IssuerDID),
		CredDefID: credDefID,
		Timestamp: requesttime.Now(ctx).UTC(),
	}
	s.logger.DebugContext(ctx, "credential verified against ledger",
		"credential_id", cred.CredentialID,
		"verified", v.Verified,
	)
	return v, nil
}

func (d CredentialDefinition) clone() CredentialDefinition {
	d.Issuers = slices.Clone(d.Issuers)
	return d
}
