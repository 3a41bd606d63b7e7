package domain

import (
	"fmt"
	"strings"
)

// OperationKind names a token operation. Values match the
// token_transactions.transaction_type column.
type OperationKind string

const (
	OperationCreate            OperationKind = "create"
	OperationMint              OperationKind = "mint"
	OperationBurn              OperationKind = "burn"
	OperationFreeze            OperationKind = "freeze"
	OperationThaw              OperationKind = "thaw"
	OperationUpdateMetadata    OperationKind = "update_metadata"
	OperationRevokeAuthority   OperationKind = "revoke_authority"
	OperationTransferAuthority OperationKind = "transfer_authority"
)

// Authority names a mint authority that can be revoked or transferred.
type Authority string

const (
	AuthorityMint   Authority = "mint"
	AuthorityFreeze Authority = "freeze"
)

// Valid reports whether a is a known authority.
func (a Authority) Valid() bool {
	return a == AuthorityMint || a == AuthorityFreeze
}

// ManagementRequest is one post-creation operation against a bound mint.
type ManagementRequest interface {
	Kind() OperationKind
	Validate() error
}

// MintMore mints Amount display units to the caller's associated account.
type MintMore struct {
	Amount string
}

// Burn burns Amount display units from the caller's associated account.
type Burn struct {
	Amount string
}

// Freeze freezes the associated account of Owner.
type Freeze struct {
	Owner string
}

// Thaw thaws the associated account of Owner.
type Thaw struct {
	Owner string
}

// UpdateMetadata replaces the whole metadata data record.
// All three fields are required: the metadata program has no partial update.
type UpdateMetadata struct {
	Name   string
	Symbol string
	URI    string
}

// RevokeAuthority permanently clears one mint authority.
type RevokeAuthority struct {
	Authority Authority
}

// TransferAuthority hands one mint authority to NewOwner.
type TransferAuthority struct {
	Authority Authority
	NewOwner  string
}

func (MintMore) Kind() OperationKind          { return OperationMint }
func (Burn) Kind() OperationKind              { return OperationBurn }
func (Freeze) Kind() OperationKind            { return OperationFreeze }
func (Thaw) Kind() OperationKind              { return OperationThaw }
func (UpdateMetadata) Kind() OperationKind    { return OperationUpdateMetadata }
func (RevokeAuthority) Kind() OperationKind   { return OperationRevokeAuthority }
func (TransferAuthority) Kind() OperationKind { return OperationTransferAuthority }

func (r MintMore) Validate() error { return validateAmount(r.Amount) }
func (r Burn) Validate() error     { return validateAmount(r.Amount) }
func (r Freeze) Validate() error   { return validateOwner(r.Owner) }
func (r Thaw) Validate() error     { return validateOwner(r.Owner) }

func (r RevokeAuthority) Validate() error { return validateAuthority(r.Authority) }

func (r TransferAuthority) Validate() error {
	if err := validateAuthority(r.Authority); err != nil {
		return err
	}
	if strings.TrimSpace(r.NewOwner) == "" {
		return fmt.Errorf("%w: new authority address is required", ErrValidation)
	}
	return nil
}

func (r UpdateMetadata) Validate() error {
	name := strings.TrimSpace(r.Name)
	symbol := strings.ToUpper(strings.TrimSpace(r.Symbol))
	uri := strings.TrimSpace(r.URI)
	if name == "" || symbol == "" || uri == "" {
		return fmt.Errorf("%w: name, symbol, and uri are required", ErrValidation)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d bytes", ErrValidation, MaxNameLength)
	}
	if len(symbol) > MaxSymbolLength {
		return fmt.Errorf("%w: symbol exceeds %d bytes", ErrValidation, MaxSymbolLength)
	}
	return ValidateMetadataURI(uri)
}

func validateAmount(amount string) error {
	if strings.TrimSpace(amount) == "" {
		return fmt.Errorf("%w: amount is required", ErrValidation)
	}
	return nil
}

func validateAuthority(a Authority) error {
	if !a.Valid() {
		return fmt.Errorf("%w: unknown authority %q, want mint or freeze", ErrValidation, a)
	}
	return nil
}

func validateOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return fmt.Errorf("%w: owner address is required", ErrValidation)
	}
	return nil
}

// OperationResult is the outcome of a confirmed management transaction.
type OperationResult struct {
	Kind      OperationKind
	Mint      string
	Signature string
}

// TokenInfo is the on-chain state of a mint plus the caller's balance.
// Empty authority strings mean the authority is revoked.
type TokenInfo struct {
	Mint            string
	Decimals        uint8
	Supply          uint64
	MintAuthority   string
	FreezeAuthority string
	Initialized     bool
	Holder          string
	Balance         uint64
	DisplaySupply   string
	DisplayBalance  string
}
